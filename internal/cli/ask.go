// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/courtside/courtside-tui/internal/model"
	"github.com/courtside/courtside-tui/internal/session"
)

// newAskCmd submits a single prompt and prints the final reply. Suited to
// scripts and pipes; the exit code reflects the turn outcome.
func newAskCmd(app *App) *cobra.Command {
	var timeoutSecs int

	cmd := &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Ask one question and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")

			ctx := cmd.Context()
			if timeoutSecs > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Duration(timeoutSecs)*time.Second)
				defer cancel()
			}

			engine := app.NewEngine()
			if err := engine.Submit(ctx, prompt); err != nil {
				// The localized notice is already in the transcript.
				if text := lastAssistantText(engine.Snapshot()); text != "" {
					fmt.Fprintln(cmd.ErrOrStderr(), text)
				}
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), lastAssistantText(engine.Snapshot()))
			return nil
		},
	}

	cmd.Flags().IntVar(&timeoutSecs, "timeout", 120, "request timeout in seconds (0 = none)")
	return cmd
}

// lastAssistantText returns the text of the most recent assistant message.
func lastAssistantText(snap session.Snapshot) string {
	for i := len(snap.Messages) - 1; i >= 0; i-- {
		if snap.Messages[i].Role == model.RoleAssistant {
			return snap.Messages[i].Text
		}
	}
	return ""
}
