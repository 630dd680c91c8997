// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/courtside/courtside-tui/internal/session"
)

// replHistoryFile stores the prompt history for the plain REPL.
const replHistoryFile = "repl_history"

// newChatCmd runs a plain line-based REPL. It covers terminals where the
// full-screen TUI is unwelcome (ssh sessions, screen readers, logs).
func newChatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat in a plain REPL (no full-screen UI)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(app, cmd.OutOrStdout())
		},
	}
}

func runREPL(app *App, out io.Writer) error {
	engine := app.NewEngine()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := filepath.Join(app.DataDir, replHistoryFile)
	if f, err := os.Open(histPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintln(out, "courtside chat — /new starts over, /quit exits.")

	for {
		prompt, err := line.Prompt("you> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		prompt = strings.TrimSpace(prompt)

		switch prompt {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/new":
			engine.Reset()
			fmt.Fprintln(out, "Started a new conversation.")
			continue
		}

		line.AppendHistory(prompt)
		// A failed turn already left its notice in the transcript; printing
		// the snapshot below covers both outcomes.
		_ = engine.Submit(context.Background(), prompt)

		snap := engine.Snapshot()
		fmt.Fprintln(out, lastAssistantText(snap))
		printSideChannels(out, engine, line, snap)
	}
}

// printSideChannels surfaces suggestions and chips after a turn.
func printSideChannels(out io.Writer, engine *session.Engine, line *liner.State, snap session.Snapshot) {
	if len(snap.PendingSuggestions) > 0 {
		var parts []string
		for _, p := range snap.PendingSuggestions {
			parts = append(parts, p.Key+"="+p.Value)
		}
		answer, err := line.Prompt("Save preferences (" + strings.Join(parts, ", ") + ")? [y/N] ")
		if err == nil && (strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")) {
			if err := engine.AcceptSuggestions(); err != nil {
				fmt.Fprintln(out, "Could not save preferences:", err)
			} else {
				fmt.Fprintln(out, "Preferences saved.")
			}
		} else {
			engine.DismissSuggestions()
		}
	}

	if len(snap.Chips) > 0 {
		fmt.Fprintln(out, "Suggestions: "+strings.Join(snap.Chips, " | "))
	}
}
