// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/courtside/courtside-tui/internal/profile"
	"github.com/courtside/courtside-tui/internal/util"
)

// newProfileCmd manages the persisted preference profile.
func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage saved preferences",
		Long: `Manage the preferences the assistant remembers between conversations.

Valid keys: ` + strings.Join(profile.DisplayKeys, ", "),
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Show saved preferences",
			RunE: func(cmd *cobra.Command, args []string) error {
				values := app.Profiles.Get()
				shown := 0
				for _, key := range profile.DisplayKeys {
					if v, ok := values[key]; ok {
						fmt.Fprintln(cmd.OutOrStdout(), util.PadRight(key, 20)+" "+v)
						shown++
					}
				}
				if shown == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No preferences saved.")
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a preference",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Profiles.Set(args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s = %s\n", args[0], args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:   "unset <key>",
			Short: "Remove a preference",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.Profiles.Remove(args[0])
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove all preferences",
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.Profiles.Clear()
			},
		},
	)
	return cmd
}
