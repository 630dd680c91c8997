// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/courtside/courtside-tui/internal/storage"
	"github.com/courtside/courtside-tui/internal/util"
)

// newHistoryCmd manages saved conversations.
func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Manage saved conversations",
	}

	var search string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.OpenHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			metas, err := store.Search(search)
			if err != nil {
				return err
			}
			if len(metas) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No conversations found.")
				return nil
			}
			for _, m := range metas {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %3d msgs  %s\n",
					m.ID[:8],
					m.UpdatedAt.Format("2006-01-02 15:04"),
					m.MessageCount,
					util.TruncateWidth(m.Summary, 48))
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&search, "search", "", "filter by text in summary or messages")

	cmd.AddCommand(
		listCmd,
		&cobra.Command{
			Use:   "resume <id>",
			Short: "Reopen a conversation in the TUI",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := app.OpenHistory()
				if err != nil {
					return err
				}
				id, err := resolveID(store, args[0])
				store.Close()
				if err != nil {
					return err
				}
				return runTUI(app, id)
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a conversation",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := app.OpenHistory()
				if err != nil {
					return err
				}
				defer store.Close()
				id, err := resolveID(store, args[0])
				if err != nil {
					return err
				}
				return store.Delete(id)
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete all conversations",
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := app.OpenHistory()
				if err != nil {
					return err
				}
				defer store.Close()
				return store.Clear()
			},
		},
	)
	return cmd
}

// resolveID accepts a full conversation ID or an unambiguous prefix.
func resolveID(store *storage.HistoryStore, arg string) (string, error) {
	metas, err := store.List()
	if err != nil {
		return "", err
	}
	var match string
	for _, m := range metas {
		if m.ID == arg {
			return arg, nil
		}
		if len(arg) >= 4 && len(m.ID) >= len(arg) && m.ID[:len(arg)] == arg {
			if match != "" {
				return "", fmt.Errorf("ambiguous conversation id prefix: %s", arg)
			}
			match = m.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no conversation matches: %s", arg)
	}
	return match, nil
}
