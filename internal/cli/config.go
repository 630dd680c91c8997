// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/courtside/courtside-tui/internal/config"
)

// newConfigCmd shows and edits the configuration file.
func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the effective configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				path, _ := config.Path()
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, "config file:", path)
				fmt.Fprintln(out, "server.url: ", app.Config.Server.URL)
				fmt.Fprintln(out, "region.country: ", orUnset(app.Config.Region.Country))
				fmt.Fprintln(out, "region.language:", app.Config.Region.Language)
				fmt.Fprintln(out, "region.timezone:", orUnset(app.Config.Region.Timezone))
				fmt.Fprintln(out, "ui.theme:   ", app.Config.UI.Theme)
				fmt.Fprintf(out, "ui.markdown: %v\n", app.Config.UI.Markdown)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a configuration value",
			Long: `Set a configuration value and save the file.

Keys: server.url, region.country, region.language, region.timezone,
ui.theme, ui.markdown`,
			Args: cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				key, value := args[0], args[1]
				cfg := app.Config

				switch key {
				case "server.url":
					cfg.Server.URL = value
				case "region.country":
					cfg.Region.Country = value
				case "region.language":
					cfg.Region.Language = value
				case "region.timezone":
					cfg.Region.Timezone = value
				case "ui.theme":
					cfg.UI.Theme = value
				case "ui.markdown":
					cfg.UI.Markdown = value == "true" || value == "1"
				default:
					return fmt.Errorf("unknown config key: %s", key)
				}

				if err := cfg.Validate(); err != nil {
					return err
				}
				return cfg.Save()
			},
		},
	)
	return cmd
}

func orUnset(v string) string {
	if v == "" {
		return "(unset)"
	}
	return v
}
