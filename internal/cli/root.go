// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli wires the cobra command tree. The bare command opens the TUI;
// subcommands cover one-shot questions, a plain REPL, and management of the
// profile, history, and configuration.
package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/courtside/courtside-tui/internal/agent"
	"github.com/courtside/courtside-tui/internal/config"
	"github.com/courtside/courtside-tui/internal/locale"
	"github.com/courtside/courtside-tui/internal/logging"
	"github.com/courtside/courtside-tui/internal/profile"
	"github.com/courtside/courtside-tui/internal/session"
	"github.com/courtside/courtside-tui/internal/storage"
	"github.com/courtside/courtside-tui/internal/ui/chat"
)

// Version is set at build time.
var Version = "0.2.0"

// =============================================================================
// APPLICATION CONTEXT
// =============================================================================

// App holds the collaborators shared by every command, built once in the
// root PersistentPreRun.
type App struct {
	Config   *config.Config
	DataDir  string
	Profiles profile.Store
	Locale   *locale.Localizer

	logCloser interface{ Close() error }
}

// NewEngine builds a session engine from the app's configuration.
func (a *App) NewEngine() *session.Engine {
	client := agent.NewClient(a.Config.Server.URL)
	return session.NewEngine(client, a.Profiles, a.Locale).
		WithRegion(session.Region{
			Country:  a.Config.Region.Country,
			Language: a.Config.Region.Language,
			Timezone: a.Config.Region.Timezone,
		})
}

// OpenHistory opens the history store under the data dir.
func (a *App) OpenHistory() (*storage.HistoryStore, error) {
	return storage.Open(a.DataDir)
}

// interactive reports whether stdout is a terminal.
func interactive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	app := &App{}
	var logLevel string

	root := &cobra.Command{
		Use:   "courtside",
		Short: "Chat with the padel court-finder assistant",
		Long: `courtside is a terminal client for the padel court-finder assistant.

Run without arguments to open the chat TUI. The assistant searches clubs and
free slots, remembers your preferences, and offers quick replies after each
answer.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			dir, err := config.Dir()
			if err != nil {
				return err
			}

			app.Config = cfg
			app.DataDir = dir
			app.Profiles = profile.NewFileStore(dir)
			app.Locale = locale.New(cfg.Region.Language)

			if closer, err := logging.Setup(dir, logLevel); err == nil {
				app.logCloser = closer
			} else {
				logging.SetupStderr(logLevel)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.logCloser != nil {
				app.logCloser.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(app, "")
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level: debug, info, warn, error")

	root.AddCommand(
		newAskCmd(app),
		newChatCmd(app),
		newProfileCmd(app),
		newHistoryCmd(app),
		newConfigCmd(app),
	)
	return root
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// runTUI opens the chat view, optionally resuming a stored conversation.
func runTUI(app *App, resumeID string) error {
	if !interactive() {
		return fmt.Errorf("not a terminal; use `courtside ask` for scripted runs")
	}

	engine := app.NewEngine()
	history, err := app.OpenHistory()
	if err != nil {
		return err
	}
	defer history.Close()

	// Reload region and language live while the TUI runs; `config set` and
	// hand edits both land mid-session this way.
	if path, perr := config.Path(); perr == nil {
		watcher, werr := config.Watch(path, func(cfg *config.Config) {
			applyConfigReload(app, engine, cfg)
		})
		if werr != nil {
			log.Warn().Err(werr).Msg("config watcher unavailable, live reload disabled")
		} else {
			defer watcher.Close()
		}
	}

	if resumeID != "" {
		transcript, err := history.Load(resumeID)
		if err != nil {
			return err
		}
		engine.LoadTranscript(transcript)
	}

	view := chat.New(engine, chat.Options{
		Markdown:       app.Config.UI.Markdown,
		Theme:          app.Config.UI.Theme,
		History:        history,
		ConversationID: resumeID,
	})
	_, err = tea.NewProgram(view, tea.WithAltScreen()).Run()
	return err
}

// applyConfigReload pushes a reloaded config into a running session. Region
// and language take effect on the next turn; the server URL is bound at
// startup and needs a restart.
func applyConfigReload(app *App, engine *session.Engine, cfg *config.Config) {
	prev := app.Config
	app.Config = cfg
	app.Locale = locale.New(cfg.Region.Language)
	engine.WithRegion(session.Region{
		Country:  cfg.Region.Country,
		Language: cfg.Region.Language,
		Timezone: cfg.Region.Timezone,
	}).SetLocalizer(app.Locale)

	if prev != nil && prev.Server.URL != cfg.Server.URL {
		log.Info().Str("url", cfg.Server.URL).Msg("server url changed, restart to apply")
	}
}
