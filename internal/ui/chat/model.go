// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"

	"github.com/courtside/courtside-tui/internal/session"
	"github.com/courtside/courtside-tui/internal/storage"
	"github.com/courtside/courtside-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// snapshotMsg carries a fresh session snapshot into the update loop.
type snapshotMsg session.Snapshot

// turnDoneMsg signals that a Submit call returned.
type turnDoneMsg struct {
	err error
}

// savedMsg signals that the conversation was written to history.
type savedMsg struct {
	id  string
	err error
}

// =============================================================================
// MODEL
// =============================================================================

// snapshotQueueSize bounds buffered snapshots between renders. The engine
// never blocks on a slow renderer; old snapshots are dropped since only the
// latest matters.
const snapshotQueueSize = 64

// Model is the Bubble Tea model for the chat view.
type Model struct {
	engine  *session.Engine
	history *storage.HistoryStore
	theme   *styles.Theme

	snap      session.Snapshot
	snapshots chan session.Snapshot

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	// chipCursor is the highlighted quick-reply chip, -1 when the input has
	// focus instead.
	chipCursor int

	convID   string
	notice   string
	width    int
	height   int
	ready    bool
	quitting bool
}

// Options configures the chat view.
type Options struct {
	// Markdown enables glamour rendering of assistant replies.
	Markdown bool
	// Theme forces "dark" or "light"; "" auto-detects.
	Theme string
	// History is optional; nil disables saving.
	History *storage.HistoryStore
	// ConversationID resumes an existing history entry.
	ConversationID string
}

// New creates the chat view over an engine.
func New(engine *session.Engine, opts Options) *Model {
	theme := styles.NewTheme(opts.Theme)

	ti := textinput.New()
	ti.Placeholder = "Ask about courts, clubs, or slots…"
	ti.Prompt = theme.InputPrompt.Render("> ")
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = theme.Spinner

	m := &Model{
		engine:     engine,
		history:    opts.History,
		theme:      theme,
		snapshots:  make(chan session.Snapshot, snapshotQueueSize),
		input:      ti,
		spinner:    sp,
		chipCursor: -1,
		convID:     opts.ConversationID,
		snap:       engine.Snapshot(),
	}

	if opts.Markdown {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			log.Warn().Err(err).Msg("markdown renderer unavailable, using plain text")
		} else {
			m.renderer = renderer
		}
	}

	// The engine calls back from its own goroutine; queue the snapshot and
	// let the update loop drain it. Dropping the oldest under pressure is
	// fine because every snapshot is complete.
	engine.SetChangeCallback(func(s session.Snapshot) {
		for {
			select {
			case m.snapshots <- s:
				return
			default:
				select {
				case <-m.snapshots:
				default:
				}
			}
		}
	})

	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForSnapshot())
}

// waitForSnapshot blocks until the engine publishes a state change.
func (m *Model) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-m.snapshots)
	}
}

// submitCmd runs one full turn on its own goroutine.
func (m *Model) submitCmd(prompt string) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		return turnDoneMsg{err: engine.Submit(context.Background(), prompt)}
	}
}

// saveCmd persists the transcript to history.
func (m *Model) saveCmd() tea.Cmd {
	engine, history, id := m.engine, m.history, m.convID
	return func() tea.Msg {
		savedID, err := history.Save(id, engine.Transcript())
		return savedMsg{id: savedID, err: err}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case snapshotMsg:
		m.snap = session.Snapshot(msg)
		if m.chipCursor >= len(m.snap.Chips) {
			m.chipCursor = -1
		}
		m.refreshViewport()
		return m, m.waitForSnapshot()

	case turnDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, session.ErrBusy) {
			log.Warn().Err(msg.err).Msg("turn ended with error")
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.notice = "Save failed: " + msg.err.Error()
		} else {
			m.convID = msg.id
			m.notice = "Conversation saved"
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "ctrl+n":
		m.engine.Reset()
		m.convID = ""
		m.chipCursor = -1
		return m, nil

	case "ctrl+s":
		if m.history == nil || len(m.snap.Messages) == 0 {
			return m, nil
		}
		return m, m.saveCmd()

	case "ctrl+y":
		if len(m.snap.PendingSuggestions) > 0 {
			eng := m.engine
			return m, func() tea.Msg {
				if err := eng.AcceptSuggestions(); err != nil {
					log.Warn().Err(err).Msg("failed to accept suggestions")
				}
				return nil
			}
		}
		return m, nil

	case "ctrl+x":
		m.engine.DismissSuggestions()
		return m, nil

	case "tab":
		if len(m.snap.Chips) > 0 && !m.snap.Loading {
			m.chipCursor = (m.chipCursor + 2) % (len(m.snap.Chips) + 1) - 1
		}
		return m, nil

	case "enter":
		if m.snap.Loading {
			return m, nil
		}
		prompt := m.input.Value()
		if m.chipCursor >= 0 && m.chipCursor < len(m.snap.Chips) {
			prompt = m.snap.Chips[m.chipCursor]
		}
		m.input.Reset()
		m.chipCursor = -1
		return m, m.submitCmd(prompt)

	case "pgup":
		m.viewport.HalfViewUp()
		return m, nil

	case "pgdown":
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	chromeHeight := 6 // header + input + status bar
	vpHeight := height - chromeHeight
	if vpHeight < 3 {
		vpHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.input.Width = width - 6

	if m.renderer != nil {
		wrap := width - 4
		if wrap > 100 {
			wrap = 100
		}
		if renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		); err == nil {
			m.renderer = renderer
		}
	}
	m.refreshViewport()
}
