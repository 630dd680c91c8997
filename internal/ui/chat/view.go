// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/courtside/courtside-tui/internal/model"
	"github.com/courtside/courtside-tui/internal/profile"
	"github.com/courtside/courtside-tui/internal/session"
	"github.com/courtside/courtside-tui/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Starting courtside…"
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if banner := m.viewSuggestionBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}
	if chips := m.viewChips(); chips != "" {
		b.WriteString(chips)
		b.WriteString("\n")
	}

	b.WriteString(m.viewInput())
	b.WriteString("\n")
	b.WriteString(m.viewStatusBar())
	return b.String()
}

func (m *Model) viewHeader() string {
	title := "courtside — padel assistant"
	return m.theme.Header.Width(m.width).Render(title)
}

// refreshViewport re-renders the transcript into the viewport and pins the
// view to the bottom.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m *Model) renderTranscript() string {
	if len(m.snap.Messages) == 0 {
		return m.theme.SuggestionAction.Render(
			"\n  Ask about padel courts, clubs, and free slots.\n" +
				"  Try: \"Find me a court in Madrid tomorrow evening\"")
	}

	var b strings.Builder
	for _, msg := range m.snap.Messages {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n\n")
	}

	if m.snap.Loading {
		status := m.spinner.View() + " "
		if m.snap.ToolStatus != "" {
			status += m.theme.ToolStatus.Render(m.snap.ToolStatus)
		} else {
			status += m.theme.ToolStatus.Render("Thinking…")
		}
		b.WriteString(status)
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderMessage(msg *model.Message) string {
	wrap := m.width - 6
	if wrap < 20 {
		wrap = 20
	}

	switch {
	case msg.Role == model.RoleUser:
		label := m.theme.RoleLabel.Render("You")
		body := m.theme.UserBubble.Width(wrap).Render(msg.Text)
		return label + "\n" + body

	case msg.IsError:
		label := m.theme.RoleLabel.Render("Assistant")
		body := m.theme.ErrorBubble.Width(wrap).Render(msg.Text)
		return label + "\n" + body

	default:
		label := m.theme.RoleLabel.Render("Assistant")
		text := msg.Text
		if text == "" && m.snap.Loading {
			return label
		}
		if m.renderer != nil {
			if rendered, err := m.renderer.Render(text); err == nil {
				text = strings.TrimRight(rendered, "\n")
			}
		}
		body := m.theme.AssistantBubble.Width(wrap).Render(text)
		return label + "\n" + body
	}
}

// =============================================================================
// SIDE CHANNELS
// =============================================================================

func (m *Model) viewSuggestionBanner() string {
	if len(m.snap.PendingSuggestions) == 0 {
		return ""
	}

	var items []string
	for _, p := range m.snap.PendingSuggestions {
		items = append(items, m.theme.SuggestionItem.Render(
			displayKey(p.Key)+": "+p.Value))
	}

	content := m.theme.SuggestionTitle.Render("Save preferences?") + "  " +
		strings.Join(items, "  ·  ") + "  " +
		m.theme.SuggestionAction.Render("[ctrl+y accept / ctrl+x dismiss]")
	return m.theme.SuggestionBox.Width(m.width - 2).Render(content)
}

// displayKey turns "preferred_club_name" into "preferred club name".
func displayKey(key string) string {
	if profile.IsHiddenKey(key) {
		return "club"
	}
	return strings.ReplaceAll(key, "_", " ")
}

func (m *Model) viewChips() string {
	if len(m.snap.Chips) == 0 || m.snap.Loading {
		return ""
	}

	var rendered []string
	used := 0
	for i, chip := range m.snap.Chips {
		label := util.TruncateWidth(chip, 40)
		style := m.theme.Chip
		if i == m.chipCursor {
			style = m.theme.ChipSelected
		}
		item := style.Render(label)
		w := lipgloss.Width(item)
		if used+w > m.width-2 {
			break
		}
		used += w + 1
		rendered = append(rendered, item)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(rendered, " "))
}

func (m *Model) viewInput() string {
	return m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())
}

func (m *Model) viewStatusBar() string {
	if m.snap.ErrorText != "" {
		return m.theme.StatusBar.Width(m.width).Render(
			m.theme.ErrorBanner.Render(m.snap.ErrorText))
	}
	if m.notice != "" {
		return m.theme.StatusBar.Width(m.width).Render(m.notice)
	}

	shortcuts := []struct{ key, desc string }{
		{"enter", "send"},
		{"tab", "chips"},
		{"ctrl+s", "save"},
		{"ctrl+n", "new"},
		{"ctrl+c", "quit"},
	}
	var parts []string
	for _, s := range shortcuts {
		parts = append(parts,
			m.theme.ShortcutKey.Render(s.key)+" "+m.theme.ShortcutDesc.Render(s.desc))
	}
	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, "  "))
}

// Snapshot exposes the rendered state, for tests.
func (m *Model) Snapshot() session.Snapshot {
	return m.snap
}
