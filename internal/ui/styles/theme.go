// Copyright (c) 2025 Courtside Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components for the application. It detects the
// terminal's color capability and adjusts accordingly.
type Theme struct {
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout
	App    lipgloss.Style
	Header lipgloss.Style

	// Message bubbles
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	ErrorBubble     lipgloss.Style
	RoleLabel       lipgloss.Style

	// Tool status and spinner
	ToolStatus lipgloss.Style
	Spinner    lipgloss.Style

	// Quick-reply chips
	Chip         lipgloss.Style
	ChipSelected lipgloss.Style

	// Suggestion banner
	SuggestionBox    lipgloss.Style
	SuggestionTitle  lipgloss.Style
	SuggestionItem   lipgloss.Style
	SuggestionAction lipgloss.Style

	// Error banner
	ErrorBanner lipgloss.Style

	// Input area
	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
}

// NewTheme creates a theme with all styles configured. forceDark overrides
// background detection: "dark", "light", or "" for auto.
func NewTheme(forceDark string) *Theme {
	colorProfile := termenv.ColorProfile()
	isDark := termenv.HasDarkBackground()
	switch forceDark {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	}

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()

	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal).
		Background(SurfaceDim).
		Padding(0, 2)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(UserBubbleBorder).
		PaddingLeft(1).
		MarginLeft(2)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(AssistantBubbleBorder).
		PaddingLeft(1)

	t.ErrorBubble = lipgloss.NewStyle().
		Foreground(Rose).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Rose).
		PaddingLeft(1)

	t.RoleLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)

	t.ToolStatus = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Teal)

	t.Chip = lipgloss.NewStyle().
		Foreground(Teal).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.ChipSelected = lipgloss.NewStyle().
		Foreground(Surface).
		Background(Teal).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Teal).
		Padding(0, 1).
		Bold(true)

	t.SuggestionBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Amber).
		Padding(0, 1)

	t.SuggestionTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Amber)

	t.SuggestionItem = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.SuggestionAction = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ErrorBanner = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)
}
