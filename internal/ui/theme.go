// Package ui renders the terminal front end: the main menu, list pickers,
// forms and the minimal prompt mode used on narrow terminals.
package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DefaultTheme is used when the configured theme is unknown
const DefaultTheme = "blue"

var themes = map[string]lipgloss.Color{
	"blue":   lipgloss.Color("#6366F1"),
	"red":    lipgloss.Color("#FF4757"),
	"green":  lipgloss.Color("#2ED573"),
	"purple": lipgloss.Color("#A855F7"),
	"cyan":   lipgloss.Color("#00D2D3"),
	"yellow": lipgloss.Color("#FFD700"),
	"pink":   lipgloss.Color("#FF6B81"),
	"orange": lipgloss.Color("#FFA502"),
}

var (
	mutedColor   = lipgloss.Color("#A9A9A9")
	errorColor   = lipgloss.Color("#FF4757")
	successColor = lipgloss.Color("#7BED9F")
)

// ThemeNames lists the available accent themes in alphabetical order
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Styles bundles the lipgloss styles derived from one accent color
type Styles struct {
	Accent  lipgloss.Color
	Title   lipgloss.Style
	Key     lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Box     lipgloss.Style
}

// NewStyles builds the styles for theme, falling back to DefaultTheme
func NewStyles(theme string) Styles {
	accent, ok := themes[strings.ToLower(strings.TrimSpace(theme))]
	if !ok {
		accent = themes[DefaultTheme]
	}
	return Styles{
		Accent:  accent,
		Title:   lipgloss.NewStyle().Foreground(accent).Bold(true),
		Key:     lipgloss.NewStyle().Foreground(accent).Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(mutedColor),
		Error:   lipgloss.NewStyle().Foreground(errorColor).Bold(true),
		Success: lipgloss.NewStyle().Foreground(successColor).Bold(true),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2),
	}
}
