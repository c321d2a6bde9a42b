package ui

import (
	"os"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
)

// GetFangScheme returns the same light/dark-aware color scheme fang uses.
func GetFangScheme() fang.ColorScheme {
	// This mirrors fang.mustColorscheme(DefaultColorScheme)
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)
	return fang.DefaultColorScheme(lipgloss.LightDark(isDark))
}

// Styles used when showing a message before and after rewriting.
type Styles struct {
	Label     lipgloss.Style
	Before    lipgloss.Style
	After     lipgloss.Style
	Unchanged lipgloss.Style
}

// MessageStyles returns the styles for the preview command.
func MessageStyles() Styles {
	cs := GetFangScheme()
	return Styles{
		Label:     lipgloss.NewStyle().Bold(true).Foreground(cs.Title),
		Before:    lipgloss.NewStyle().Foreground(cs.Comment),
		After:     lipgloss.NewStyle().Foreground(cs.QuotedString),
		Unchanged: lipgloss.NewStyle().Foreground(cs.Base).Italic(true),
	}
}
