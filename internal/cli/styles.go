package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	DoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)
)

// Swatch renders text in a category color.
func Swatch(color, text string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}

// ProgressBar draws percent (0-100) as a bar of the given width.
func ProgressBar(percent, width int) string {
	percent = max(0, min(percent, 100))
	filled := percent * width / 100
	return DoneStyle.Render(strings.Repeat("█", filled)) +
		MutedStyle.Render(strings.Repeat("░", width-filled))
}
