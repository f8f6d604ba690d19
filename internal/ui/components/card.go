package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pdfquiz/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for centered cards.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 90 {
		w = 90
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Padding(0, 2).
		Render(content)
}

// Message renders a one-line status message. Errors are shown in the
// error color, everything else dimmed.
func Message(text string, isErr bool) string {
	if text == "" {
		return ""
	}
	if isErr {
		return theme.Incorrect.Render(text)
	}
	return theme.Hint.Render(text)
}
