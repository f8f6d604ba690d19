package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pdfquiz/internal/ui/theme"
)

// Labels are the letters shown in front of the options.
var Labels = []string{"A", "B", "C", "D"}

// OptionList renders the four options of a question. The cursor is
// local to the component; the pending and confirmed answers come from
// the session.
type OptionList struct {
	Options []string
	Cursor  int

	// Pending is the selected but unconfirmed option.
	Pending string
	// Answer is the confirmed option; once set the list reveals Correct.
	Answer  string
	Correct string
}

// NewOptionList creates an option list with the cursor on the first option.
func NewOptionList(options []string) OptionList {
	return OptionList{Options: options}
}

// Revealed reports whether the answer has been confirmed.
func (o OptionList) Revealed() bool {
	return o.Answer != ""
}

// Highlighted returns the option under the cursor.
func (o OptionList) Highlighted() string {
	if o.Cursor < 0 || o.Cursor >= len(o.Options) {
		return ""
	}
	return o.Options[o.Cursor]
}

// Update moves the cursor. Letter keys jump straight to an option.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
	case "down", "j":
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
	default:
		if i := LabelIndex(key); i >= 0 && i < len(o.Options) {
			o.Cursor = i
		}
	}
	return o, nil
}

// LabelIndex maps "a"-"d" or "1"-"4" to an option index, or -1.
func LabelIndex(key string) int {
	if len(key) != 1 {
		return -1
	}
	c := key[0]
	switch {
	case c >= 'a' && c <= 'd':
		return int(c - 'a')
	case c >= 'A' && c <= 'D':
		return int(c - 'A')
	case c >= '1' && c <= '4':
		return int(c - '1')
	}
	return -1
}

// View renders the options, one per line.
func (o OptionList) View(width int) string {
	var b strings.Builder
	for i, opt := range o.Options {
		label := "?"
		if i < len(Labels) {
			label = Labels[i]
		}
		prefix := "  "
		if i == o.Cursor && !o.Revealed() {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)
		line = lipgloss.NewStyle().Width(width).Render(line)

		switch {
		case o.Revealed() && opt == o.Correct:
			line = theme.Correct.Render(line + "  ✓")
		case o.Revealed() && opt == o.Answer:
			line = theme.Incorrect.Render(line + "  ✗")
		case o.Revealed():
			line = lipgloss.NewStyle().Foreground(theme.TextDim).Render(line)
		case opt == o.Pending:
			line = theme.Pending.Render(line + "  ●")
		case i == o.Cursor:
			line = theme.Selected.Render(line)
		default:
			line = theme.Unselected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
