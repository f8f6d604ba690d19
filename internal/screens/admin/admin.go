package admin

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pdfquiz/internal/quiz"
	"github.com/abhisek/pdfquiz/internal/screen"
	sess "github.com/abhisek/pdfquiz/internal/session"
	"github.com/abhisek/pdfquiz/internal/ui/components"
	"github.com/abhisek/pdfquiz/internal/ui/layout"
	"github.com/abhisek/pdfquiz/internal/ui/theme"
)

// AdminScreen lists every question of the quiz and edits one at a time.
type AdminScreen struct {
	engine    *sess.Engine
	questions []quiz.Question
	selected  int

	editing bool
	inputs  []components.TextInput
	focus   int

	msg    string
	msgErr bool
}

var _ screen.Screen = (*AdminScreen)(nil)
var _ screen.KeyHintProvider = (*AdminScreen)(nil)

// New creates an AdminScreen over the engine.
func New(engine *sess.Engine) *AdminScreen {
	s := &AdminScreen{engine: engine}
	s.reload()
	if q, ok := engine.View().Current(); ok {
		for i := range s.questions {
			if s.questions[i].ID == q.ID {
				s.selected = i
			}
		}
	}
	return s
}

func (s *AdminScreen) reload() {
	if z := s.engine.Quiz(); z != nil {
		s.questions = z.Questions
	}
}

func (s *AdminScreen) Init() tea.Cmd {
	return nil
}

func (s *AdminScreen) Title() string {
	return "Edit Questions"
}

func (s *AdminScreen) KeyHints() []layout.KeyHint {
	if s.editing {
		return []layout.KeyHint{
			{Key: "Tab/↑↓", Description: "Field"},
			{Key: "Enter", Description: "Save"},
			{Key: "Esc", Description: "Discard"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Edit"},
		{Key: "Esc", Description: "Back to quiz"},
	}
}

func (s *AdminScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if s.editing {
			return s, s.updateFocused(msg)
		}
		return s, nil
	}
	if s.editing {
		return s, s.handleEditKey(kmsg)
	}

	switch kmsg.String() {
	case "esc":
		if err := s.engine.CloseAdmin(); err != nil {
			s.msg, s.msgErr = err.Error(), true
			return s, nil
		}
		return s, screen.Changed
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.questions)-1 {
			s.selected++
		}
	case "enter":
		if len(s.questions) == 0 {
			return s, nil
		}
		s.editing = true
		s.msg = ""
		s.inputs = newInputs(s.questions[s.selected])
		s.focus = 0
		return s, s.inputs[0].Focus()
	}
	return s, nil
}

func (s *AdminScreen) handleEditKey(kmsg tea.KeyMsg) tea.Cmd {
	switch kmsg.String() {
	case "esc":
		s.editing = false
		s.msg, s.msgErr = "Changes discarded.", false
		return nil
	case "tab", "down":
		return s.moveFocus(1)
	case "shift+tab", "up":
		return s.moveFocus(-1)
	case "enter", "ctrl+s":
		s.save()
		return nil
	}
	return s.updateFocused(kmsg)
}

func (s *AdminScreen) moveFocus(delta int) tea.Cmd {
	s.inputs[s.focus].Blur()
	s.focus = (s.focus + delta + len(s.inputs)) % len(s.inputs)
	return s.inputs[s.focus].Focus()
}

func (s *AdminScreen) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return cmd
}

// save applies the form as an edit. On failure the form stays open.
func (s *AdminScreen) save() {
	q := s.questions[s.selected]
	edit, err := buildEdit(q, inputValues(s.inputs))
	if err != nil {
		s.msg, s.msgErr = err.Error(), true
		return
	}
	if edit.IsZero() {
		s.editing = false
		s.msg, s.msgErr = "No changes.", false
		return
	}
	if _, err := s.engine.ApplyEdit(context.Background(), q.ID, edit); err != nil {
		s.msg, s.msgErr = err.Error(), true
		return
	}
	s.reload()
	s.editing = false
	s.msg, s.msgErr = fmt.Sprintf("Question %d saved.", s.selected+1), false
}

func (s *AdminScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var body string
	if s.editing {
		body = s.renderForm(cw)
	} else {
		body = s.renderList(cw, height-4)
	}
	if s.msg != "" {
		body += "\n" + components.Message(s.msg, s.msgErr)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

func (s *AdminScreen) renderList(width, rows int) string {
	if len(s.questions) == 0 {
		return theme.Hint.Render("No questions to edit.")
	}
	if rows < 1 {
		rows = 1
	}
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}
	end := min(start+rows, len(s.questions))

	var b strings.Builder
	for i := start; i < end; i++ {
		q := s.questions[i]
		flag := " "
		if q.Check() != nil {
			flag = "!"
		}
		meta := fmt.Sprintf("%s %2d  p.%-3d %3.0f%%  ", flag, i+1, q.PageNumber, q.Confidence*100)
		line := meta + layout.Truncate(q.Question, width-lipgloss.Width(meta)-2)

		style := theme.Unselected
		switch {
		case i == s.selected:
			style = theme.Selected
		case q.Check() != nil:
			style = theme.Warning
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *AdminScreen) renderForm(width int) string {
	q := s.questions[s.selected]

	var b strings.Builder
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Editing question %d  (id %s)", s.selected+1, q.ID)))
	b.WriteString("\n\n")
	for i := range s.inputs {
		b.WriteString(s.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Answer accepts a letter A-D. Blank explanation means none in the document."))
	if err := q.Check(); err != nil {
		b.WriteString("\n")
		b.WriteString(theme.Warning.Render("Current record: " + err.Error()))
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}
