package session

import (
	"context"
	"errors"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pdfquiz/internal/screen"
	sess "github.com/abhisek/pdfquiz/internal/session"
	"github.com/abhisek/pdfquiz/internal/ui/components"
	"github.com/abhisek/pdfquiz/internal/ui/layout"
)

// SessionScreen implements screen.Screen for answering questions.
type SessionScreen struct {
	engine  *sess.Engine
	view    sess.View
	options components.OptionList
	errMsg  string
}

var _ screen.Screen = (*SessionScreen)(nil)
var _ screen.KeyHintProvider = (*SessionScreen)(nil)

// New creates a SessionScreen over the engine.
func New(engine *sess.Engine) *SessionScreen {
	s := &SessionScreen{engine: engine}
	s.refresh()
	return s
}

func (s *SessionScreen) Init() tea.Cmd {
	return nil
}

func (s *SessionScreen) Title() string {
	return "Quiz"
}

func (s *SessionScreen) KeyHints() []layout.KeyHint {
	if _, answered := s.view.Answered(); answered {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "←→", Description: "Navigate"},
			{Key: "F", Description: "Finish"},
			{Key: "E", Description: "Edit"},
			{Key: "H", Description: "Progress"},
			{Key: "U", Description: "New document"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓/A-D", Description: "Choose"},
		{Key: "Space", Description: "Select"},
		{Key: "Enter", Description: "Confirm"},
		{Key: "←→", Description: "Navigate"},
		{Key: "F", Description: "Finish"},
		{Key: "E", Description: "Edit"},
		{Key: "H", Description: "Progress"},
	}
}

// refresh reloads the session view and rebuilds the option list for the
// displayed question, keeping the cursor when the question is unchanged.
func (s *SessionScreen) refresh() {
	prevID := ""
	if q, ok := s.view.Current(); ok {
		prevID = q.ID
	}
	cursor := s.options.Cursor

	s.view = s.engine.View()
	q, ok := s.view.Current()
	if !ok {
		s.options = components.OptionList{}
		return
	}

	s.options = components.NewOptionList(q.Options)
	s.options.Pending = s.view.Pending
	s.options.Correct = q.CorrectAnswer
	if a, answered := s.view.Answered(); answered {
		s.options.Answer = a
	}
	switch {
	case q.ID == prevID:
		s.options.Cursor = cursor
	case s.view.Pending != "":
		for i, o := range q.Options {
			if o == s.view.Pending {
				s.options.Cursor = i
			}
		}
	}
}

func (s *SessionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.ChangedMsg:
		s.refresh()
		return s, nil
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *SessionScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	ctx := context.Background()
	s.errMsg = ""
	_, answered := s.view.Answered()

	var err error
	switch msg.String() {
	case " ", "space":
		if answered {
			return s, nil
		}
		err = s.engine.Select(s.options.Highlighted())
	case "enter":
		if answered {
			return s, s.act(s.engine.GoNext(ctx))
		}
		if s.view.Pending == "" {
			if err = s.engine.Select(s.options.Highlighted()); err != nil {
				break
			}
		}
		err = s.engine.ConfirmAnswer(ctx)
	case "right", "n":
		return s, s.act(s.engine.GoNext(ctx))
	case "left", "p":
		err = s.engine.GoPrev(ctx)
	case "f":
		return s, s.act(s.engine.FinishQuiz(ctx))
	case "e":
		return s, s.act(s.engine.OpenAdmin())
	case "h":
		return s, s.act(s.engine.OpenProgress())
	case "u":
		return s, s.act(s.engine.NewDocument())
	default:
		if !answered {
			s.options, _ = s.options.Update(msg)
		}
		return s, nil
	}

	s.report(err)
	s.refresh()
	return s, nil
}

// act handles the result of an operation that may change the mode.
func (s *SessionScreen) act(err error) tea.Cmd {
	s.report(err)
	s.refresh()
	if err != nil {
		return nil
	}
	return screen.Changed
}

func (s *SessionScreen) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, sess.ErrOutOfRange):
		// Already at the first question.
	default:
		s.errMsg = err.Error()
	}
}

func (s *SessionScreen) View(width, height int) string {
	if s.view.Session == nil || len(s.view.Session.Questions) == 0 {
		return renderEmpty(width, height)
	}
	return s.renderQuestionView(width, height)
}
