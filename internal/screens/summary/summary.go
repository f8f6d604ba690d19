package summary

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pdfquiz/internal/quiz"
	"github.com/abhisek/pdfquiz/internal/screen"
	sess "github.com/abhisek/pdfquiz/internal/session"
	"github.com/abhisek/pdfquiz/internal/ui/components"
	"github.com/abhisek/pdfquiz/internal/ui/layout"
	"github.com/abhisek/pdfquiz/internal/ui/theme"
)

// actionMsg carries the outcome of a menu action.
type actionMsg struct {
	err  error
	note string
}

// SummaryScreen shows the score of the finished session, a review of
// each answer and the retake menu.
type SummaryScreen struct {
	engine *sess.Engine
	view   sess.View
	menu   components.Menu
	msg    string
	msgErr bool
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen over the engine.
func New(engine *sess.Engine) *SummaryScreen {
	s := &SummaryScreen{engine: engine, view: engine.View()}
	s.menu = components.NewMenu(s.menuItems())
	return s
}

func (s *SummaryScreen) menuItems() []components.MenuItem {
	ctx := context.Background()
	retake := func(mode sess.RetakeMode) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return actionMsg{err: s.engine.Retake(ctx, mode)} }
		}
	}
	return []components.MenuItem{
		{Label: "Retake incorrect", Action: retake(sess.RetakeIncorrect)},
		{Label: "Retake low-confidence", Action: retake(sess.RetakeLowConfidence)},
		{Label: "Retake all questions", Action: retake(sess.RetakeAll)},
		{Label: "Start fresh", Action: func() tea.Cmd {
			return func() tea.Msg { return actionMsg{err: s.engine.StartFresh(ctx)} }
		}},
		{Label: "Export quiz", Action: func() tea.Cmd {
			return func() tea.Msg {
				path, err := s.export()
				return actionMsg{err: err, note: "Exported to " + path}
			}
		}},
		{Label: "View progress", Action: func() tea.Cmd {
			return func() tea.Msg { return actionMsg{err: s.engine.OpenProgress()} }
		}},
		{Label: "New document", Action: func() tea.Cmd {
			return func() tea.Msg { return actionMsg{err: s.engine.NewDocument()} }
		}},
	}
}

// export writes the active quiz next to the working directory.
func (s *SummaryScreen) export() (string, error) {
	data, err := s.engine.Export()
	if err != nil {
		return "", err
	}
	path := ExportFileName(s.view.Title)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// ExportFileName derives a file name from the quiz title.
func ExportFileName(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		name = "quiz"
	}
	return name + ".json"
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Results"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Menu"},
		{Key: "Enter", Description: "Select"},
		{Key: "←→", Description: "Review answers"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case actionMsg:
		switch {
		case errors.Is(msg.err, sess.ErrEmptyFilterResult):
			s.msg, s.msgErr = "Nothing to retake: no questions match that filter.", true
		case msg.err != nil:
			s.msg, s.msgErr = msg.err.Error(), true
		case msg.note != "":
			s.msg, s.msgErr = msg.note, false
		}
		s.view = s.engine.View()
		return s, screen.Changed

	case screen.ChangedMsg:
		s.view = s.engine.View()
		return s, nil

	case tea.KeyMsg:
		ctx := context.Background()
		switch msg.String() {
		case "left":
			_ = s.engine.GoPrev(ctx)
			s.view = s.engine.View()
			return s, nil
		case "right":
			_ = s.engine.GoNext(ctx)
			s.view = s.engine.View()
			return s, nil
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	state := s.view.Session
	if state == nil {
		return ""
	}
	cw := components.ContentWidth(width)

	var b strings.Builder

	score, total := state.Score()
	percent := 0
	if total > 0 {
		percent = score * 100 / total
	}

	b.WriteString(lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Quiz complete!"))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Score: %d / %d        %d%%        Answered: %d",
		score, total, percent, len(state.Answers))
	b.WriteString(lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(statsLine))
	b.WriteString("\n")
	b.WriteString(components.NewProgressBar("", float64(percent)/100, false, cw).View())
	b.WriteString("\n\n")

	menu := s.menu.View()
	review := s.renderReview(cw - lipgloss.Width(menu) - 4)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, menu, "    ", review))
	b.WriteString("\n")

	if s.msg != "" {
		b.WriteString("\n")
		b.WriteString(components.Message(s.msg, s.msgErr))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

// renderReview shows the reviewed question with the given and the
// correct answer.
func (s *SummaryScreen) renderReview(width int) string {
	state := s.view.Session
	q, ok := state.Current()
	if !ok {
		return ""
	}
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Review %d/%d", state.CurrentIndex+1, len(state.Questions))))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Bold(true).Foreground(theme.Text).Render(q.Question))
	b.WriteString("\n")

	answer, answered := state.Answers[q.ID]
	switch {
	case !answered:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("Skipped"))
	case q.IsCorrect(answer):
		b.WriteString(theme.Correct.Render("✓ " + answer))
	default:
		b.WriteString(theme.Incorrect.Render("✗ " + answer))
	}
	b.WriteString("\n")
	if q.CorrectAnswer != quiz.AnswerNotFound && !q.IsCorrect(answer) {
		b.WriteString(theme.Body.Render("Answer: " + q.CorrectAnswer))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().Width(width).Foreground(theme.TextDim).Render(q.Explanation))
	return b.String()
}
