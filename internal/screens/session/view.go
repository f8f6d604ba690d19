package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/pdfquiz/internal/quiz"
	sess "github.com/abhisek/pdfquiz/internal/session"
	"github.com/abhisek/pdfquiz/internal/ui/components"
	"github.com/abhisek/pdfquiz/internal/ui/theme"
)

// renderQuestionView renders the displayed question, its options and,
// once answered, the verdict and explanation.
func (s *SessionScreen) renderQuestionView(width, height int) string {
	state := s.view.Session
	q, _ := s.view.Current()
	cw := components.ContentWidth(width)

	var b strings.Builder

	// Info line.
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("Question %d of %d", state.CurrentIndex+1, len(state.Questions)))

	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("page %d   %s", q.PageNumber, confidenceLabel(q.Confidence)))

	infoLine := infoLeft
	if pad := cw - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight); pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(cw).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Question))
	b.WriteString("\n\n")

	b.WriteString(s.options.View(cw - 6))
	b.WriteString("\n")

	if answer, answered := s.view.Answered(); answered {
		b.WriteString(renderFeedback(q, answer, cw))
		b.WriteString("\n")
	} else if s.view.Pending != "" {
		b.WriteString(theme.Hint.Render("Press Enter to confirm your answer."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderDots(state, cw))
	b.WriteString("\n")

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(components.Message(s.errMsg, true))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

// renderFeedback shows whether the confirmed answer was right and the
// explanation.
func renderFeedback(q quiz.Question, answer string, width int) string {
	var verdict string
	switch {
	case q.CorrectAnswer == quiz.AnswerNotFound:
		verdict = theme.Warning.Render("The document does not state the answer to this question.")
	case q.IsCorrect(answer):
		verdict = theme.Correct.Render("Correct!")
	default:
		verdict = theme.Incorrect.Render("Not quite. ") +
			theme.Body.Render("The answer is: "+q.CorrectAnswer)
	}

	explanation := lipgloss.NewStyle().
		Width(width - 4).
		Foreground(theme.TextDim).
		Render(q.Explanation)

	return components.Card(verdict+"\n"+explanation, width-4)
}

// renderDots draws one marker per question: answered right, wrong,
// unanswered, with the displayed question highlighted.
func renderDots(state *sess.State, width int) string {
	var b strings.Builder
	for i, q := range state.Questions {
		mark := "○"
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if a, ok := state.Answers[q.ID]; ok {
			mark = "●"
			if q.IsCorrect(a) {
				style = style.Foreground(theme.Success)
			} else {
				style = style.Foreground(theme.Error)
			}
		}
		if i == state.CurrentIndex {
			style = style.Underline(true).Bold(true)
		}
		b.WriteString(style.Render(mark))
		b.WriteString(" ")
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func confidenceLabel(c float64) string {
	label := fmt.Sprintf("confidence %.0f%%", c*100)
	if c < sess.LowConfidenceThreshold {
		return theme.Warning.Render(label)
	}
	return label
}

func renderEmpty(width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("No questions in this session."))
}
