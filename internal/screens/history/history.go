package history

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	hist "github.com/abhisek/pdfquiz/internal/history"
	"github.com/abhisek/pdfquiz/internal/screen"
	sess "github.com/abhisek/pdfquiz/internal/session"
	"github.com/abhisek/pdfquiz/internal/ui/components"
	"github.com/abhisek/pdfquiz/internal/ui/layout"
	"github.com/abhisek/pdfquiz/internal/ui/theme"
)

// HistoryScreen displays past attempts, newest first.
type HistoryScreen struct {
	engine   *sess.Engine
	attempts []hist.Attempt
	offset   int
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(engine *sess.Engine) *HistoryScreen {
	return &HistoryScreen{
		engine:   engine,
		attempts: engine.History(),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return nil
}

func (s *HistoryScreen) Title() string {
	return "Progress"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "esc", "q":
		if err := s.engine.CloseProgress(); err != nil {
			s.errMsg = err.Error()
			return s, nil
		}
		return s, screen.Changed
	case "up", "k":
		if s.offset > 0 {
			s.offset--
		}
	case "down", "j":
		if s.offset < len(s.attempts)-1 {
			s.offset++
		}
	}
	return s, nil
}

// Summary holds aggregate figures over a list of attempts.
type Summary struct {
	Count   int
	Best    int
	Average int
	Latest  int
}

// Summarize computes best, average and latest percentages.
func Summarize(attempts []hist.Attempt) Summary {
	if len(attempts) == 0 {
		return Summary{}
	}
	sum := Summary{Count: len(attempts), Latest: attempts[0].Percent()}
	total := 0
	for _, a := range attempts {
		p := a.Percent()
		total += p
		if p > sum.Best {
			sum.Best = p
		}
	}
	sum.Average = total / len(attempts)
	return sum
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if len(s.attempts) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No attempts yet. Finish a quiz to see your progress.")
	}

	cw := components.ContentWidth(width)
	sum := Summarize(s.attempts)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(
			fmt.Sprintf("%d attempts    best %d%%    average %d%%    latest %d%%",
				sum.Count, sum.Best, sum.Average, sum.Latest))))
	b.WriteString("\n\n")

	rows := height - 5
	if rows < 1 {
		rows = 1
	}
	end := min(s.offset+rows, len(s.attempts))
	for _, a := range s.attempts[s.offset:end] {
		label := fmt.Sprintf("%s  %3d/%-3d", a.Timestamp.Local().Format("Jan 02 15:04"), a.Score, a.Total)
		bar := components.NewProgressBar(label, float64(a.Percent())/100, true, cw)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
		b.WriteString("\n")
	}

	return b.String()
}
