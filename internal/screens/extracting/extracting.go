package extracting

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pdfquiz/internal/extraction"
	"github.com/abhisek/pdfquiz/internal/screen"
	sess "github.com/abhisek/pdfquiz/internal/session"
	"github.com/abhisek/pdfquiz/internal/ui/components"
	"github.com/abhisek/pdfquiz/internal/ui/layout"
	"github.com/abhisek/pdfquiz/internal/ui/theme"
)

const tickInterval = 120 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type tickMsg time.Time

// ExtractingScreen shows pipeline progress while an extraction runs.
// Esc abandons the run; the app swaps the screen out when the engine
// leaves the Extracting mode.
type ExtractingScreen struct {
	engine    *sess.Engine
	tickCount int
}

var _ screen.Screen = (*ExtractingScreen)(nil)
var _ screen.KeyHintProvider = (*ExtractingScreen)(nil)

// New creates an ExtractingScreen over the engine.
func New(engine *sess.Engine) *ExtractingScreen {
	return &ExtractingScreen{engine: engine}
}

func (s *ExtractingScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (s *ExtractingScreen) Title() string {
	return "Extracting"
}

func (s *ExtractingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Cancel"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *ExtractingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		s.tickCount++
		return s, tick()
	case tea.KeyMsg:
		if msg.String() == "esc" {
			if err := s.engine.CancelExtraction(); err != nil {
				return s, nil
			}
			return s, screen.Changed
		}
	}
	return s, nil
}

func (s *ExtractingScreen) View(width, height int) string {
	p := s.engine.View().Progress
	cw := components.ContentWidth(width)

	stage := p.Stage
	if stage == extraction.StageIdle {
		stage = extraction.StageReading
	}
	spinner := spinnerFrames[s.tickCount%len(spinnerFrames)]

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Building your quiz"))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(spinner) + " " +
		theme.Body.Render(capitalize(stage.String())+"..."))
	b.WriteString("\n\n")
	b.WriteString(components.NewProgressBar("", float64(p.Percent)/100, true, cw).View())
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Step %d of %d", int(stage), int(extraction.StageDone))))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
