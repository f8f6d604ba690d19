package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pdfquiz/internal/extraction"
	"github.com/abhisek/pdfquiz/internal/pagetext"
	"github.com/abhisek/pdfquiz/internal/screen"
	sess "github.com/abhisek/pdfquiz/internal/session"
	"github.com/abhisek/pdfquiz/internal/ui/components"
	"github.com/abhisek/pdfquiz/internal/ui/layout"
	"github.com/abhisek/pdfquiz/internal/ui/theme"
)

// pollInterval is how soon after starting an extraction the app re-syncs
// to pick up the Extracting mode.
const pollInterval = 100 * time.Millisecond

// UploadScreen asks for a document path and starts the extraction. A
// path ending in .json is imported as an exported quiz instead.
type UploadScreen struct {
	engine       *sess.Engine
	input        components.TextInput
	mode         extraction.Mode
	msg          string
	msgErr       bool
	confirmReset bool
}

var _ screen.Screen = (*UploadScreen)(nil)
var _ screen.KeyHintProvider = (*UploadScreen)(nil)

// New creates an UploadScreen over the engine.
func New(engine *sess.Engine) *UploadScreen {
	s := &UploadScreen{
		engine: engine,
		input:  components.NewTextInput("Document", "path/to/notes.pdf", false, 512),
	}
	if f := engine.View().Failure; f != "" {
		s.msg, s.msgErr = f, true
	}
	return s
}

func (s *UploadScreen) Init() tea.Cmd {
	return s.input.Focus()
}

func (s *UploadScreen) Title() string {
	return "Upload"
}

func (s *UploadScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Extract"},
		{Key: "Tab", Description: "Mode"},
	}
	if s.engine.View().HasQuiz {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+S", Description: "Restart quiz"})
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+R", Description: "Reset"},
		layout.KeyHint{Key: "Ctrl+C", Description: "Quit"},
	)
}

func (s *UploadScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.ChangedMsg:
		if f := s.engine.View().Failure; f != "" {
			s.setError(f)
		} else if msg.Err != nil && !errors.Is(msg.Err, sess.ErrSuperseded) {
			s.setError(msg.Err.Error())
		}
		return s, nil

	case tea.KeyMsg:
		key := msg.String()
		if key != "ctrl+r" {
			s.confirmReset = false
		}
		switch key {
		case "enter":
			return s, s.submit()
		case "tab":
			if s.mode == extraction.ModeStrict {
				s.mode = extraction.ModeAugmented
			} else {
				s.mode = extraction.ModeStrict
			}
			return s, nil
		case "ctrl+s":
			if err := s.engine.StartFresh(context.Background()); err != nil {
				s.setError("No quiz to restart yet.")
				return s, nil
			}
			return s, screen.Changed
		case "ctrl+r":
			if !s.confirmReset {
				s.confirmReset = true
				s.msg, s.msgErr = "Press Ctrl+R again to erase the quiz, progress and history.", true
				return s, nil
			}
			s.confirmReset = false
			s.engine.Reset(context.Background())
			s.msg, s.msgErr = "Everything was erased.", false
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *UploadScreen) setError(text string) {
	s.msg, s.msgErr = text, true
}

// submit reads the file named in the input and either imports it or
// starts an extraction in the background.
func (s *UploadScreen) submit() tea.Cmd {
	path := ExpandPath(s.input.Value())
	if path == "" {
		s.setError(sess.ErrNoDocument.Error())
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		s.setError(fmt.Sprintf("Could not read %s: %v", filepath.Base(path), err))
		return nil
	}
	if len(data) == 0 {
		s.setError(sess.ErrEmptyDocument.Error())
		return nil
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := s.engine.Import(context.Background(), data); err != nil {
			s.setError(fmt.Sprintf("Import failed: %v", err))
			return nil
		}
		return screen.Changed
	}

	s.msg, s.msgErr = "", false
	doc := pagetext.Document{Name: filepath.Base(path), Data: data}
	mode := s.mode
	engine := s.engine
	extract := func() tea.Msg {
		return screen.ChangedMsg{Err: engine.Extract(context.Background(), mode, doc)}
	}
	poll := tea.Tick(pollInterval, func(time.Time) tea.Msg { return screen.ChangedMsg{} })
	return tea.Batch(extract, poll)
}

// ExpandPath trims quotes left by drag-and-drop and expands a leading ~.
func ExpandPath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), `"'`)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

func (s *UploadScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Width(cw).Render("Turn a document into a quiz"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(cw).Render("PDF or plain text. A .json file is imported as an exported quiz."))
	b.WriteString("\n\n")

	b.WriteString(components.Card(s.input.View(), cw-4))
	b.WriteString("\n\n")

	modeLine := lipgloss.NewStyle().Foreground(theme.TextDim).Render("Mode: ") +
		theme.Selected.Render(s.mode.String())
	switch s.mode {
	case extraction.ModeStrict:
		modeLine += theme.Hint.Render("  only questions written in the document")
	case extraction.ModeAugmented:
		modeLine += theme.Hint.Render("  also generate questions from the content")
	}
	b.WriteString(modeLine)
	b.WriteString("\n\n")

	b.WriteString(components.NewButton("Extract", s.input.Value() != "").View())
	b.WriteString("\n\n")

	if v := s.engine.View(); v.HasQuiz {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("Current quiz: %s (%d questions)", v.Title, v.AllCount)))
		b.WriteString("\n")
	}
	if s.msg != "" {
		b.WriteString(components.Message(s.msg, s.msgErr))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
