// Package app is the terminal UI over the session engine.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/pdfquiz/internal/router"
	"github.com/abhisek/pdfquiz/internal/screen"
	"github.com/abhisek/pdfquiz/internal/screens/admin"
	"github.com/abhisek/pdfquiz/internal/screens/extracting"
	"github.com/abhisek/pdfquiz/internal/screens/history"
	qsession "github.com/abhisek/pdfquiz/internal/screens/session"
	"github.com/abhisek/pdfquiz/internal/screens/summary"
	"github.com/abhisek/pdfquiz/internal/screens/upload"
	"github.com/abhisek/pdfquiz/internal/session"
	"github.com/abhisek/pdfquiz/internal/store"
	"github.com/abhisek/pdfquiz/internal/ui/layout"
	"github.com/abhisek/pdfquiz/internal/ui/theme"
)

// Options holds dependencies for the app.
type Options struct {
	Engine *session.Engine
	// Prefs holds the UI preference slot. Nil disables persistence of
	// the theme toggle.
	Prefs store.Slots
	Warn  io.Writer
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	engine *session.Engine
	prefs  store.Slots
	warn   io.Writer
	router *router.Router
	width  int
	height int
}

// newAppModel creates an AppModel with a screen factory per mode.
func newAppModel(opts Options) AppModel {
	e := opts.Engine
	warn := opts.Warn
	if warn == nil {
		warn = os.Stderr
	}
	r := router.New(map[session.Mode]router.Factory{
		session.ModeUpload:     func() screen.Screen { return upload.New(e) },
		session.ModeExtracting: func() screen.Screen { return extracting.New(e) },
		session.ModeQuiz:       func() screen.Screen { return qsession.New(e) },
		session.ModeResults:    func() screen.Screen { return summary.New(e) },
		session.ModeAdmin:      func() screen.Screen { return admin.New(e) },
		session.ModeProgress:   func() screen.Screen { return history.New(e) },
	})
	return AppModel{
		engine: e,
		prefs:  opts.Prefs,
		warn:   warn,
		router: r,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Sync(m.engine.Mode())
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "ctrl+t":
			m.toggleTheme()
			return m, nil
		}

	case screen.ChangedMsg:
		sync := m.router.Sync(m.engine.Mode())
		return m, tea.Batch(sync, m.router.Update(msg))
	}

	cmd := m.router.Update(msg)
	return m, tea.Batch(cmd, m.router.Sync(m.engine.Mode()))
}

func (m AppModel) toggleTheme() {
	on := !theme.IsHighContrast()
	theme.SetHighContrast(on)
	if m.prefs != nil {
		saveHighContrast(context.Background(), m.prefs, on, m.warn)
	}
}

// status is the right side of the header: quiz title and progress.
func (m AppModel) status() string {
	v := m.engine.View()
	if !v.HasQuiz {
		return ""
	}
	if v.Session == nil || v.Mode == session.ModeUpload || v.Mode == session.ModeExtracting {
		return v.Title
	}
	score, total := v.Session.Score()
	if v.Session.Finished {
		return fmt.Sprintf("%s  %d/%d", v.Title, score, total)
	}
	return fmt.Sprintf("%s  %d/%d answered", v.Title, len(v.Session.Answers), total)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if content := m.render(); content != "" {
		v.SetContent(content)
	}
	return v
}

// render composes header, active screen and footer for the current size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status(), m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+T", Description: "Contrast"})

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run restores the persisted theme and starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Prefs != nil {
		warn := opts.Warn
		if warn == nil {
			warn = os.Stderr
		}
		theme.SetHighContrast(loadHighContrast(context.Background(), opts.Prefs, warn))
	}

	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
