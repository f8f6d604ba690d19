package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pdfquiz/internal/screen"
	"github.com/abhisek/pdfquiz/internal/session"
)

// Factory builds the screen for a session mode.
type Factory func() screen.Screen

// Router keeps one active screen matching the session mode. Screens are
// rebuilt from the engine state whenever the mode changes, so they hold
// no state that has to survive an excursion.
type Router struct {
	factories map[session.Mode]Factory
	mode      session.Mode
	active    screen.Screen
}

// New creates a Router with a factory per mode.
func New(factories map[session.Mode]Factory) *Router {
	return &Router{factories: factories}
}

// Sync makes the screen for mode active, building it if the mode
// changed. It returns the new screen's Init command.
func (r *Router) Sync(mode session.Mode) tea.Cmd {
	if r.active != nil && r.mode == mode {
		return nil
	}
	f, ok := r.factories[mode]
	if !ok {
		return nil
	}
	r.mode = mode
	r.active = f()
	return r.active.Init()
}

// Active returns the active screen.
func (r *Router) Active() screen.Screen {
	return r.active
}

// Mode returns the mode of the active screen.
func (r *Router) Mode() session.Mode {
	return r.mode
}

// Update forwards a message to the active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	if r.active == nil {
		return nil
	}
	updated, cmd := r.active.Update(msg)
	r.active = updated
	return cmd
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	if r.active == nil {
		return ""
	}
	return r.active.View(width, height)
}
