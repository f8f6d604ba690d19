package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pdfquiz/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen becomes active.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// ChangedMsg tells the app that the session may have moved to another
// mode. The app re-syncs the active screen and then forwards the
// message to it. Err carries the result of a background operation.
type ChangedMsg struct {
	Err error
}

// Changed is a command producing an empty ChangedMsg.
func Changed() tea.Msg { return ChangedMsg{} }
