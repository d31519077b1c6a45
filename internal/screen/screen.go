package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lessonroom/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
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

// StepMsg asks the application to move the wizard by Delta steps. Moving
// saves first.
type StepMsg struct {
	Delta int
}

// FlashMsg shows a short status line in the active screen. The
// application sends it when a save or step change fails.
type FlashMsg struct {
	Text  string
	Error bool
}

// PlanChangedMsg tells the active screen that the plan was modified
// outside it and its inputs should be re-read.
type PlanChangedMsg struct{}

// OpenSuggestionMsg asks the application to open the suggestion overlay
// for a field path.
type OpenSuggestionMsg struct {
	Path    string
	Label   string
	Context string
}

// OpenChatMsg asks the application to open the field chat.
type OpenChatMsg struct{}
