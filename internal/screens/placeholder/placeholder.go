// Package placeholder shows a single centered status line while the plan is
// loading or after it failed to load.
package placeholder

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonroom/internal/screen"
	"github.com/abhisek/lessonroom/internal/ui/theme"
)

// PlaceholderScreen renders a message in the middle of the frame.
type PlaceholderScreen struct {
	title   string
	message string
	failed  bool
}

var _ screen.Screen = (*PlaceholderScreen)(nil)

// New creates a placeholder with a neutral message.
func New(title, message string) *PlaceholderScreen {
	return &PlaceholderScreen{title: title, message: message}
}

// NewError creates a placeholder that renders message as an error.
func NewError(title, message string) *PlaceholderScreen {
	return &PlaceholderScreen{title: title, message: message, failed: true}
}

func (p *PlaceholderScreen) Init() tea.Cmd {
	return nil
}

func (p *PlaceholderScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return p, nil
}

func (p *PlaceholderScreen) View(width, height int) string {
	style := lipgloss.NewStyle().Foreground(theme.Text)
	if p.failed {
		style = theme.Failed
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(style.Render(p.message))
}

func (p *PlaceholderScreen) Title() string {
	return p.title
}
