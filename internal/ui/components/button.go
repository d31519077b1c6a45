package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonroom/internal/ui/theme"
)

// Button is a styled button component.
type Button struct {
	Label   string
	Active  bool
	OnPress func() tea.Cmd
}

// NewButton creates a new button.
func NewButton(label string, active bool, onPress func() tea.Cmd) Button {
	return Button{
		Label:   label,
		Active:  active,
		OnPress: onPress,
	}
}

// Update handles key events.
func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	if !b.Active {
		return b, nil
	}

	if kmsg, ok := msg.(tea.KeyMsg); ok {
		if kmsg.String() == "enter" && b.OnPress != nil {
			return b, b.OnPress()
		}
	}

	return b, nil
}

// View renders the button.
func (b Button) View() string {
	if b.Active {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}

// ButtonRow is a horizontal set of buttons with one focused at a time.
type ButtonRow struct {
	Buttons []Button
	Focus   int
}

// NewButtonRow creates a row with the first button focused.
func NewButtonRow(buttons ...Button) ButtonRow {
	r := ButtonRow{Buttons: buttons}
	r.sync()
	return r
}

// SetFocus focuses the button at i.
func (r *ButtonRow) SetFocus(i int) {
	if i >= 0 && i < len(r.Buttons) {
		r.Focus = i
	}
	r.sync()
}

func (r *ButtonRow) sync() {
	for i := range r.Buttons {
		r.Buttons[i].Active = i == r.Focus
	}
}

// Update moves focus with left/right and presses the focused button on enter.
func (r ButtonRow) Update(msg tea.Msg) (ButtonRow, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(r.Buttons) == 0 {
		return r, nil
	}
	switch kmsg.String() {
	case "left", "h":
		if r.Focus > 0 {
			r.Focus--
		}
	case "right", "l":
		if r.Focus < len(r.Buttons)-1 {
			r.Focus++
		}
	case "enter":
		var cmd tea.Cmd
		r.Buttons[r.Focus], cmd = r.Buttons[r.Focus].Update(msg)
		return r, cmd
	}
	r.sync()
	return r, nil
}

// View renders the buttons side by side.
func (r ButtonRow) View() string {
	views := make([]string, 0, len(r.Buttons))
	for _, b := range r.Buttons {
		views = append(views, b.View(), " ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, views...)
}
