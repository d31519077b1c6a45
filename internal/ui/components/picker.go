package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonroom/internal/ui/theme"
)

// Option is one selectable value of a Picker.
type Option struct {
	Value string
	Label string
}

// Picker cycles through a fixed list of options. Index 0 is conventionally
// the empty choice.
type Picker struct {
	Label    string
	Options  []Option
	Selected int
}

// NewPicker creates a picker positioned on the option whose value matches
// current, or on the first option.
func NewPicker(label string, options []Option, current string) Picker {
	p := Picker{Label: label, Options: options}
	p.Select(current)
	return p
}

// Select moves to the option with the given value. Unknown values select
// the first option.
func (p *Picker) Select(value string) {
	p.Selected = 0
	for i, o := range p.Options {
		if o.Value == value {
			p.Selected = i
			return
		}
	}
}

// Next advances to the following option, wrapping around.
func (p *Picker) Next() {
	if len(p.Options) == 0 {
		return
	}
	p.Selected = (p.Selected + 1) % len(p.Options)
}

// Prev moves to the previous option, wrapping around.
func (p *Picker) Prev() {
	if len(p.Options) == 0 {
		return
	}
	p.Selected = (p.Selected - 1 + len(p.Options)) % len(p.Options)
}

// Value returns the selected option's value.
func (p Picker) Value() string {
	if p.Selected < 0 || p.Selected >= len(p.Options) {
		return ""
	}
	return p.Options[p.Selected].Value
}

// Update cycles with left/right.
func (p Picker) Update(msg tea.Msg) (Picker, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch kmsg.String() {
	case "right", "l":
		p.Next()
	case "left", "h":
		p.Prev()
	}
	return p, nil
}

// View renders "label: ◂ choice ▸".
func (p Picker) View(focused bool) string {
	label := ""
	if p.Selected >= 0 && p.Selected < len(p.Options) {
		label = p.Options[p.Selected].Label
	}
	style := lipgloss.NewStyle().Foreground(theme.Text)
	if focused {
		style = theme.Selected
		label = "◂ " + label + " ▸"
	}
	return lipgloss.NewStyle().Foreground(theme.TextDim).Render(p.Label+": ") + style.Render(label)
}
