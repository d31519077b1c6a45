// Package basicinfo is the first wizard step: the seven scalar fields of
// the lesson plan.
package basicinfo

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonroom/internal/plan"
	"github.com/abhisek/lessonroom/internal/planner"
	"github.com/abhisek/lessonroom/internal/screen"
	"github.com/abhisek/lessonroom/internal/ui/components"
	"github.com/abhisek/lessonroom/internal/ui/layout"
	"github.com/abhisek/lessonroom/internal/ui/theme"
)

var placeholders = map[plan.Field]string{
	plan.FieldTopic:          "למשל: מחזור המים",
	plan.FieldDuration:       "למשל: 45 דקות",
	plan.FieldGradeLevel:     "למשל: כיתה ה'",
	plan.FieldPriorKnowledge: "מה התלמידים כבר יודעים?",
	plan.FieldPosition:       "ctrl+o לבחירה מהרשימה",
	plan.FieldContentGoals:   "מה התלמידים ילמדו?",
	plan.FieldSkillGoals:     "אילו מיומנויות יתרגלו?",
}

// Screen edits the basic information of the plan.
type Screen struct {
	manager *planner.Manager
	inputs  []components.TextInput
	focus   int
	errText string
}

var _ screen.Screen = (*Screen)(nil)

// New creates the form with values read from the manager.
func New(m *planner.Manager) *Screen {
	s := &Screen{manager: m}
	for _, f := range plan.Fields {
		s.inputs = append(s.inputs, components.NewTextInput(f.Label(), placeholders[f], 0))
	}
	s.sync()
	return s
}

func (s *Screen) sync() {
	p := s.manager.Plan()
	if p == nil {
		return
	}
	for i, f := range plan.Fields {
		s.inputs[i].SetValue(p.Get(f))
	}
}

// Focused returns the field that has keyboard focus.
func (s *Screen) Focused() plan.Field {
	return plan.Fields[s.focus]
}

func (s *Screen) Title() string {
	return "פרטי השיעור"
}

func (s *Screen) Init() tea.Cmd {
	return s.inputs[s.focus].Focus()
}

func (s *Screen) move(delta int) tea.Cmd {
	s.inputs[s.focus].Blur()
	s.focus = (s.focus + delta + len(s.inputs)) % len(s.inputs)
	return s.inputs[s.focus].Focus()
}

// nextPosition cycles the position field through the suggested placements.
func (s *Screen) nextPosition() {
	idx := -1
	for i, f := range plan.Fields {
		if f == plan.FieldPosition {
			idx = i
		}
	}
	cur := s.inputs[idx].Value()
	next := plan.PositionOptions[0].Label
	for i, o := range plan.PositionOptions {
		if o.Label == cur || o.Value == cur {
			next = plan.PositionOptions[(i+1)%len(plan.PositionOptions)].Label
		}
	}
	s.inputs[idx].SetValue(next)
	s.commit(idx)
}

func (s *Screen) commit(i int) {
	f := plan.Fields[i]
	v := s.inputs[i].Value()
	if p := s.manager.Plan(); p != nil && p.Get(f) == v {
		return
	}
	if err := s.manager.SetField(f, v); err != nil {
		s.errText = err.Error()
		return
	}
	s.errText = ""
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.PlanChangedMsg:
		s.sync()
		return s, nil

	case screen.FlashMsg:
		s.errText = ""
		if msg.Error {
			s.errText = msg.Text
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if s.focus == len(s.inputs)-1 {
				return s, func() tea.Msg { return screen.StepMsg{Delta: 1} }
			}
			return s, s.move(1)
		case "tab", "down":
			return s, s.move(1)
		case "shift+tab", "up":
			return s, s.move(-1)
		case "ctrl+o":
			if s.Focused() == plan.FieldPosition {
				s.nextPosition()
			}
			return s, nil
		case "ctrl+g":
			f := s.Focused()
			open := screen.OpenSuggestionMsg{
				Path:    string(f),
				Label:   f.Label(),
				Context: s.inputs[s.focus].Value(),
			}
			return s, func() tea.Msg { return open }
		case "ctrl+t":
			return s, func() tea.Msg { return screen.OpenChatMsg{} }
		}
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	s.commit(s.focus)
	return s, cmd
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(components.StepBar(planner.StepLabels, planner.FirstStep, cw))
	b.WriteString("\n\n")
	boxed := !layout.IsCompactHeight(height)
	for i, in := range s.inputs {
		if boxed {
			b.WriteString(components.Panel(in.View(), cw, i == s.focus))
		} else {
			b.WriteString(in.View())
		}
		b.WriteString("\n")
	}
	if s.errText != "" {
		b.WriteString(theme.Failed.Render(s.errText))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.NewStyle().Width(cw).Render(b.String()))
}

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "שדה הבא"},
		{Key: "Ctrl+G", Description: "הצעה"},
		{Key: "Ctrl+T", Description: "שיחה"},
	}
	if s.Focused() == plan.FieldPosition {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+O", Description: "מיקום"})
	}
	return append(hints,
		layout.KeyHint{Key: "Ctrl+N", Description: "הבא"},
		layout.KeyHint{Key: "Ctrl+S", Description: "שמירה"},
	)
}
