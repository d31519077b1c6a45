// Package builder is the second wizard step: the activities of the
// opening, main and summary phases.
package builder

import (
	"fmt"
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

const noneLabel = "ללא"

func displayOptions() []components.Option {
	opts := []components.Option{{Value: "", Label: noneLabel}}
	for _, d := range plan.DisplayTypes {
		opts = append(opts, components.Option{Value: string(d), Label: d.Label()})
	}
	return opts
}

func spaceOptions() []components.Option {
	opts := []components.Option{{Value: "", Label: noneLabel}}
	for _, u := range plan.SpaceUsages {
		opts = append(opts, components.Option{Value: string(u), Label: u.Label()})
	}
	return opts
}

// Screen edits the sections of every phase.
type Screen struct {
	manager *planner.Manager
	phase   int
	cursor  int
	editing bool
	input   components.TextInput
	errText string
}

var _ screen.Screen = (*Screen)(nil)

// New creates the builder positioned on the first phase.
func New(m *planner.Manager) *Screen {
	return &Screen{
		manager: m,
		input:   components.NewTextInput(plan.SectionContent.Label(), "תארו את הפעילות", 0),
	}
}

func (s *Screen) Title() string {
	return "בניית השיעור"
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

// Phase returns the phase being edited.
func (s *Screen) Phase() plan.Phase {
	return plan.Phases[s.phase]
}

// Cursor returns the selected section index within the current phase.
func (s *Screen) Cursor() int {
	return s.cursor
}

// Editing reports whether the content input is open.
func (s *Screen) Editing() bool {
	return s.editing
}

func (s *Screen) sections() []plan.Section {
	p := s.manager.Plan()
	if p == nil {
		return nil
	}
	return p.Sections.Get(s.Phase())
}

func (s *Screen) clampCursor() {
	n := len(s.sections())
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *Screen) report(err error) {
	if err != nil {
		s.errText = err.Error()
		return
	}
	s.errText = ""
}

func (s *Screen) cycle(field plan.SectionField) {
	secs := s.sections()
	if s.cursor >= len(secs) {
		return
	}
	sec := secs[s.cursor]

	var (
		picker components.Picker
		patch  planner.SectionPatch
	)
	switch field {
	case plan.SectionScreen1:
		picker = components.NewPicker(field.Label(), displayOptions(), string(sec.Screens.Screen1))
	case plan.SectionScreen2:
		picker = components.NewPicker(field.Label(), displayOptions(), string(sec.Screens.Screen2))
	case plan.SectionScreen3:
		picker = components.NewPicker(field.Label(), displayOptions(), string(sec.Screens.Screen3))
	case plan.SectionSpaceUsage:
		picker = components.NewPicker(field.Label(), spaceOptions(), string(sec.SpaceUsage))
	default:
		return
	}
	picker.Next()
	v := picker.Value()
	switch field {
	case plan.SectionScreen1:
		patch.Screen1 = &v
	case plan.SectionScreen2:
		patch.Screen2 = &v
	case plan.SectionScreen3:
		patch.Screen3 = &v
	case plan.SectionSpaceUsage:
		patch.SpaceUsage = &v
	}
	s.report(s.manager.UpdateSection(s.Phase(), s.cursor, patch))
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.FlashMsg:
		s.errText = ""
		if msg.Error {
			s.errText = msg.Text
		}
		return s, nil

	case screen.PlanChangedMsg:
		s.clampCursor()
		return s, nil

	case tea.KeyMsg:
		if s.editing {
			return s.updateEditing(msg)
		}
		switch msg.String() {
		case "tab", "right":
			s.phase = (s.phase + 1) % len(plan.Phases)
			s.cursor = 0
		case "shift+tab", "left":
			s.phase = (s.phase - 1 + len(plan.Phases)) % len(plan.Phases)
			s.cursor = 0
		case "down", "j":
			if s.cursor < len(s.sections())-1 {
				s.cursor++
			}
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "a":
			if err := s.manager.AddSection(s.Phase()); err != nil {
				s.report(err)
				break
			}
			s.errText = ""
			s.cursor = len(s.sections()) - 1
		case "x", "delete":
			s.report(s.manager.RemoveSection(s.Phase(), s.cursor))
			s.clampCursor()
		case "enter", "e":
			secs := s.sections()
			if s.cursor < len(secs) {
				s.editing = true
				s.input.SetValue(secs[s.cursor].Content)
				return s, s.input.Focus()
			}
		case "1":
			s.cycle(plan.SectionScreen1)
		case "2":
			s.cycle(plan.SectionScreen2)
		case "3":
			s.cycle(plan.SectionScreen3)
		case "s":
			s.cycle(plan.SectionSpaceUsage)
		case "ctrl+g":
			secs := s.sections()
			if s.cursor < len(secs) {
				open := screen.OpenSuggestionMsg{
					Path:    plan.SectionPath(s.Phase(), s.cursor, plan.SectionContent),
					Label:   fmt.Sprintf("%s, פעילות %d", s.Phase().Label(), s.cursor+1),
					Context: secs[s.cursor].Content,
				}
				return s, func() tea.Msg { return open }
			}
		case "ctrl+t":
			return s, func() tea.Msg { return screen.OpenChatMsg{} }
		}
	}
	return s, nil
}

func (s *Screen) updateEditing(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		v := s.input.Value()
		s.report(s.manager.UpdateSection(s.Phase(), s.cursor, planner.SectionPatch{Content: &v}))
		s.editing = false
		s.input.Blur()
		return s, nil
	case "esc":
		s.editing = false
		s.input.Blur()
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(components.StepBar(planner.StepLabels, 2, cw))
	b.WriteString("\n\n")

	tabs := make([]string, 0, len(plan.Phases))
	for i, ph := range plan.Phases {
		n := 0
		if p := s.manager.Plan(); p != nil {
			n = len(p.Sections.Get(ph))
		}
		label := fmt.Sprintf(" %s (%d) ", ph.Label(), n)
		if i == s.phase {
			tabs = append(tabs, theme.ButtonActive.Render(label))
		} else {
			tabs = append(tabs, theme.Subtitle.Render(label))
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	secs := s.sections()
	if len(secs) == 0 {
		b.WriteString(theme.Hint.Render("אין פעילויות בשלב זה. a להוספת פעילות"))
		b.WriteString("\n")
	}
	for i, sec := range secs {
		focused := i == s.cursor
		b.WriteString(components.Panel(s.renderSection(i, sec, focused), cw, focused))
		b.WriteString("\n")
	}
	if s.errText != "" {
		b.WriteString(theme.Failed.Render(s.errText))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.NewStyle().Width(cw).Render(b.String()))
}

func (s *Screen) renderSection(i int, sec plan.Section, focused bool) string {
	title := theme.Label.Render(fmt.Sprintf("פעילות %d", i+1))
	content := sec.Content
	if content == "" {
		content = theme.Hint.Render("ללא תוכן")
	}
	if focused && s.editing {
		content = s.input.View()
	}
	pickers := []string{
		components.NewPicker(plan.SectionScreen1.Label(), displayOptions(), string(sec.Screens.Screen1)).View(false),
		components.NewPicker(plan.SectionScreen2.Label(), displayOptions(), string(sec.Screens.Screen2)).View(false),
		components.NewPicker(plan.SectionScreen3.Label(), displayOptions(), string(sec.Screens.Screen3)).View(false),
	}
	space := components.NewPicker(plan.SectionSpaceUsage.Label(), spaceOptions(), string(sec.SpaceUsage)).View(false)
	return title + "\n" + content + "\n" + strings.Join(pickers, "   ") + "\n" + space
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.editing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "שמירה"},
			{Key: "Esc", Description: "ביטול"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "שלב"},
		{Key: "a/x", Description: "הוספה/מחיקה"},
		{Key: "Enter", Description: "עריכה"},
		{Key: "1/2/3", Description: "מסכים"},
		{Key: "s", Description: "ארגון"},
		{Key: "Ctrl+G", Description: "הצעה"},
		{Key: "Ctrl+N/P", Description: "הבא/הקודם"},
	}
}
