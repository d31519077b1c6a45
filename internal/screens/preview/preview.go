// Package preview is the last wizard step: the plan rendered as export
// text, with an action that writes it to a file.
package preview

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonroom/internal/export"
	"github.com/abhisek/lessonroom/internal/planner"
	"github.com/abhisek/lessonroom/internal/screen"
	"github.com/abhisek/lessonroom/internal/ui/components"
	"github.com/abhisek/lessonroom/internal/ui/layout"
	"github.com/abhisek/lessonroom/internal/ui/theme"
)

type exportedMsg struct {
	path string
	err  error
}

// Screen shows the export text.
type Screen struct {
	manager *planner.Manager
	dir     string
	buttons components.ButtonRow
	offset  int
	status  string
	failed  bool
}

var _ screen.Screen = (*Screen)(nil)

// New creates the preview. Exported files are written to dir.
func New(m *planner.Manager, dir string) *Screen {
	s := &Screen{manager: m, dir: dir}
	s.buttons = components.NewButtonRow(
		components.NewButton("הקודם", false, func() tea.Cmd {
			return func() tea.Msg { return screen.StepMsg{Delta: -1} }
		}),
		components.NewButton("ייצא לקובץ טקסט", false, s.export),
	)
	s.buttons.SetFocus(1)
	return s
}

func (s *Screen) export() tea.Cmd {
	p := s.manager.Plan()
	dir := s.dir
	return func() tea.Msg {
		if p == nil {
			return exportedMsg{err: planner.ErrNotLoaded}
		}
		path, err := export.WriteFile(dir, p)
		return exportedMsg{path: path, err: err}
	}
}

func (s *Screen) Title() string {
	return "תצוגה מקדימה"
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case exportedMsg:
		if msg.err != nil {
			s.status, s.failed = "שגיאה בייצוא הקובץ: "+msg.err.Error(), true
		} else {
			s.status, s.failed = "הקובץ נשמר: "+msg.path, false
		}
		return s, nil

	case screen.FlashMsg:
		s.status, s.failed = msg.Text, msg.Error
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "down", "j":
			s.offset++
			return s, nil
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
			return s, nil
		case "ctrl+e":
			return s, s.export()
		case "ctrl+t":
			return s, func() tea.Msg { return screen.OpenChatMsg{} }
		}
	}

	var cmd tea.Cmd
	s.buttons, cmd = s.buttons.Update(msg)
	return s, cmd
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	top := components.StepBar(planner.StepLabels, planner.LastStep, cw)
	bottom := s.buttons.View()
	if s.status != "" {
		style := theme.Saved
		if s.failed {
			style = theme.Failed
		}
		bottom += "\n" + style.Render(s.status)
	}

	avail := max(height-lipgloss.Height(top)-lipgloss.Height(bottom)-4, 1)
	lines := strings.Split(s.manager.ExportText(), "\n")
	if s.offset > len(lines)-avail {
		s.offset = max(len(lines)-avail, 0)
	}
	end := min(s.offset+avail, len(lines))
	body := components.Panel(theme.Body.Render(strings.Join(lines[s.offset:end], "\n")), cw, false)

	content := lipgloss.JoinVertical(lipgloss.Left, top, "", body, bottom)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "גלילה"},
		{Key: "←→", Description: "כפתור"},
		{Key: "Enter", Description: "בחירה"},
		{Key: "Ctrl+E", Description: "ייצוא"},
		{Key: "Ctrl+P", Description: "הקודם"},
	}
}
