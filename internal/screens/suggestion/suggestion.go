// Package suggestion is the overlay that asks the assistant for a value of
// one plan field and lets the teacher refine, accept or discard it.
package suggestion

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonroom/internal/router"
	"github.com/abhisek/lessonroom/internal/screen"
	"github.com/abhisek/lessonroom/internal/suggest"
	"github.com/abhisek/lessonroom/internal/ui/components"
	"github.com/abhisek/lessonroom/internal/ui/layout"
	"github.com/abhisek/lessonroom/internal/ui/theme"
)

type suggestionMsg struct {
	text string
	err  error
}

type acceptedMsg struct {
	err error
}

const (
	focusEditor = iota
	focusFollowUp
)

// Screen shows one suggestion session.
type Screen struct {
	ctx     context.Context
	session *suggest.Session
	label   string

	editor   components.TextInput
	followUp components.TextInput
	focus    int
	loading  bool
	accepted bool
}

var _ screen.Screen = (*Screen)(nil)

// New creates the overlay for a session. label is the Hebrew name of the
// target field.
func New(ctx context.Context, session *suggest.Session, label string) *Screen {
	editor := components.NewTextInput("הצעה", "ממתין להצעה...", 0)
	followUp := components.NewTextInput("בקשה נוספת", "למשל: קצר יותר", 200)
	return &Screen{
		ctx:      ctx,
		session:  session,
		label:    label,
		editor:   editor,
		followUp: followUp,
	}
}

func (s *Screen) Title() string {
	return "הצעה עבור " + s.label
}

func (s *Screen) Init() tea.Cmd {
	return tea.Batch(s.editor.Focus(), s.request(""))
}

func (s *Screen) request(message string) tea.Cmd {
	s.loading = true
	sess := s.session
	ctx := s.ctx
	return func() tea.Msg {
		text, err := sess.Request(ctx, message)
		return suggestionMsg{text: text, err: err}
	}
}

func (s *Screen) accept() tea.Cmd {
	s.session.Edit(s.editor.Value())
	sess := s.session
	ctx := s.ctx
	return func() tea.Msg {
		return acceptedMsg{err: sess.Accept(ctx)}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case suggestionMsg:
		s.loading = false
		if msg.err == nil {
			s.editor.SetValue(msg.text)
			s.followUp.SetValue("")
		}
		return s, nil

	case acceptedMsg:
		if msg.err != nil {
			return s, nil
		}
		s.accepted = true
		return s, tea.Sequence(
			func() tea.Msg { return router.PopScreenMsg{} },
			func() tea.Msg { return screen.PlanChangedMsg{} },
		)

	case tea.KeyMsg:
		if s.loading {
			return s, nil
		}
		switch msg.String() {
		case "tab", "shift+tab":
			return s, s.toggleFocus()
		case "ctrl+a":
			if strings.TrimSpace(s.editor.Value()) == "" {
				return s, nil
			}
			return s, s.accept()
		case "ctrl+r":
			s.session.Edit(s.editor.Value())
			return s, s.request(s.followUp.Value())
		case "enter":
			if s.focus == focusFollowUp {
				s.session.Edit(s.editor.Value())
				return s, s.request(s.followUp.Value())
			}
			if strings.TrimSpace(s.editor.Value()) == "" {
				return s, nil
			}
			return s, s.accept()
		}
	}

	var cmd tea.Cmd
	if s.focus == focusEditor {
		s.editor, cmd = s.editor.Update(msg)
	} else {
		s.followUp, cmd = s.followUp.Update(msg)
	}
	return s, cmd
}

func (s *Screen) toggleFocus() tea.Cmd {
	if s.focus == focusEditor {
		s.focus = focusFollowUp
		s.editor.Blur()
		return s.followUp.Focus()
	}
	s.focus = focusEditor
	s.followUp.Blur()
	return s.editor.Focus()
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString(theme.Title.Render("✦ " + s.label))
	b.WriteString("\n\n")

	st := s.session.State()
	switch {
	case s.loading:
		b.WriteString(theme.Pending.Render("מקבל הצעה..."))
	case st.Error != "":
		b.WriteString(theme.Failed.Render(st.Error))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("ctrl+r לנסות שוב"))
	}
	b.WriteString("\n\n")
	b.WriteString(components.Panel(s.editor.View(), cw, s.focus == focusEditor))
	b.WriteString("\n")
	b.WriteString(components.Panel(s.followUp.View(), cw, s.focus == focusFollowUp))

	content := lipgloss.NewStyle().Width(cw).Render(b.String())
	return components.Centered(content, width, height)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Ctrl+A", Description: "אישור"},
		{Key: "Ctrl+R", Description: "הצעה חדשה"},
		{Key: "Tab", Description: "מעבר שדה"},
	}
}
