// Package fieldchat lets the teacher edit the plan by writing free-form
// instructions to the assistant.
package fieldchat

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonroom/internal/interpreter"
	"github.com/abhisek/lessonroom/internal/screen"
	"github.com/abhisek/lessonroom/internal/ui/components"
	"github.com/abhisek/lessonroom/internal/ui/layout"
	"github.com/abhisek/lessonroom/internal/ui/theme"
)

type replyMsg struct {
	reply *interpreter.Reply
	err   error
}

// Screen shows the interpreter transcript and an input line.
type Screen struct {
	ctx     context.Context
	interp  *interpreter.Interpreter
	input   components.TextInput
	sending bool
	errText string
}

var _ screen.Screen = (*Screen)(nil)

// New creates the chat screen over an interpreter shared with the app.
func New(ctx context.Context, interp *interpreter.Interpreter) *Screen {
	return &Screen{
		ctx:    ctx,
		interp: interp,
		input:  components.NewTextInput("", "כתבו מה לשנות בתכנית...", 500),
	}
}

func (s *Screen) Title() string {
	return "עריכה בשיחה"
}

func (s *Screen) Init() tea.Cmd {
	return s.input.Focus()
}

func (s *Screen) send(text string) tea.Cmd {
	s.sending = true
	s.errText = ""
	interp := s.interp
	ctx := s.ctx
	return func() tea.Msg {
		reply, err := interp.Send(ctx, text)
		return replyMsg{reply: reply, err: err}
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		s.sending = false
		switch {
		case errors.Is(msg.err, interpreter.ErrBusy):
			s.errText = "ההודעה הקודמת עדיין בטיפול"
		case msg.err != nil:
			s.errText = interpreter.MsgSendFailed
		case len(msg.reply.Applied) > 0:
			return s, func() tea.Msg { return screen.PlanChangedMsg{} }
		}
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "enter" {
			text := strings.TrimSpace(s.input.Value())
			if text == "" || s.sending {
				return s, nil
			}
			s.input.SetValue("")
			return s, s.send(text)
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var lines []string
	for _, m := range s.interp.Transcript() {
		bubble := theme.AIBubble
		align := lipgloss.Left
		if m.Sender == interpreter.SenderUser {
			bubble = theme.UserBubble
			align = lipgloss.Right
		}
		rendered := bubble.MaxWidth(cw * 3 / 4).Render(m.Text)
		lines = append(lines, lipgloss.PlaceHorizontal(cw, align, rendered))
	}
	if len(lines) == 0 {
		lines = append(lines, theme.Hint.Render("למשל: \"שנה את הנושא למחזור המים והוסף סרטון למסך 1 בפתיחה\""))
	}
	if s.sending {
		lines = append(lines, theme.Pending.Render("חושב..."))
	}
	if s.errText != "" {
		lines = append(lines, theme.Failed.Render(s.errText))
	}

	inputBox := components.Panel(s.input.View(), cw, true)
	avail := height - lipgloss.Height(inputBox) - 1
	transcript := strings.Join(lines, "\n")
	if tl := strings.Split(transcript, "\n"); avail > 0 && len(tl) > avail {
		transcript = strings.Join(tl[len(tl)-avail:], "\n")
	}

	body := lipgloss.NewStyle().Width(cw).Height(max(avail, 0)).Render(transcript)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body+"\n"+inputBox)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "שליחה"},
		{Key: "Esc", Description: "חזרה"},
	}
}
