// Package app is the root Bubble Tea model of the lesson planning wizard.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lessonroom/internal/assistant"
	"github.com/abhisek/lessonroom/internal/interpreter"
	"github.com/abhisek/lessonroom/internal/logger"
	"github.com/abhisek/lessonroom/internal/planner"
	"github.com/abhisek/lessonroom/internal/router"
	"github.com/abhisek/lessonroom/internal/screen"
	"github.com/abhisek/lessonroom/internal/screens/basicinfo"
	"github.com/abhisek/lessonroom/internal/screens/builder"
	"github.com/abhisek/lessonroom/internal/screens/fieldchat"
	"github.com/abhisek/lessonroom/internal/screens/placeholder"
	"github.com/abhisek/lessonroom/internal/screens/preview"
	"github.com/abhisek/lessonroom/internal/screens/suggestion"
	"github.com/abhisek/lessonroom/internal/suggest"
	"github.com/abhisek/lessonroom/internal/ui/layout"
)

// RefreshInterval is how often the wizard re-reads the plan from the store
// to pick up edits made by other clients.
const RefreshInterval = 30 * time.Second

// Options wires the wizard to its collaborators.
type Options struct {
	Manager     *planner.Manager
	Interpreter *interpreter.Interpreter
	Tools       assistant.Invoker
	UserID      string
	ExportDir   string
	Log         *logger.Logger
}

type loadedMsg struct{ err error }

type savedMsg struct{ err error }

type steppedMsg struct {
	step int
	err  error
}

type refreshTickMsg struct{}

type refreshedMsg struct {
	changed bool
	err     error
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	ctx    context.Context
	opts   Options
	router *router.Router
	width  int
	height int
	loaded bool
}

// newAppModel creates the model with a loading screen; the plan is loaded
// by Init.
func newAppModel(ctx context.Context, opts Options) AppModel {
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	return AppModel{
		ctx:    ctx,
		opts:   opts,
		router: router.New(placeholder.New("", "טוען את תכנית השיעור...")),
	}
}

func (m AppModel) Init() tea.Cmd {
	mgr, ctx, user := m.opts.Manager, m.ctx, m.opts.UserID
	return func() tea.Msg {
		return loadedMsg{err: mgr.Load(ctx, user)}
	}
}

// stepScreen builds the screen for a wizard step.
func (m AppModel) stepScreen(step int) screen.Screen {
	switch step {
	case 2:
		return builder.New(m.opts.Manager)
	case planner.LastStep:
		return preview.New(m.opts.Manager, m.opts.ExportDir)
	}
	return basicinfo.New(m.opts.Manager)
}

func (m AppModel) save() tea.Cmd {
	mgr, ctx := m.opts.Manager, m.ctx
	return func() tea.Msg {
		return savedMsg{err: mgr.Save(ctx)}
	}
}

func (m AppModel) step(delta int) tea.Cmd {
	mgr, ctx := m.opts.Manager, m.ctx
	return func() tea.Msg {
		var (
			n   int
			err error
		)
		if delta > 0 {
			n, err = mgr.Next(ctx)
		} else {
			n, err = mgr.Previous(ctx)
		}
		return steppedMsg{step: n, err: err}
	}
}

func refreshTick() tea.Cmd {
	return tea.Tick(RefreshInterval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.opts.Log.Error("load lesson plan", "error", msg.err)
			return m, m.router.Reset(placeholder.NewError("", planner.LoadErrorMessage))
		}
		m.loaded = true
		return m, tea.Batch(m.router.Reset(m.stepScreen(m.opts.Manager.Step())), refreshTick())

	case savedMsg:
		if msg.err != nil {
			m.opts.Log.Warn("save lesson plan", "error", msg.err)
			return m, m.router.Update(screen.FlashMsg{Text: planner.SaveErrorMessage, Error: true})
		}
		return m, nil

	case steppedMsg:
		if msg.err != nil {
			m.opts.Log.Warn("change step", "error", msg.err)
			return m, m.router.Update(screen.FlashMsg{Text: planner.SaveErrorMessage, Error: true})
		}
		return m, m.router.Reset(m.stepScreen(msg.step))

	case refreshTickMsg:
		mgr, ctx := m.opts.Manager, m.ctx
		return m, tea.Batch(refreshTick(), func() tea.Msg {
			changed, err := mgr.Refresh(ctx)
			return refreshedMsg{changed: changed, err: err}
		})

	case refreshedMsg:
		if msg.err != nil {
			m.opts.Log.Warn("refresh lesson plan", "error", msg.err)
			return m, nil
		}
		if msg.changed {
			return m, m.router.Update(screen.PlanChangedMsg{})
		}
		return m, nil

	case screen.StepMsg:
		return m, m.step(msg.Delta)

	case screen.OpenSuggestionMsg:
		sess := suggest.NewSession(m.opts.Tools, m.opts.Manager, suggest.Target{
			Path:    msg.Path,
			Context: msg.Context,
		})
		return m, m.router.Push(suggestion.New(m.ctx, sess, msg.Label))

	case screen.OpenChatMsg:
		return m, m.router.Push(fieldchat.New(m.ctx, m.opts.Interpreter))

	case router.PopScreenMsg:
		// Overlays may have edited the plan; the screen underneath
		// resyncs before it sees another keystroke.
		pop := m.router.Pop()
		return m, tea.Batch(pop, m.router.Update(screen.PlanChangedMsg{}))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.loaded && m.opts.Manager.State().Dirty {
				return m, tea.Sequence(m.save(), tea.Quit)
			}
			return m, tea.Quit
		case "ctrl+s":
			if m.loaded {
				return m, m.save()
			}
			return m, nil
		case "ctrl+n", "ctrl+p":
			if !m.loaded || m.router.Depth() > 1 {
				return m, nil
			}
			delta := 1
			if msg.String() == "ctrl+p" {
				delta = -1
			}
			return m, m.step(delta)
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) saveStatus() string {
	st := m.opts.Manager.State()
	last := ""
	if st.LastSaved != nil {
		last = st.LastSaved.Local().Format("15:04")
	}
	return layout.RenderSaveStatus(st.Saving, st.Dirty, last, st.Error)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current terminal size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	step := 0
	status := ""
	if m.loaded {
		step = m.opts.Manager.Step()
		status = m.saveStatus()
	}
	header := layout.RenderHeader(title, step, planner.LastStep, status, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	}
	if m.router.Depth() > 1 {
		footerHints = append(footerHints, layout.KeyHint{Key: "Esc", Description: "חזרה"})
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "יציאה"})

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newAppModel(ctx, opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
