package app

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lessonroom/internal/assistant"
	"github.com/abhisek/lessonroom/internal/interpreter"
	"github.com/abhisek/lessonroom/internal/plan"
	"github.com/abhisek/lessonroom/internal/planner"
	"github.com/abhisek/lessonroom/internal/resume"
	"github.com/abhisek/lessonroom/internal/router"
	"github.com/abhisek/lessonroom/internal/screen"
	"github.com/abhisek/lessonroom/internal/screens/basicinfo"
	"github.com/abhisek/lessonroom/internal/screens/builder"
	"github.com/abhisek/lessonroom/internal/screens/fieldchat"
	"github.com/abhisek/lessonroom/internal/screens/preview"
	"github.com/abhisek/lessonroom/internal/screens/suggestion"
)

type stubTools struct{}

func (stubTools) InvokeTool(context.Context, string, string, any) assistant.Result {
	return assistant.Result{Content: []assistant.Content{{Type: "text", Text: "[]"}}}
}

// replyTools answers every tool call with the same text.
type replyTools string

func (r replyTools) InvokeTool(context.Context, string, string, any) assistant.Result {
	return assistant.Result{Content: []assistant.Content{{Type: "text", Text: string(r)}}}
}

func newTestApp(t *testing.T) (AppModel, *planner.Manager) {
	t.Helper()
	return newTestAppWithTools(t, stubTools{})
}

func newTestAppWithTools(t *testing.T, tools assistant.Invoker) (AppModel, *planner.Manager) {
	t.Helper()
	m := planner.New(planner.NewMemoryRepo(), resume.Scope(resume.NewMemory(), "c"))
	opts := Options{
		Manager:     m,
		Interpreter: interpreter.New(tools, m, nil),
		Tools:       tools,
		UserID:      "user-1",
		ExportDir:   t.TempDir(),
	}
	return newAppModel(context.Background(), opts), m
}

// send feeds msg to the model and runs the returned command once,
// feeding its message back.
func send(m AppModel, msg tea.Msg) AppModel {
	model, cmd := m.Update(msg)
	m = model.(AppModel)
	if cmd != nil {
		if next := cmd(); next != nil {
			model, _ = m.Update(next)
			m = model.(AppModel)
		}
	}
	return m
}

func loaded(t *testing.T) (AppModel, *planner.Manager) {
	t.Helper()
	return loadedWithTools(t, stubTools{})
}

func loadedWithTools(t *testing.T, tools assistant.Invoker) (AppModel, *planner.Manager) {
	t.Helper()
	a, m := newTestAppWithTools(t, tools)
	a = send(a, a.Init()())
	if !a.loaded {
		t.Fatal("expected plan to be loaded")
	}
	return a, m
}

func TestLoadShowsBasicInfo(t *testing.T) {
	a, m := loaded(t)
	if _, ok := a.router.Active().(*basicinfo.Screen); !ok {
		t.Errorf("active = %T, want basic info", a.router.Active())
	}
	if m.Plan() == nil || m.Plan().UserID != "user-1" {
		t.Error("expected a plan owned by user-1")
	}
}

func TestStepNavigation(t *testing.T) {
	a, m := loaded(t)

	a = send(a, tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl})
	if _, ok := a.router.Active().(*builder.Screen); !ok {
		t.Fatalf("active = %T, want builder", a.router.Active())
	}
	a = send(a, tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl})
	if _, ok := a.router.Active().(*preview.Screen); !ok {
		t.Fatalf("active = %T, want preview", a.router.Active())
	}
	if m.Step() != planner.LastStep {
		t.Errorf("Step() = %d, want %d", m.Step(), planner.LastStep)
	}

	a = send(a, screen.StepMsg{Delta: -1})
	if _, ok := a.router.Active().(*builder.Screen); !ok {
		t.Errorf("active = %T, want builder after previous", a.router.Active())
	}
}

func TestSaveShortcut(t *testing.T) {
	a, m := loaded(t)
	a = send(a, tea.KeyPressMsg{Code: 'x', Text: "x"})
	if !m.State().Dirty {
		t.Fatal("expected dirty plan after typing")
	}

	send(a, tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	if m.State().Dirty {
		t.Error("ctrl+s should save the plan")
	}
}

func TestOverlaysPushAndPop(t *testing.T) {
	a, _ := loaded(t)

	model, _ := a.Update(screen.OpenSuggestionMsg{Path: "topic", Label: "נושא"})
	a = model.(AppModel)
	if _, ok := a.router.Active().(*suggestion.Screen); !ok {
		t.Fatalf("active = %T, want suggestion overlay", a.router.Active())
	}

	// Step keys are ignored while an overlay is open.
	model, cmd := a.Update(tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl})
	a = model.(AppModel)
	if cmd != nil {
		t.Error("ctrl+n should be ignored over an overlay")
	}

	a = send(a, tea.KeyPressMsg{Code: tea.KeyEscape})
	if a.router.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1 after esc", a.router.Depth())
	}

	model, _ = a.Update(screen.OpenChatMsg{})
	a = model.(AppModel)
	if _, ok := a.router.Active().(*fieldchat.Screen); !ok {
		t.Errorf("active = %T, want field chat", a.router.Active())
	}
	a.Update(router.PopScreenMsg{})
}

func TestHeaderShowsStepAndStatus(t *testing.T) {
	a, m := loaded(t)
	a = send(a, tea.WindowSizeMsg{Width: 120, Height: 50})

	out := a.render()
	for _, want := range []string{"Lesson Room", "1/3", "פרטי השיעור"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	if err := m.Save(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(a.render(), "נשמר לאחרונה") {
		t.Error("expected last-saved status after save")
	}
}

func TestRefreshPicksUpChanges(t *testing.T) {
	a, _ := loaded(t)
	model, cmd := a.Update(refreshTickMsg{})
	a = model.(AppModel)
	if cmd == nil {
		t.Fatal("refresh tick should schedule work")
	}
	model, _ = a.Update(refreshedMsg{changed: true})
	if _, ok := model.(AppModel).router.Active().(*basicinfo.Screen); !ok {
		t.Error("refresh should keep the active screen")
	}
}

func TestChatEditsSurviveReturnToForm(t *testing.T) {
	a, m := loadedWithTools(t, replyTools(`{"fieldToUpdate":"topic","userResponse":"עודכן","newValue":"Genetics"}`))
	if err := m.SetField(plan.FieldTopic, "Ecosystems"); err != nil {
		t.Fatal(err)
	}
	a = send(a, screen.PlanChangedMsg{})

	model, _ := a.Update(screen.OpenChatMsg{})
	a = model.(AppModel)
	a = send(a, tea.KeyPressMsg{Code: 'g', Text: "g"})
	a = send(a, tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := m.Plan().Get(plan.FieldTopic); got != "Genetics" {
		t.Fatalf("topic after chat = %q, want Genetics", got)
	}

	a = send(a, tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := a.router.Active().(*basicinfo.Screen); !ok {
		t.Fatalf("active = %T, want basic info after esc", a.router.Active())
	}

	send(a, tea.KeyPressMsg{Code: '!', Text: "!"})
	got := m.Plan().Get(plan.FieldTopic)
	if !strings.Contains(got, "Genetics") || strings.Contains(got, "Ecosystems") {
		t.Errorf("topic after typing = %q, chat edit was reverted", got)
	}
}
