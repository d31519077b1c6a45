package suggestion

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lessonroom/internal/assistant"
	"github.com/abhisek/lessonroom/internal/plan"
	"github.com/abhisek/lessonroom/internal/planner"
	"github.com/abhisek/lessonroom/internal/resume"
	"github.com/abhisek/lessonroom/internal/suggest"
)

type fakeTools struct {
	results []assistant.Result
	args    []map[string]any
}

func (f *fakeTools) InvokeTool(_ context.Context, _, _ string, args any) assistant.Result {
	f.args = append(f.args, args.(map[string]any))
	r := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	return r
}

func text(s string) assistant.Result {
	return assistant.Result{Content: []assistant.Content{{Type: "text", Text: s}}}
}

func newOverlay(t *testing.T, results ...assistant.Result) (*Screen, *planner.Manager, *fakeTools) {
	t.Helper()
	m := planner.New(planner.NewMemoryRepo(), resume.Scope(resume.NewMemory(), "c"))
	if err := m.Load(context.Background(), "user-1"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	tools := &fakeTools{results: results}
	sess := suggest.NewSession(tools, m, suggest.Target{Path: "topic"})
	return New(context.Background(), sess, plan.FieldTopic.Label()), m, tools
}

// initSuggestion runs the request issued by Init and feeds its result back.
func initSuggestion(t *testing.T, s *Screen) {
	t.Helper()
	s.Init()
	s.Update(s.request("")())
}

func TestInitRequestsSuggestion(t *testing.T) {
	s, _, tools := newOverlay(t, text("מחזור המים"))
	initSuggestion(t, s)

	if s.editor.Value() != "מחזור המים" {
		t.Errorf("editor = %q, want suggestion", s.editor.Value())
	}
	if tools.args[0]["type"] != "topic" {
		t.Errorf("type = %v, want topic", tools.args[0]["type"])
	}
}

func TestAcceptAppliesAndPops(t *testing.T) {
	s, m, _ := newOverlay(t, text("מחזור המים"))
	initSuggestion(t, s)

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'a', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected accept command")
	}
	_, cmd = s.Update(cmd())
	if !s.accepted {
		t.Fatal("expected accepted state")
	}
	if cmd == nil {
		t.Fatal("expected navigation command")
	}
	if got := m.Plan().Topic; got != "מחזור המים" {
		t.Errorf("Topic = %q, want accepted suggestion", got)
	}
	if m.State().Dirty {
		t.Error("accept should save the plan")
	}
}

func TestAcceptUsesEditedText(t *testing.T) {
	s, m, _ := newOverlay(t, text("מים"))
	initSuggestion(t, s)

	for _, r := range " מתוקים" {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(cmd())

	if got := m.Plan().Topic; got != "מים מתוקים" {
		t.Errorf("Topic = %q, want edited text", got)
	}
}

func TestFollowUpRefines(t *testing.T) {
	s, _, tools := newOverlay(t, text("מים"), text("מים בטבע"))
	initSuggestion(t, s)

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	for _, r := range "יותר" {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter on follow-up should request")
	}
	s.Update(cmd())

	if s.editor.Value() != "מים בטבע" {
		t.Errorf("editor = %q, want refined suggestion", s.editor.Value())
	}
	last := tools.args[len(tools.args)-1]
	if last["message"] != "יותר" || last["currentValue"] != "מים" {
		t.Errorf("unexpected follow-up args %v", last)
	}
}

func TestErrorShownWithRetry(t *testing.T) {
	s, m, _ := newOverlay(t, assistant.Result{Error: "down", Code: assistant.CodeUnavailable})
	initSuggestion(t, s)

	if !strings.Contains(s.View(100, 30), suggest.MsgRequestFailed) {
		t.Error("expected error message in view")
	}
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("empty suggestion should not be accepted")
	}
	if m.Plan().Topic != "" {
		t.Error("plan should not change")
	}
}
