package builder

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lessonroom/internal/plan"
	"github.com/abhisek/lessonroom/internal/planner"
	"github.com/abhisek/lessonroom/internal/resume"
	"github.com/abhisek/lessonroom/internal/screen"
)

func newManager(t *testing.T) *planner.Manager {
	t.Helper()
	m := planner.New(planner.NewMemoryRepo(), resume.Scope(resume.NewMemory(), "c"))
	if err := m.Load(context.Background(), "user-1"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m
}

func press(s screen.Screen, keys ...rune) {
	for _, k := range keys {
		s.Update(tea.KeyPressMsg{Code: k, Text: string(k)})
	}
}

func TestAddAndRemoveSection(t *testing.T) {
	m := newManager(t)
	s := New(m)

	press(s, 'a', 'a')
	if got := len(m.Plan().Sections.Opening); got != 2 {
		t.Fatalf("opening sections = %d, want 2", got)
	}
	if s.Cursor() != 1 {
		t.Errorf("Cursor() = %d, want 1 after adding", s.Cursor())
	}

	press(s, 'x')
	if got := len(m.Plan().Sections.Opening); got != 1 {
		t.Errorf("opening sections = %d, want 1 after remove", got)
	}
	if s.Cursor() != 0 {
		t.Errorf("Cursor() = %d, want 0 after remove", s.Cursor())
	}
}

func TestTabSwitchesPhase(t *testing.T) {
	m := newManager(t)
	s := New(m)

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if s.Phase() != plan.PhaseMain {
		t.Fatalf("Phase() = %s, want main", s.Phase())
	}
	press(s, 'a')
	if got := len(m.Plan().Sections.Main); got != 1 {
		t.Errorf("main sections = %d, want 1", got)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if s.Phase() != plan.PhaseSummary {
		t.Errorf("Phase() = %s, want summary after wrapping back", s.Phase())
	}
}

func TestCycleScreensAndSpaceUsage(t *testing.T) {
	m := newManager(t)
	s := New(m)
	press(s, 'a')

	press(s, '1')
	press(s, '3', '3')
	press(s, 's')

	sec := m.Plan().Sections.Opening[0]
	if sec.Screens.Screen1 != plan.DisplayTypes[0] {
		t.Errorf("Screen1 = %q, want %q", sec.Screens.Screen1, plan.DisplayTypes[0])
	}
	if sec.Screens.Screen2 != plan.DisplayNone {
		t.Errorf("Screen2 = %q, want none", sec.Screens.Screen2)
	}
	if sec.Screens.Screen3 != plan.DisplayTypes[1] {
		t.Errorf("Screen3 = %q, want %q", sec.Screens.Screen3, plan.DisplayTypes[1])
	}
	if sec.SpaceUsage != plan.SpaceUsages[0] {
		t.Errorf("SpaceUsage = %q, want %q", sec.SpaceUsage, plan.SpaceUsages[0])
	}
}

func TestCycleWrapsToNone(t *testing.T) {
	m := newManager(t)
	s := New(m)
	press(s, 'a')

	for range plan.SpaceUsages {
		press(s, 's')
	}
	press(s, 's')
	if got := m.Plan().Sections.Opening[0].SpaceUsage; got != plan.SpaceNone {
		t.Errorf("SpaceUsage = %q, want none after a full cycle", got)
	}
}

func TestEditContent(t *testing.T) {
	m := newManager(t)
	s := New(m)
	press(s, 'a')

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !s.Editing() {
		t.Fatal("expected editing after enter")
	}
	// Keys go to the input while editing.
	press(s, 'a', 'x', '1')
	if got := len(m.Plan().Sections.Opening); got != 1 {
		t.Fatalf("sections changed while editing: %d", got)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	if s.Editing() {
		t.Error("expected editing to end after enter")
	}
	if got := m.Plan().Sections.Opening[0].Content; got != "ax1" {
		t.Errorf("Content = %q, want ax1", got)
	}
}

func TestEditCancel(t *testing.T) {
	m := newManager(t)
	s := New(m)
	press(s, 'a')

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	press(s, 'z')
	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})

	if s.Editing() {
		t.Error("expected editing to end after esc")
	}
	if got := m.Plan().Sections.Opening[0].Content; got != "" {
		t.Errorf("Content = %q, want empty after cancel", got)
	}
}

func TestSuggestionForSelectedSection(t *testing.T) {
	m := newManager(t)
	s := New(m)
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	press(s, 'a')

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'g', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(screen.OpenSuggestionMsg)
	if !ok {
		t.Fatalf("expected OpenSuggestionMsg, got %T", cmd())
	}
	if msg.Path != "main.0.content" {
		t.Errorf("Path = %q, want main.0.content", msg.Path)
	}
}

func TestViewShowsSections(t *testing.T) {
	m := newManager(t)
	s := New(m)
	press(s, 'a', '1')

	out := s.View(100, 40)
	for _, want := range []string{"פתיחה (1)", "פעילות 1", plan.DisplayTypes[0].Label()} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPlanChangedClampsCursor(t *testing.T) {
	m := newManager(t)
	s := New(m)
	press(s, 'a', 'a')

	if err := m.RemoveSection(plan.PhaseOpening, 1); err != nil {
		t.Fatal(err)
	}
	s.Update(screen.PlanChangedMsg{})
	if s.Cursor() != 0 {
		t.Errorf("Cursor() = %d, want 0", s.Cursor())
	}
}
