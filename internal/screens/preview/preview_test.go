package preview

import (
	"context"
	"os"
	"path/filepath"
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
	if err := m.SetField(plan.FieldTopic, "מחזור המים"); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestViewShowsExportText(t *testing.T) {
	s := New(newManager(t), t.TempDir())
	out := s.View(100, 40)
	if !strings.Contains(out, "תכנית שיעור: מחזור המים") {
		t.Error("view should contain the export heading")
	}
}

func TestExportWritesFile(t *testing.T) {
	dir := t.TempDir()
	m := newManager(t)
	s := New(m, dir)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter on the export button should return a command")
	}
	s.Update(cmd())

	path := filepath.Join(dir, "תכנית_שיעור_מחזור המים.txt")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("export file not written: %v", err)
	}
	if string(data) != m.ExportText() {
		t.Error("file content differs from export text")
	}
	if !strings.Contains(s.View(100, 40), "הקובץ נשמר") {
		t.Error("view should confirm the export")
	}
}

func TestExportFailureShown(t *testing.T) {
	s := New(newManager(t), filepath.Join(t.TempDir(), "missing"))

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'e', Mod: tea.ModCtrl})
	s.Update(cmd())

	if !s.failed || !strings.Contains(s.status, "שגיאה בייצוא") {
		t.Errorf("expected export error, got %q", s.status)
	}
}

func TestPreviousButtonRequestsStep(t *testing.T) {
	s := New(newManager(t), t.TempDir())

	s.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(screen.StepMsg)
	if !ok || msg.Delta != -1 {
		t.Errorf("expected StepMsg{-1}, got %#v", cmd())
	}
}

func TestScrollStaysInRange(t *testing.T) {
	s := New(newManager(t), t.TempDir())
	for range 100 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	s.View(100, 20)
	lines := strings.Count(s.manager.ExportText(), "\n") + 1
	if s.offset > lines {
		t.Errorf("offset %d beyond %d lines", s.offset, lines)
	}
	for range 200 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	}
	if s.offset != 0 {
		t.Errorf("offset = %d, want 0", s.offset)
	}
}
