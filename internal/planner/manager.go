// Package planner holds the in-memory lesson plan being edited by one
// client and keeps it in step with the plan repository.
package planner

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/abhisek/lessonroom/internal/export"
	"github.com/abhisek/lessonroom/internal/logger"
	"github.com/abhisek/lessonroom/internal/plan"
	"github.com/abhisek/lessonroom/internal/resume"
)

// Wizard steps.
const (
	FirstStep = 1
	LastStep  = 3
)

// StepLabels names the wizard steps in order.
var StepLabels = []string{"פרטי השיעור", "בניית השיעור", "תצוגה מקדימה"}

// User-facing error strings kept on the manager.
const (
	SaveErrorMessage = "שגיאה בשמירת השינויים"
	LoadErrorMessage = "שגיאה בטעינת תכנית השיעור"
)

// SaveTimeout bounds one repository write.
const SaveTimeout = 15 * time.Second

// ErrNotLoaded is returned by edits made before Load has adopted a plan.
var ErrNotLoaded = errors.New("lesson plan not loaded")

// PlanRepo is the persistence collaborator for plan documents.
type PlanRepo interface {
	Create(ctx context.Context, draft *plan.LessonPlan) (*plan.LessonPlan, error)
	Get(ctx context.Context, id string) (*plan.LessonPlan, error)
	Update(ctx context.Context, id string, patch plan.Patch) error
}

// ResumeStore is the client-scoped key/value store holding the active plan
// id and wizard step.
type ResumeStore interface {
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, value string) error
}

var _ ResumeStore = (*resume.Scoped)(nil)

// State is a snapshot of the manager for presentation.
type State struct {
	Plan      *plan.LessonPlan `json:"plan"`
	Step      int              `json:"step"`
	Dirty     bool             `json:"dirty"`
	Saving    bool             `json:"saving"`
	Loading   bool             `json:"loading"`
	LastSaved *time.Time       `json:"lastSaved,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// Manager owns one client's working copy of a lesson plan. All methods are
// safe for concurrent use; repository calls run outside the lock.
type Manager struct {
	repo   PlanRepo
	resume ResumeStore
	log    *logger.Logger
	now    func() time.Time

	mu        sync.Mutex
	plan      *plan.LessonPlan
	step      int
	dirty     bool
	rev       uint64
	saving    bool
	loading   bool
	lastSaved time.Time
	errMsg    string
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(l *logger.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithClock overrides the time source used for save timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// New returns a manager with no plan loaded.
func New(repo PlanRepo, rs ResumeStore, opts ...Option) *Manager {
	m := &Manager{
		repo:   repo,
		resume: rs,
		log:    logger.Nop(),
		now:    time.Now,
		step:   FirstStep,
	}
	for _, o := range opts {
		o(m)
	}
	m.log = m.log.With("component", "planner")
	return m
}

// Load resumes the plan recorded in the resume store when it belongs to
// userID, and otherwise creates an empty plan for userID.
func (m *Manager) Load(ctx context.Context, userID string) error {
	m.mu.Lock()
	m.loading = true
	m.mu.Unlock()

	p := m.resumable(ctx, userID)
	if p == nil {
		created, err := m.repo.Create(ctx, plan.New(userID))
		if err != nil {
			m.mu.Lock()
			m.loading = false
			m.errMsg = LoadErrorMessage
			m.mu.Unlock()
			m.log.Error("create lesson plan failed", "user_id", userID, "error", err)
			return fmt.Errorf("create lesson plan: %w", err)
		}
		p = created
		if err := m.resume.Save(ctx, resume.KeyPlanID, p.ID); err != nil {
			m.log.Warn("record plan id failed", "plan_id", p.ID, "error", err)
		}
		m.log.Info("created lesson plan", "plan_id", p.ID, "user_id", userID)
	} else {
		m.log.Info("resumed lesson plan", "plan_id", p.ID, "user_id", userID)
	}

	step := m.storedStep(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.plan = p
	m.step = step
	m.dirty = false
	m.rev++
	m.loading = false
	m.errMsg = ""
	return nil
}

func (m *Manager) resumable(ctx context.Context, userID string) *plan.LessonPlan {
	id, ok, err := m.resume.Load(ctx, resume.KeyPlanID)
	if err != nil {
		m.log.Warn("read resume store failed", "error", err)
		return nil
	}
	if !ok || id == "" {
		return nil
	}
	p, err := m.repo.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, plan.ErrNotFound) {
			m.log.Warn("fetch stored plan failed", "plan_id", id, "error", err)
		}
		return nil
	}
	if p.UserID != userID {
		m.log.Warn("stored plan belongs to another user", "plan_id", id)
		return nil
	}
	return p
}

func (m *Manager) storedStep(ctx context.Context) int {
	v, ok, err := m.resume.Load(ctx, resume.KeyStep)
	if err != nil || !ok {
		return FirstStep
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return FirstStep
	}
	return clampStep(n)
}

func clampStep(n int) int {
	return min(max(n, FirstStep), LastStep)
}

// mutate runs fn on the live plan under the lock and marks it dirty when
// fn reports a change.
func (m *Manager) mutate(fn func(p *plan.LessonPlan) (bool, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.plan == nil {
		return ErrNotLoaded
	}
	changed, err := fn(m.plan)
	if err != nil {
		return err
	}
	if changed {
		m.dirty = true
		m.rev++
	}
	return nil
}

// SetField merges one scalar field into the plan.
func (m *Manager) SetField(field plan.Field, value string) error {
	return m.mutate(func(p *plan.LessonPlan) (bool, error) {
		if err := p.Set(field, value); err != nil {
			return false, err
		}
		return true, nil
	})
}

// UpdateSections replaces the whole sections record.
func (m *Manager) UpdateSections(secs plan.Sections) error {
	return m.mutate(func(p *plan.LessonPlan) (bool, error) {
		p.Sections = secs.Clone()
		return true, nil
	})
}

// AddSection appends an empty section to phase.
func (m *Manager) AddSection(phase plan.Phase) error {
	if _, err := plan.ParsePhase(string(phase)); err != nil {
		return err
	}
	return m.mutate(func(p *plan.LessonPlan) (bool, error) {
		secs := append(p.Sections.Get(phase), plan.Section{})
		p.Sections = p.Sections.With(phase, secs)
		return true, nil
	})
}

// RemoveSection drops the section at index. An index outside the phase is
// ignored.
func (m *Manager) RemoveSection(phase plan.Phase, index int) error {
	if _, err := plan.ParsePhase(string(phase)); err != nil {
		return err
	}
	return m.mutate(func(p *plan.LessonPlan) (bool, error) {
		secs := p.Sections.Get(phase)
		if index < 0 || index >= len(secs) {
			return false, nil
		}
		kept := make([]plan.Section, 0, len(secs)-1)
		for i, s := range secs {
			if i != index {
				kept = append(kept, s)
			}
		}
		p.Sections = p.Sections.With(phase, kept)
		return true, nil
	})
}

// SectionPatch is a partial edit of one section. Enum values may be codes
// or Hebrew labels.
type SectionPatch struct {
	Content    *string `json:"content,omitempty"`
	Screen1    *string `json:"screen1,omitempty"`
	Screen2    *string `json:"screen2,omitempty"`
	Screen3    *string `json:"screen3,omitempty"`
	SpaceUsage *string `json:"spaceUsage,omitempty"`
}

// Updates expands the patch into field updates for the section at index.
func (sp SectionPatch) Updates(phase plan.Phase, index int) []plan.Update {
	var out []plan.Update
	add := func(f plan.SectionField, v *string) {
		if v != nil {
			out = append(out, plan.SectionFieldUpdate{Phase: phase, Index: index, Field: f, Value: *v})
		}
	}
	add(plan.SectionContent, sp.Content)
	add(plan.SectionScreen1, sp.Screen1)
	add(plan.SectionScreen2, sp.Screen2)
	add(plan.SectionScreen3, sp.Screen3)
	add(plan.SectionSpaceUsage, sp.SpaceUsage)
	return out
}

// UpdateSection applies a partial edit to one section.
func (m *Manager) UpdateSection(phase plan.Phase, index int, patch SectionPatch) error {
	if _, err := plan.ParsePhase(string(phase)); err != nil {
		return err
	}
	m.mu.Lock()
	n := -1
	if m.plan != nil {
		n = len(m.plan.Sections.Get(phase))
	}
	m.mu.Unlock()
	if n >= 0 && (index < 0 || index >= n) {
		return fmt.Errorf("%w: %s.%d", plan.ErrIndexOutOfRange, phase, index)
	}
	return m.ApplyUpdates(patch.Updates(phase, index)...)
}

// ApplyUpdates applies a batch of field updates atomically. An invalid
// batch leaves the plan untouched.
func (m *Manager) ApplyUpdates(updates ...plan.Update) error {
	return m.mutate(func(p *plan.LessonPlan) (bool, error) {
		if len(updates) == 0 {
			return false, nil
		}
		next, err := plan.Apply(p, updates...)
		if err != nil {
			return false, err
		}
		*p = *next
		return true, nil
	})
}

// Save writes the current plan to the repository. A call made while
// another save is outstanding returns nil without writing.
func (m *Manager) Save(ctx context.Context) error {
	m.mu.Lock()
	if m.plan == nil || m.saving {
		m.mu.Unlock()
		return nil
	}
	m.saving = true
	id := m.plan.ID
	patch := plan.PatchFrom(m.plan)
	rev := m.rev
	m.mu.Unlock()

	// A save outlives the request or screen that started it; only the
	// timeout bounds it.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), SaveTimeout)
	defer cancel()
	err := m.repo.Update(saveCtx, id, patch)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.saving = false
	if err != nil {
		m.errMsg = SaveErrorMessage
		m.log.Error("save lesson plan failed", "plan_id", id, "error", err)
		return fmt.Errorf("save lesson plan: %w", err)
	}
	m.lastSaved = m.now()
	m.errMsg = ""
	if m.rev == rev {
		m.dirty = false
	}
	m.log.Debug("saved lesson plan", "plan_id", id)
	return nil
}

// Step returns the current wizard step.
func (m *Manager) Step() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// SetStep moves the wizard to fn(current), clamped to the valid range, and
// records it in the resume store. It returns the new step.
func (m *Manager) SetStep(ctx context.Context, fn func(int) int) int {
	m.mu.Lock()
	m.step = clampStep(fn(m.step))
	step := m.step
	m.mu.Unlock()

	if err := m.resume.Save(ctx, resume.KeyStep, strconv.Itoa(step)); err != nil {
		m.log.Warn("record step failed", "step", step, "error", err)
	}
	return step
}

// Next saves and then advances one step. A failed save leaves the step
// unchanged.
func (m *Manager) Next(ctx context.Context) (int, error) {
	return m.moveAfterSave(ctx, 1)
}

// Previous saves and then goes back one step. A failed save leaves the
// step unchanged.
func (m *Manager) Previous(ctx context.Context) (int, error) {
	return m.moveAfterSave(ctx, -1)
}

func (m *Manager) moveAfterSave(ctx context.Context, delta int) (int, error) {
	if err := m.Save(ctx); err != nil {
		return m.Step(), err
	}
	return m.SetStep(ctx, func(s int) int { return s + delta }), nil
}

// Refresh re-reads the plan from the repository. It does nothing while the
// plan has unsaved edits or a save is in flight, and reports whether the
// plan was replaced.
func (m *Manager) Refresh(ctx context.Context) (bool, error) {
	m.mu.Lock()
	if m.plan == nil || m.dirty || m.saving {
		m.mu.Unlock()
		return false, nil
	}
	id := m.plan.ID
	rev := m.rev
	m.mu.Unlock()

	fresh, err := m.repo.Get(ctx, id)
	if err != nil {
		return false, fmt.Errorf("refresh lesson plan: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rev != rev || m.saving {
		return false, nil
	}
	m.plan = fresh
	m.rev++
	return true, nil
}

// Plan returns a copy of the current plan, or nil before Load.
func (m *Manager) Plan() *plan.LessonPlan {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plan.Clone()
}

// State returns a snapshot for presentation.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := State{
		Plan:    m.plan.Clone(),
		Step:    m.step,
		Dirty:   m.dirty,
		Saving:  m.saving,
		Loading: m.loading,
		Error:   m.errMsg,
	}
	if !m.lastSaved.IsZero() {
		t := m.lastSaved
		s.LastSaved = &t
	}
	return s
}

// FieldLabels returns the label of every addressable field path.
func (m *Manager) FieldLabels() map[string]string {
	p := m.Plan()
	if p == nil {
		return map[string]string{}
	}
	return plan.FieldLabels(p)
}

// FieldValues returns the current value of every addressable field path.
func (m *Manager) FieldValues() map[string]string {
	p := m.Plan()
	if p == nil {
		return map[string]string{}
	}
	return plan.FieldValues(p)
}

// ExportText renders the current plan in the text export format.
func (m *Manager) ExportText() string {
	p := m.Plan()
	if p == nil {
		return ""
	}
	return export.Text(p)
}
