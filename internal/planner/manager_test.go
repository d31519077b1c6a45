package planner

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lessonroom/internal/plan"
	"github.com/abhisek/lessonroom/internal/resume"
)

// scriptedRepo wraps a MemoryRepo with injectable failures and a gate
// that holds Update until released.
type scriptedRepo struct {
	*MemoryRepo

	mu        sync.Mutex
	createErr error
	getErr    error
	updateErr error
	updates   int
	gate      chan struct{}
	entered   chan struct{}

	// Context state seen by the last Update.
	updateCtxErr   error
	updateDeadline bool
}

func newScriptedRepo() *scriptedRepo {
	return &scriptedRepo{MemoryRepo: NewMemoryRepo()}
}

func (r *scriptedRepo) Create(ctx context.Context, draft *plan.LessonPlan) (*plan.LessonPlan, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	return r.MemoryRepo.Create(ctx, draft)
}

func (r *scriptedRepo) Get(ctx context.Context, id string) (*plan.LessonPlan, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.MemoryRepo.Get(ctx, id)
}

func (r *scriptedRepo) Update(ctx context.Context, id string, patch plan.Patch) error {
	r.mu.Lock()
	r.updates++
	r.updateCtxErr = ctx.Err()
	_, r.updateDeadline = ctx.Deadline()
	gate, entered, err := r.gate, r.entered, r.updateErr
	r.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	if err != nil {
		return err
	}
	return r.MemoryRepo.Update(ctx, id, patch)
}

func (r *scriptedRepo) updateCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updates
}

func newTestManager(t *testing.T, repo PlanRepo, backend resume.Backend) *Manager {
	t.Helper()
	return New(repo, resume.Scope(backend, "client-1"))
}

func loaded(t *testing.T, repo PlanRepo, backend resume.Backend) *Manager {
	t.Helper()
	m := newTestManager(t, repo, backend)
	require.NoError(t, m.Load(context.Background(), "user-1"))
	return m
}

func TestLoad_CreatesWhenNothingStored(t *testing.T) {
	repo := newScriptedRepo()
	backend := resume.NewMemory()
	m := loaded(t, repo, backend)

	st := m.State()
	require.NotNil(t, st.Plan)
	assert.Equal(t, "user-1", st.Plan.UserID)
	assert.Equal(t, 1, st.Step)
	assert.False(t, st.Dirty)
	assert.False(t, st.Loading)

	id, ok, _ := backend.Get(context.Background(), "client-1", resume.KeyPlanID)
	assert.True(t, ok)
	assert.Equal(t, st.Plan.ID, id)
}

func TestLoad_ResumesOwnedPlanAndStep(t *testing.T) {
	ctx := context.Background()
	repo := newScriptedRepo()
	existing, err := repo.Create(ctx, &plan.LessonPlan{UserID: "user-1", Topic: "אקלים", Sections: plan.EmptySections()})
	require.NoError(t, err)

	backend := resume.NewMemory()
	require.NoError(t, backend.Set(ctx, "client-1", resume.KeyPlanID, existing.ID))
	require.NoError(t, backend.Set(ctx, "client-1", resume.KeyStep, "2"))

	m := loaded(t, repo, backend)
	st := m.State()
	assert.Equal(t, existing.ID, st.Plan.ID)
	assert.Equal(t, "אקלים", st.Plan.Topic)
	assert.Equal(t, 2, st.Step)
}

func TestLoad_ForeignPlanStartsFresh(t *testing.T) {
	ctx := context.Background()
	repo := newScriptedRepo()
	foreign, err := repo.Create(ctx, plan.New("user-2"))
	require.NoError(t, err)

	backend := resume.NewMemory()
	require.NoError(t, backend.Set(ctx, "client-1", resume.KeyPlanID, foreign.ID))
	require.NoError(t, backend.Set(ctx, "client-1", resume.KeyStep, "9"))

	m := loaded(t, repo, backend)
	st := m.State()
	assert.NotEqual(t, foreign.ID, st.Plan.ID)
	assert.Equal(t, "user-1", st.Plan.UserID)
	assert.Equal(t, 3, st.Step, "stored step is clamped")
}

func TestLoad_MissingOrFailingFetchStartsFresh(t *testing.T) {
	ctx := context.Background()
	backend := resume.NewMemory()
	require.NoError(t, backend.Set(ctx, "client-1", resume.KeyPlanID, "gone"))

	repo := newScriptedRepo()
	m := loaded(t, repo, backend)
	assert.NotEqual(t, "gone", m.State().Plan.ID)

	repo2 := newScriptedRepo()
	repo2.getErr = errors.New("network down")
	m2 := loaded(t, repo2, backend)
	assert.NotNil(t, m2.State().Plan)
}

func TestLoad_CreateFailure(t *testing.T) {
	repo := newScriptedRepo()
	repo.createErr = errors.New("insert failed")
	m := newTestManager(t, repo, resume.NewMemory())

	err := m.Load(context.Background(), "user-1")
	require.Error(t, err)
	st := m.State()
	assert.Nil(t, st.Plan)
	assert.Equal(t, LoadErrorMessage, st.Error)
	assert.False(t, st.Loading)
	assert.ErrorIs(t, m.SetField(plan.FieldTopic, "x"), ErrNotLoaded)
}

func TestEditsMarkDirtyWithoutSaving(t *testing.T) {
	repo := newScriptedRepo()
	m := loaded(t, repo, resume.NewMemory())

	require.NoError(t, m.SetField(plan.FieldTopic, "מחזור המים"))
	require.NoError(t, m.AddSection(plan.PhaseOpening))
	require.NoError(t, m.AddSection(plan.PhaseOpening))

	st := m.State()
	assert.True(t, st.Dirty)
	assert.Equal(t, "מחזור המים", st.Plan.Topic)
	assert.Len(t, st.Plan.Sections.Opening, 2)
	assert.Equal(t, 0, repo.updateCount())

	assert.ErrorIs(t, m.SetField(plan.Field("color"), "x"), plan.ErrUnknownField)
}

func TestRemoveSection(t *testing.T) {
	m := loaded(t, newScriptedRepo(), resume.NewMemory())
	for i := 0; i < 3; i++ {
		require.NoError(t, m.AddSection(plan.PhaseMain))
	}
	content := []string{"a", "b", "c"}
	for i, c := range content {
		require.NoError(t, m.UpdateSection(plan.PhaseMain, i, SectionPatch{Content: &c}))
	}

	require.NoError(t, m.RemoveSection(plan.PhaseMain, 1))
	secs := m.Plan().Sections.Main
	require.Len(t, secs, 2)
	assert.Equal(t, "a", secs[0].Content)
	assert.Equal(t, "c", secs[1].Content)

	require.NoError(t, m.RemoveSection(plan.PhaseMain, 7))
	assert.Len(t, m.Plan().Sections.Main, 2)
}

func TestUpdateSection(t *testing.T) {
	m := loaded(t, newScriptedRepo(), resume.NewMemory())
	require.NoError(t, m.AddSection(plan.PhaseSummary))

	screen := "סרטון"
	usage := "groups"
	require.NoError(t, m.UpdateSection(plan.PhaseSummary, 0, SectionPatch{Screen2: &screen, SpaceUsage: &usage}))

	sec := m.Plan().Sections.Summary[0]
	assert.Equal(t, plan.DisplayVideo, sec.Screens.Screen2)
	assert.Equal(t, plan.SpaceGroups, sec.SpaceUsage)

	assert.ErrorIs(t, m.UpdateSection(plan.PhaseSummary, 3, SectionPatch{Screen1: &screen}), plan.ErrIndexOutOfRange)

	bad := "hologram"
	assert.ErrorIs(t, m.UpdateSection(plan.PhaseSummary, 0, SectionPatch{Screen1: &bad}), plan.ErrInvalidValue)
}

func TestApplyUpdates_Atomic(t *testing.T) {
	m := loaded(t, newScriptedRepo(), resume.NewMemory())
	require.NoError(t, m.AddSection(plan.PhaseOpening))

	err := m.ApplyUpdates(
		plan.ScalarFieldUpdate{Field: plan.FieldTopic, Value: "חדש"},
		plan.SectionFieldUpdate{Phase: plan.PhaseOpening, Index: 4, Field: plan.SectionContent, Value: "x"},
	)
	require.ErrorIs(t, err, plan.ErrIndexOutOfRange)
	assert.Empty(t, m.Plan().Topic)
}

func TestSave_PersistsAndClearsDirty(t *testing.T) {
	ctx := context.Background()
	repo := newScriptedRepo()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	m := New(repo, resume.Scope(resume.NewMemory(), "c"), WithClock(func() time.Time { return now }))
	require.NoError(t, m.Load(ctx, "user-1"))

	require.NoError(t, m.SetField(plan.FieldDuration, "90 דקות"))
	require.NoError(t, m.Save(ctx))

	st := m.State()
	assert.False(t, st.Dirty)
	require.NotNil(t, st.LastSaved)
	assert.Equal(t, now, *st.LastSaved)

	stored, err := repo.Get(ctx, st.Plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "90 דקות", stored.Duration)
}

func TestSave_FailureKeepsDirty(t *testing.T) {
	repo := newScriptedRepo()
	m := loaded(t, repo, resume.NewMemory())
	require.NoError(t, m.SetField(plan.FieldTopic, "x"))

	repo.updateErr = errors.New("timeout")
	require.Error(t, m.Save(context.Background()))
	st := m.State()
	assert.True(t, st.Dirty)
	assert.Equal(t, SaveErrorMessage, st.Error)

	repo.updateErr = nil
	require.NoError(t, m.Save(context.Background()))
	assert.Empty(t, m.State().Error)
}

func TestSave_SingleFlight(t *testing.T) {
	repo := newScriptedRepo()
	m := loaded(t, repo, resume.NewMemory())
	require.NoError(t, m.SetField(plan.FieldTopic, "first"))

	repo.gate = make(chan struct{})
	repo.entered = make(chan struct{}, 1)

	done := make(chan error, 1)
	go func() { done <- m.Save(context.Background()) }()
	<-repo.entered

	assert.True(t, m.State().Saving)
	assert.NoError(t, m.Save(context.Background()), "overlapping save returns immediately")

	// An edit during the save keeps the plan dirty afterwards.
	require.NoError(t, m.SetField(plan.FieldTopic, "second"))

	close(repo.gate)
	require.NoError(t, <-done)
	assert.Equal(t, 1, repo.updateCount())
	assert.True(t, m.State().Dirty)
}

func TestSave_OutlivesCancelledCaller(t *testing.T) {
	repo := newScriptedRepo()
	m := loaded(t, repo, resume.NewMemory())
	require.NoError(t, m.SetField(plan.FieldTopic, "נשמר למרות ניתוק"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, m.Save(ctx))

	assert.NoError(t, repo.updateCtxErr)
	assert.True(t, repo.updateDeadline, "save runs under its own timeout")
	assert.False(t, m.State().Dirty)
	stored, err := repo.Get(context.Background(), m.Plan().ID)
	require.NoError(t, err)
	assert.Equal(t, "נשמר למרות ניתוק", stored.Topic)
}

func TestNext_CancelledCallerStillSavesAndSteps(t *testing.T) {
	repo := newScriptedRepo()
	m := loaded(t, repo, resume.NewMemory())
	require.NoError(t, m.SetField(plan.FieldDuration, "45 דקות"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	step, err := m.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, step)
	assert.Equal(t, 1, repo.updateCount())
	assert.False(t, m.State().Dirty)
}

func TestNextPrevious(t *testing.T) {
	ctx := context.Background()
	repo := newScriptedRepo()
	backend := resume.NewMemory()
	m := loaded(t, repo, backend)

	step, err := m.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, step)
	step, _ = m.Next(ctx)
	assert.Equal(t, 3, step)
	step, _ = m.Next(ctx)
	assert.Equal(t, 3, step, "step is clamped at the last step")

	v, _, _ := backend.Get(ctx, "client-1", resume.KeyStep)
	assert.Equal(t, "3", v)

	repo.updateErr = errors.New("down")
	step, err = m.Previous(ctx)
	require.Error(t, err)
	assert.Equal(t, 3, step, "failed save blocks navigation")

	repo.updateErr = nil
	step, err = m.Previous(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, step)
	assert.Equal(t, 5, repo.updateCount())
}

func TestSetStep_Clamps(t *testing.T) {
	m := loaded(t, newScriptedRepo(), resume.NewMemory())
	assert.Equal(t, 1, m.SetStep(context.Background(), func(int) int { return -4 }))
	assert.Equal(t, 3, m.SetStep(context.Background(), func(s int) int { return s + 10 }))
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	repo := newScriptedRepo()
	m := loaded(t, repo, resume.NewMemory())
	id := m.Plan().ID

	topic := "מעודכן בלשונית אחרת"
	require.NoError(t, repo.MemoryRepo.Update(ctx, id, plan.Patch{Topic: &topic}))

	require.NoError(t, m.SetField(plan.FieldDuration, "local"))
	refreshed, err := m.Refresh(ctx)
	require.NoError(t, err)
	assert.False(t, refreshed, "dirty plan is not replaced")
	assert.Equal(t, "local", m.Plan().Duration)

	require.NoError(t, m.Save(ctx))
	require.NoError(t, repo.MemoryRepo.Update(ctx, id, plan.Patch{Topic: &topic}))
	refreshed, err = m.Refresh(ctx)
	require.NoError(t, err)
	assert.True(t, refreshed)
	assert.Equal(t, topic, m.Plan().Topic)
}

func TestFieldLabelsAndExport(t *testing.T) {
	m := New(newScriptedRepo(), resume.Scope(resume.NewMemory(), "c"))
	assert.Empty(t, m.FieldLabels())
	assert.Empty(t, m.ExportText())

	require.NoError(t, m.Load(context.Background(), "user-1"))
	require.NoError(t, m.AddSection(plan.PhaseMain))
	labels := m.FieldLabels()
	assert.Equal(t, "נושא היחידה", labels["topic"])
	assert.Equal(t, "גוף השיעור - פעילות 1 - תוכן", labels["main.0.content"])

	require.NoError(t, m.SetField(plan.FieldTopic, "אור"))
	assert.Equal(t, "אור", m.FieldValues()["topic"])
	assert.Contains(t, m.ExportText(), "תכנית שיעור: אור\n\n")
}

func TestScenario_NewPlanToExport(t *testing.T) {
	m := loaded(t, newScriptedRepo(), resume.NewMemory())
	require.NoError(t, m.SetField(plan.FieldTopic, "Ecosystems"))
	require.NoError(t, m.AddSection(plan.PhaseOpening))

	out := m.ExportText()
	assert.True(t, strings.HasPrefix(out, "תכנית שיעור: Ecosystems"), "export starts with the topic line")
	assert.Contains(t, out, "== פתיחה ==\n\nפעילות 1:\nתוכן: \nמסך 1: \nמסך 2: \nמסך 3: \nארגון הלומדים: \n")
	assert.NotContains(t, out, "פעילות 2:")
	assert.Equal(t, out, m.ExportText(), "export is stable without mutation")
}
