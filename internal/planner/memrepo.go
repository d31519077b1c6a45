package planner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/lessonroom/internal/plan"
)

// MemoryRepo is an in-process PlanRepo used by tests and by `serve` with
// the memory store driver.
type MemoryRepo struct {
	mu    sync.Mutex
	plans map[string]*plan.LessonPlan
	now   func() time.Time
}

// NewMemoryRepo returns an empty repository.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{plans: make(map[string]*plan.LessonPlan), now: time.Now}
}

func (r *MemoryRepo) Create(_ context.Context, draft *plan.LessonPlan) (*plan.LessonPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := draft.Clone()
	p.ID = uuid.NewString()
	p.CreatedAt = r.now().UTC()
	p.UpdatedAt = p.CreatedAt
	r.plans[p.ID] = p
	return p.Clone(), nil
}

func (r *MemoryRepo) Get(_ context.Context, id string) (*plan.LessonPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", plan.ErrNotFound, id)
	}
	return p.Clone(), nil
}

func (r *MemoryRepo) Update(_ context.Context, id string, patch plan.Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return fmt.Errorf("%w: %s", plan.ErrNotFound, id)
	}
	patch.ApplyTo(p)
	p.UpdatedAt = r.now().UTC()
	return nil
}
