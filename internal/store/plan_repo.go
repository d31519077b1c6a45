package store

import (
	"context"
	stdsql "database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/lessonroom/internal/plan"
)

var planColumns = []string{
	"id", "user_id", "topic", "duration", "grade_level", "prior_knowledge",
	"position", "content_goals", "skill_goals", "sections", "created_at", "updated_at",
}

var fieldColumns = map[plan.Field]string{
	plan.FieldTopic:          "topic",
	plan.FieldDuration:       "duration",
	plan.FieldGradeLevel:     "grade_level",
	plan.FieldPriorKnowledge: "prior_knowledge",
	plan.FieldPosition:       "position",
	plan.FieldContentGoals:   "content_goals",
	plan.FieldSkillGoals:     "skill_goals",
}

// PlanRepo persists lesson plan documents in SQLite.
type PlanRepo struct {
	drv dialect.Driver
	now func() time.Time
}

// Create inserts draft as a new plan with a fresh id and timestamps.
func (r *PlanRepo) Create(ctx context.Context, draft *plan.LessonPlan) (*plan.LessonPlan, error) {
	p := draft.Clone()
	p.ID = uuid.NewString()
	p.CreatedAt = r.now().UTC()
	p.UpdatedAt = p.CreatedAt

	sections, err := json.Marshal(p.Sections)
	if err != nil {
		return nil, fmt.Errorf("encode sections: %w", err)
	}

	query, args := sql.Dialect(dialect.SQLite).
		Insert(tableLessonPlans).
		Columns(planColumns...).
		Values(p.ID, p.UserID, p.Topic, p.Duration, p.GradeLevel, p.PriorKnowledge,
			p.Position, p.ContentGoals, p.SkillGoals, string(sections), p.CreatedAt, p.UpdatedAt).
		Query()

	var res stdsql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return nil, fmt.Errorf("insert lesson plan: %w", err)
	}
	return p, nil
}

// Get returns the plan with the given id or plan.ErrNotFound.
func (r *PlanRepo) Get(ctx context.Context, id string) (*plan.LessonPlan, error) {
	b := sql.Dialect(dialect.SQLite)
	query, args := b.Select(planColumns...).
		From(b.Table(tableLessonPlans)).
		Where(sql.EQ("id", id)).
		Limit(1).
		Query()

	var rows sql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query lesson plan: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query lesson plan: %w", err)
		}
		return nil, fmt.Errorf("%w: %s", plan.ErrNotFound, id)
	}

	var (
		p        plan.LessonPlan
		sections string
	)
	if err := rows.Scan(&p.ID, &p.UserID, &p.Topic, &p.Duration, &p.GradeLevel, &p.PriorKnowledge,
		&p.Position, &p.ContentGoals, &p.SkillGoals, &sections, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scan lesson plan: %w", err)
	}
	if err := json.Unmarshal([]byte(sections), &p.Sections); err != nil {
		return nil, fmt.Errorf("decode sections of %s: %w", id, err)
	}
	return &p, nil
}

// Update applies the set fields of patch to the plan with the given id.
func (r *PlanRepo) Update(ctx context.Context, id string, patch plan.Patch) error {
	u := sql.Dialect(dialect.SQLite).Update(tableLessonPlans)
	for f, v := range patch.Scalars() {
		u.Set(fieldColumns[f], v)
	}
	if patch.Sections != nil {
		data, err := json.Marshal(*patch.Sections)
		if err != nil {
			return fmt.Errorf("encode sections: %w", err)
		}
		u.Set("sections", string(data))
	}
	u.Set("updated_at", r.now().UTC())

	query, args := u.Where(sql.EQ("id", id)).Query()

	var res stdsql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("update lesson plan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lesson plan: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", plan.ErrNotFound, id)
	}
	return nil
}
