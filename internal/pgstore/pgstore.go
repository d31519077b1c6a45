// Package pgstore persists lesson plans in the hosted Postgres database
// shared with the browser deployment.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/abhisek/lessonroom/internal/plan"
)

// lessonPlanRow maps the lesson_plans table. user_id is free text: owners
// come from the terminal login name or a JWT subject, neither of which is
// guaranteed to be a UUID.
type lessonPlanRow struct {
	ID             string         `gorm:"column:id;type:uuid;primaryKey"`
	UserID         string         `gorm:"column:user_id;type:text;not null;index"`
	Topic          string         `gorm:"column:topic;not null;default:''"`
	Duration       string         `gorm:"column:duration;not null;default:''"`
	GradeLevel     string         `gorm:"column:grade_level;not null;default:''"`
	PriorKnowledge string         `gorm:"column:prior_knowledge;not null;default:''"`
	Position       string         `gorm:"column:position;not null;default:''"`
	ContentGoals   string         `gorm:"column:content_goals;not null;default:''"`
	SkillGoals     string         `gorm:"column:skill_goals;not null;default:''"`
	Sections       datatypes.JSON `gorm:"column:sections;type:jsonb;not null"`
	CreatedAt      time.Time      `gorm:"column:created_at;not null"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;not null"`
}

func (lessonPlanRow) TableName() string { return "lesson_plans" }

var fieldColumns = map[plan.Field]string{
	plan.FieldTopic:          "topic",
	plan.FieldDuration:       "duration",
	plan.FieldGradeLevel:     "grade_level",
	plan.FieldPriorKnowledge: "prior_knowledge",
	plan.FieldPosition:       "position",
	plan.FieldContentGoals:   "content_goals",
	plan.FieldSkillGoals:     "skill_goals",
}

// Repo implements the plan repository on gorm.
type Repo struct {
	db  *gorm.DB
	now func() time.Time
}

// Open connects to Postgres at dsn and migrates the lesson_plans table.
func Open(dsn string) (*Repo, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&lessonPlanRow{}); err != nil {
		return nil, fmt.Errorf("migrate lesson_plans: %w", err)
	}
	return New(db), nil
}

// New wraps an existing gorm handle.
func New(db *gorm.DB) *Repo {
	return &Repo{db: db, now: time.Now}
}

// Close closes the underlying connection pool.
func (r *Repo) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *Repo) Create(ctx context.Context, draft *plan.LessonPlan) (*plan.LessonPlan, error) {
	p := draft.Clone()
	p.ID = uuid.NewString()
	p.CreatedAt = r.now().UTC()
	p.UpdatedAt = p.CreatedAt

	row, err := toRow(p)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, fmt.Errorf("insert lesson plan: %w", err)
	}
	return p, nil
}

func (r *Repo) Get(ctx context.Context, id string) (*plan.LessonPlan, error) {
	var row lessonPlanRow
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", plan.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query lesson plan: %w", err)
	}
	return fromRow(&row)
}

func (r *Repo) Update(ctx context.Context, id string, patch plan.Patch) error {
	cols, err := patchColumns(patch)
	if err != nil {
		return err
	}
	cols["updated_at"] = r.now().UTC()

	res := r.db.WithContext(ctx).Model(&lessonPlanRow{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("update lesson plan: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", plan.ErrNotFound, id)
	}
	return nil
}

func toRow(p *plan.LessonPlan) (*lessonPlanRow, error) {
	sections, err := json.Marshal(p.Sections)
	if err != nil {
		return nil, fmt.Errorf("encode sections: %w", err)
	}
	return &lessonPlanRow{
		ID:             p.ID,
		UserID:         p.UserID,
		Topic:          p.Topic,
		Duration:       p.Duration,
		GradeLevel:     p.GradeLevel,
		PriorKnowledge: p.PriorKnowledge,
		Position:       p.Position,
		ContentGoals:   p.ContentGoals,
		SkillGoals:     p.SkillGoals,
		Sections:       datatypes.JSON(sections),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}, nil
}

func fromRow(row *lessonPlanRow) (*plan.LessonPlan, error) {
	p := &plan.LessonPlan{
		ID:             row.ID,
		UserID:         row.UserID,
		Topic:          row.Topic,
		Duration:       row.Duration,
		GradeLevel:     row.GradeLevel,
		PriorKnowledge: row.PriorKnowledge,
		Position:       row.Position,
		ContentGoals:   row.ContentGoals,
		SkillGoals:     row.SkillGoals,
		Sections:       plan.EmptySections(),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	if len(row.Sections) > 0 {
		if err := json.Unmarshal(row.Sections, &p.Sections); err != nil {
			return nil, fmt.Errorf("decode sections of %s: %w", row.ID, err)
		}
	}
	return p, nil
}

// patchColumns maps the set fields of patch to column updates.
func patchColumns(patch plan.Patch) (map[string]any, error) {
	cols := make(map[string]any)
	for f, v := range patch.Scalars() {
		cols[fieldColumns[f]] = v
	}
	if patch.Sections != nil {
		data, err := json.Marshal(*patch.Sections)
		if err != nil {
			return nil, fmt.Errorf("encode sections: %w", err)
		}
		cols["sections"] = datatypes.JSON(data)
	}
	return cols, nil
}
