// Package plan defines the lesson plan document edited by the wizard and
// the field-path updates applied to it.
package plan

import (
	"fmt"
	"time"
)

// Field names one of the top-level scalar fields of a LessonPlan.
type Field string

const (
	FieldTopic          Field = "topic"
	FieldDuration       Field = "duration"
	FieldGradeLevel     Field = "gradeLevel"
	FieldPriorKnowledge Field = "priorKnowledge"
	FieldPosition       Field = "position"
	FieldContentGoals   Field = "contentGoals"
	FieldSkillGoals     Field = "skillGoals"
)

// Fields lists the scalar fields in wizard order.
var Fields = []Field{
	FieldTopic,
	FieldDuration,
	FieldGradeLevel,
	FieldPriorKnowledge,
	FieldPosition,
	FieldContentGoals,
	FieldSkillGoals,
}

var fieldLabels = map[Field]string{
	FieldTopic:          "נושא היחידה",
	FieldDuration:       "זמן כולל",
	FieldGradeLevel:     "שכבת גיל",
	FieldPriorKnowledge: "ידע קודם נדרש",
	FieldPosition:       "מיקום בתוכן",
	FieldContentGoals:   "מטרות ברמת התוכן",
	FieldSkillGoals:     "מטרות ברמת המיומנויות",
}

// Label returns the Hebrew display label of the field.
func (f Field) Label() string {
	return fieldLabels[f]
}

// Valid reports whether f is a known scalar field.
func (f Field) Valid() bool {
	_, ok := fieldLabels[f]
	return ok
}

// PositionOption is a suggested value for the position field.
type PositionOption struct {
	Value string
	Label string
}

// PositionOptions are the placements offered by the wizard. The field
// itself stays free text.
var PositionOptions = []PositionOption{
	{"opening", "פתיחת נושא"},
	{"teaching", "הקנייה"},
	{"practice", "תרגול"},
	{"summary", "סיכום נושא"},
}

// LessonPlan is the root document owned by one user.
type LessonPlan struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Topic          string    `json:"topic"`
	Duration       string    `json:"duration"`
	GradeLevel     string    `json:"gradeLevel"`
	PriorKnowledge string    `json:"priorKnowledge"`
	Position       string    `json:"position"`
	ContentGoals   string    `json:"contentGoals"`
	SkillGoals     string    `json:"skillGoals"`
	Sections       Sections  `json:"sections"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// New returns an empty draft owned by userID. Identity and timestamps are
// assigned by the repository on create.
func New(userID string) *LessonPlan {
	return &LessonPlan{
		UserID:   userID,
		Sections: EmptySections(),
	}
}

// Get returns the value of a scalar field.
func (p *LessonPlan) Get(f Field) string {
	switch f {
	case FieldTopic:
		return p.Topic
	case FieldDuration:
		return p.Duration
	case FieldGradeLevel:
		return p.GradeLevel
	case FieldPriorKnowledge:
		return p.PriorKnowledge
	case FieldPosition:
		return p.Position
	case FieldContentGoals:
		return p.ContentGoals
	case FieldSkillGoals:
		return p.SkillGoals
	}
	return ""
}

// Set assigns a scalar field.
func (p *LessonPlan) Set(f Field, value string) error {
	switch f {
	case FieldTopic:
		p.Topic = value
	case FieldDuration:
		p.Duration = value
	case FieldGradeLevel:
		p.GradeLevel = value
	case FieldPriorKnowledge:
		p.PriorKnowledge = value
	case FieldPosition:
		p.Position = value
	case FieldContentGoals:
		p.ContentGoals = value
	case FieldSkillGoals:
		p.SkillGoals = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, f)
	}
	return nil
}

// Clone returns a deep copy of the plan.
func (p *LessonPlan) Clone() *LessonPlan {
	if p == nil {
		return nil
	}
	c := *p
	c.Sections = p.Sections.Clone()
	return &c
}
