package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// LessonPlan is one teacher's plan for a lesson in the immersive room.
// The three phases and their sections are stored as one JSON document.
type LessonPlan struct {
	ent.Schema
}

func (LessonPlan) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Immutable().
			Comment("UUID assigned on create"),
		field.String("user_id").
			Immutable(),
		field.String("topic").Default(""),
		field.String("duration").Default(""),
		field.String("grade_level").Default(""),
		field.String("prior_knowledge").Default(""),
		field.String("position").Default("").
			Comment("Position of the lesson in the unit: opening, middle, summary"),
		field.String("content_goals").Default(""),
		field.String("skill_goals").Default(""),
		field.JSON("sections", map[string]any{}).
			Comment("opening, main and summary section lists"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

func (LessonPlan) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id"),
	}
}
