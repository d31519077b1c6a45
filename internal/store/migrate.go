package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableLessonPlans = "lesson_plans"
	tableResumeKeys  = "resume_keys"
	tableLLMEvents   = "llm_request_events"
)

var (
	lessonPlansColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "topic", Type: field.TypeString, Default: ""},
		{Name: "duration", Type: field.TypeString, Default: ""},
		{Name: "grade_level", Type: field.TypeString, Default: ""},
		{Name: "prior_knowledge", Type: field.TypeString, Default: ""},
		{Name: "position", Type: field.TypeString, Default: ""},
		{Name: "content_goals", Type: field.TypeString, Default: ""},
		{Name: "skill_goals", Type: field.TypeString, Default: ""},
		{Name: "sections", Type: field.TypeJSON},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	lessonPlansTable = &schema.Table{
		Name:       tableLessonPlans,
		Columns:    lessonPlansColumns,
		PrimaryKey: []*schema.Column{lessonPlansColumns[0]},
		Indexes: []*schema.Index{
			{Name: "lessonplan_user_id", Columns: []*schema.Column{lessonPlansColumns[1]}},
		},
	}

	resumeKeysColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "client_id", Type: field.TypeString},
		{Name: "key", Type: field.TypeString},
		{Name: "value", Type: field.TypeString},
		{Name: "updated_at", Type: field.TypeTime},
	}
	resumeKeysTable = &schema.Table{
		Name:       tableResumeKeys,
		Columns:    resumeKeysColumns,
		PrimaryKey: []*schema.Column{resumeKeysColumns[0]},
		Indexes: []*schema.Index{
			{Name: "resumekey_client_id_key", Unique: true, Columns: []*schema.Column{resumeKeysColumns[1], resumeKeysColumns[2]}},
		},
	}

	llmEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmEventsTable = &schema.Table{
		Name:       tableLLMEvents,
		Columns:    llmEventsColumns,
		PrimaryKey: []*schema.Column{llmEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmEventsColumns[5]}},
		},
	}

	tables = []*schema.Table{lessonPlansTable, resumeKeysTable, llmEventsTable}
)

// migrate creates or alters the tables to match the declared schema.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, tables...)
}
