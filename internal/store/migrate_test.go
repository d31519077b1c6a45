package store

import (
	"slices"
	"testing"

	"entgo.io/ent"
	sqlschema "entgo.io/ent/dialect/sql/schema"

	entschema "github.com/abhisek/lessonroom/ent/schema"
)

type entity interface {
	Fields() []ent.Field
	Mixin() []ent.Mixin
}

func fieldNames(e entity) []string {
	var names []string
	for _, m := range e.Mixin() {
		for _, f := range m.Fields() {
			names = append(names, f.Descriptor().Name)
		}
	}
	for _, f := range e.Fields() {
		names = append(names, f.Descriptor().Name)
	}
	return names
}

func columnNames(t *sqlschema.Table) []string {
	var names []string
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

func TestTablesMatchEntSchema(t *testing.T) {
	tests := []struct {
		table  *sqlschema.Table
		entity entity
		autoID bool
	}{
		{lessonPlansTable, entschema.LessonPlan{}, false},
		{resumeKeysTable, entschema.ResumeKey{}, true},
		{llmEventsTable, entschema.LLMRequestEvent{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.table.Name, func(t *testing.T) {
			want := fieldNames(tt.entity)
			if tt.autoID {
				want = append([]string{"id"}, want...)
			}
			got := columnNames(tt.table)
			if !slices.Equal(got, want) {
				t.Errorf("columns = %v, want %v", got, want)
			}
		})
	}
}
