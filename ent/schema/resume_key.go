package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ResumeKey is one client-scoped value, such as the active plan id or the
// wizard step.
type ResumeKey struct {
	ent.Schema
}

func (ResumeKey) Fields() []ent.Field {
	return []ent.Field{
		field.String("client_id"),
		field.String("key"),
		field.String("value"),
		field.Time("updated_at"),
	}
}

func (ResumeKey) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("client_id", "key").Unique(),
	}
}
