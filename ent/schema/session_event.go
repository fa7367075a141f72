package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionEvent records a drill starting or ending.
type SessionEvent struct {
	ent.Schema
}

func (SessionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (SessionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("UUID grouping a drill's events"),
		field.String("action").
			NotEmpty().
			Comment("start or end"),
		field.String("operator").
			NotEmpty(),
		field.Int("level"),
		field.Int("correct_answers").
			Default(0).
			Comment("Set on end only"),
		field.Int("wrong_answers").
			Default(0).
			Comment("Set on end only, timeouts included"),
		field.Int("timeouts").
			Default(0),
		field.Int("duration_secs").
			Default(0),
		field.String("export_path").
			Default("").
			Comment("Spreadsheet written at end, empty when the export failed"),
	}
}

func (SessionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("action"),
	}
}
