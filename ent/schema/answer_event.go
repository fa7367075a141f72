package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AnswerEvent records one scored submission or timeout.
type AnswerEvent struct {
	ent.Schema
}

func (AnswerEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AnswerEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("Links to SessionEvent"),
		field.String("problem_text").
			NotEmpty().
			Comment("Problem as shown, e.g. 12-5"),
		field.Int("correct_answer"),
		field.Int("submitted_answer").
			Optional().
			Nillable().
			Comment("NULL when the countdown expired"),
		field.Bool("correct"),
		field.Int("elapsed_ticks").
			Comment("Countdown ticks used"),
	}
}

func (AnswerEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("correct"),
	}
}
