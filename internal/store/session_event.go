package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert("session_events").
		Columns(
			"sequence", "timestamp", "session_id", "action", "operator", "level",
			"correct_answers", "wrong_answers", "timeouts", "duration_secs", "export_path",
		).
		Values(
			seqNum, r.now(), data.SessionID, data.Action, data.Operator, data.Level,
			data.Correct, data.Wrong, data.Timeouts, data.DurationSecs, data.ExportPath,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	var submitted sql.NullInt64
	if data.Submitted != nil {
		submitted = sql.NullInt64{Int64: int64(*data.Submitted), Valid: true}
	}

	query, args := builder().Insert("answer_events").
		Columns(
			"sequence", "timestamp", "session_id", "problem_text", "correct_answer",
			"submitted_answer", "correct", "elapsed_ticks",
		).
		Values(
			seqNum, r.now(), data.SessionID, data.ProblemText, data.CorrectAnswer,
			submitted, data.Correct, data.ElapsedTicks,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error) {
	b := builder()
	sel := b.Select(
		"session_id", "timestamp", "operator", "level", "correct_answers",
		"wrong_answers", "timeouts", "duration_secs", "export_path",
	).
		From(b.Table("session_events")).
		Where(entsql.EQ("action", ActionEnd)).
		OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}
	defer rows.Close()

	var records []SessionSummaryRecord
	for rows.Next() {
		var rec SessionSummaryRecord
		if err := rows.Scan(
			&rec.SessionID, &rec.Timestamp, &rec.Operator, &rec.Level, &rec.Correct,
			&rec.Wrong, &rec.Timeouts, &rec.DurationSecs, &rec.ExportPath,
		); err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}
	return records, nil
}

func (r *eventRepo) QueryAnswerEvents(ctx context.Context, sessionID string) ([]AnswerEventRecord, error) {
	b := builder()
	query, args := b.Select(
		"sequence", "timestamp", "session_id", "problem_text", "correct_answer",
		"submitted_answer", "correct", "elapsed_ticks",
	).
		From(b.Table("answer_events")).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy(entsql.Asc("sequence")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var records []AnswerEventRecord
	for rows.Next() {
		var rec AnswerEventRecord
		var submitted sql.NullInt64
		if err := rows.Scan(
			&rec.Sequence, &rec.Timestamp, &rec.SessionID, &rec.ProblemText, &rec.CorrectAnswer,
			&submitted, &rec.Correct, &rec.ElapsedTicks,
		); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		if submitted.Valid {
			n := int(submitted.Int64)
			rec.Submitted = &n
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	return records, nil
}

// eventRepo implements EventRepo on the tables declared in ent/schema.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) now() time.Time {
	return time.Now().UTC()
}
