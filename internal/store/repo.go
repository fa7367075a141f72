package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries.
type QueryOpts struct {
	Limit int // max results (0 = unlimited)
}

// Session event actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
)

// SessionEventData captures a session lifecycle event.
type SessionEventData struct {
	SessionID string
	Action    string
	Operator  string
	Level     int

	// Totals, set on end only.
	Correct      int
	Wrong        int
	Timeouts     int
	DurationSecs int
	ExportPath   string
}

// AnswerEventData captures one scored outcome.
type AnswerEventData struct {
	SessionID     string
	ProblemText   string
	CorrectAnswer int
	Submitted     *int // nil when the countdown expired
	Correct       bool
	ElapsedTicks  int
}

// SessionSummaryRecord is a finished session as listed in history.
type SessionSummaryRecord struct {
	SessionID    string
	Timestamp    time.Time
	Operator     string
	Level        int
	Correct      int
	Wrong        int
	Timeouts     int
	DurationSecs int
	ExportPath   string
}

// AnswerEventRecord is a stored answer event.
type AnswerEventRecord struct {
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// EventRepo provides append and query access to the session journal.
type EventRepo interface {
	// AppendSessionEvent records a session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendAnswerEvent records a submission or timeout.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// QuerySessionSummaries returns finished sessions, newest first.
	QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error)

	// QueryAnswerEvents returns a session's answers in the order they happened.
	QueryAnswerEvents(ctx context.Context, sessionID string) ([]AnswerEventRecord, error)
}
