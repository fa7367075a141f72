package session

import "time"

// SessionRecord is one scored outcome: a parsed submission or a timeout.
type SessionRecord struct {
	// ProblemText is the problem as rendered by Problem.Text, e.g. "12-5".
	ProblemText string

	// CorrectAnswer is the expected answer. Not exported to the spreadsheet.
	CorrectAnswer int

	// Submitted is the learner's answer, nil when the countdown expired.
	Submitted *int

	// ElapsedTicks is budget minus remaining at submission time, or the
	// full budget on timeout.
	ElapsedTicks int

	Correct bool
	At      time.Time
}

// TimedOut reports whether the record was produced by an expired countdown.
func (r SessionRecord) TimedOut() bool {
	return r.Submitted == nil
}

// Exporter writes a session's records somewhere durable and returns where.
type Exporter interface {
	Export(records []SessionRecord, now time.Time) (string, error)
}

// Recorder is the append-only record list for a session.
type Recorder struct {
	records []SessionRecord
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Append adds a record.
func (r *Recorder) Append(rec SessionRecord) {
	r.records = append(r.records, rec)
}

// Records returns a copy of the records in append order.
func (r *Recorder) Records() []SessionRecord {
	out := make([]SessionRecord, len(r.records))
	copy(out, r.records)
	return out
}

// Last returns the most recent record.
func (r *Recorder) Last() (SessionRecord, bool) {
	if len(r.records) == 0 {
		return SessionRecord{}, false
	}
	return r.records[len(r.records)-1], true
}

// Export hands a snapshot of the records to the exporter. Errors are
// returned as-is; there is no retry.
func (r *Recorder) Export(exporter Exporter, now time.Time) (string, error) {
	return exporter.Export(r.Records(), now)
}
