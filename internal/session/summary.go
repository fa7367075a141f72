package session

import (
	"time"

	"github.com/abhisek/mathdrill/internal/problemgen"
)

// SessionSummary holds the data displayed on the summary screen.
type SessionSummary struct {
	SessionID  string
	Operator   problemgen.Operator
	Level      problemgen.Level
	Duration   time.Duration
	Correct    int
	Wrong      int
	Timeouts   int
	Accuracy   float64
	ExportPath string
	ExportErr  error
}

// BuildSummary creates a SessionSummary from the current session state.
func BuildSummary(state *GameState) *SessionSummary {
	var accuracy float64
	if total := state.Tally.Total(); total > 0 {
		accuracy = float64(state.Tally.Correct) / float64(total)
	}

	return &SessionSummary{
		SessionID:  state.SessionID,
		Operator:   state.Operator(),
		Level:      state.Level(),
		Duration:   state.Elapsed(),
		Correct:    state.Tally.Correct,
		Wrong:      state.Tally.Wrong,
		Timeouts:   state.Timeouts,
		Accuracy:   accuracy,
		ExportPath: state.ExportPath,
		ExportErr:  state.ExportErr,
	}
}
