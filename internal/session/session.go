package session

import (
	"errors"
	"time"

	"github.com/abhisek/mathdrill/internal/problemgen"
)

// ErrSessionEnded is returned for submissions after EndSession.
var ErrSessionEnded = errors.New("session has ended")

// Outcome describes what a submission or tick did to the game state.
type Outcome int

const (
	OutcomeNone    Outcome = iota // Nothing changed
	OutcomeCorrect                // Correct answer; a new problem is shown
	OutcomeWrong                  // Wrong answer; same problem, timer keeps running
	OutcomeTicked                 // Countdown decremented
	OutcomeTimeout                // Countdown hit zero; a new problem is shown
	OutcomeStale                  // Tick for a superseded countdown; ignored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeWrong:
		return "wrong"
	case OutcomeTicked:
		return "ticked"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeStale:
		return "stale"
	}
	return "none"
}

// Advanced reports whether the outcome replaced the current problem.
func (o Outcome) Advanced() bool {
	return o == OutcomeCorrect || o == OutcomeTimeout
}

// HandleSubmit scores the learner's raw input against the current problem.
//
// Input that does not parse as an integer returns *problemgen.InvalidInputError
// and leaves the state untouched. A parsed answer is always recorded. A
// correct answer moves on to a new problem; a wrong one keeps the problem and
// its running countdown so the learner can retry.
func HandleSubmit(state *GameState, raw string) (Outcome, error) {
	if state.Phase == PhaseEnded {
		return OutcomeNone, ErrSessionEnded
	}

	n, correct, err := problemgen.CheckAnswer(raw, state.Problem)
	if err != nil {
		return OutcomeNone, err
	}

	state.Recorder.Append(SessionRecord{
		ProblemText:   state.Problem.Text(),
		CorrectAnswer: state.Problem.Answer,
		Submitted:     &n,
		ElapsedTicks:  state.Timer.Elapsed(),
		Correct:       correct,
		At:            state.now(),
	})

	if correct {
		state.Tally.Correct++
		advance(state)
		return OutcomeCorrect, nil
	}

	state.Tally.Wrong++
	return OutcomeWrong, nil
}

// HandleTick applies one countdown tick scheduled for the given generation.
// Ticks for an older generation, or after the session ended, are no-ops.
// When the countdown reaches zero the problem is recorded as unanswered,
// scored wrong, and replaced.
func HandleTick(state *GameState, generation uint64) Outcome {
	if state.Phase == PhaseEnded || generation != state.Timer.Generation {
		return OutcomeStale
	}

	state.Timer.Remaining--
	if state.Timer.Remaining > 0 {
		return OutcomeTicked
	}

	state.Recorder.Append(SessionRecord{
		ProblemText:   state.Problem.Text(),
		CorrectAnswer: state.Problem.Answer,
		ElapsedTicks:  state.Timer.Budget,
		At:            state.now(),
	})
	state.Tally.Wrong++
	state.Timeouts++
	advance(state)
	return OutcomeTimeout
}

// EndSession closes the session at now, cancels the countdown, and hands the
// accumulated records to the exporter. It returns the exported file path.
// Calling it again returns the first result without exporting twice.
func EndSession(state *GameState, exporter Exporter, now time.Time) (string, error) {
	if state.Phase == PhaseEnded {
		return state.ExportPath, state.ExportErr
	}

	state.Phase = PhaseEnded
	state.Timer.Generation++
	state.EndTime = now

	if exporter == nil {
		return "", nil
	}
	state.ExportPath, state.ExportErr = state.Recorder.Export(exporter, state.EndTime)
	return state.ExportPath, state.ExportErr
}

// advance draws the next problem and restarts the countdown under a new
// generation.
func advance(state *GameState) {
	state.Problem = state.generator.Generate()
	budget := TimeBudget(state.Problem.Answer)
	state.Timer.Budget = budget
	state.Timer.Remaining = budget
	state.Timer.Generation++
}
