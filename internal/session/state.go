package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/mathdrill/internal/problemgen"
)

// Phase represents the current phase of the game.
type Phase int

const (
	PhaseAwaiting Phase = iota // Problem shown, timer running
	PhaseEnded                 // Session closed, records handed to the exporter
)

// Timer budget rule: problems whose answer exceeds BudgetThreshold get
// LongBudget ticks, everything else ShortBudget.
const (
	BudgetThreshold = 20
	ShortBudget     = 20
	LongBudget      = 30
)

// TimeBudget returns the countdown length for a problem with the given answer.
func TimeBudget(answer int) int {
	if answer > BudgetThreshold {
		return LongBudget
	}
	return ShortBudget
}

// ScoreTally counts scored outcomes for the session.
type ScoreTally struct {
	Correct int
	Wrong   int
}

// Total returns the number of scored outcomes.
func (t ScoreTally) Total() int {
	return t.Correct + t.Wrong
}

// TimerState is the per-problem countdown.
type TimerState struct {
	// Remaining counts down by one on every tick.
	Remaining int

	// Budget is the value Remaining was reset to for the current problem.
	Budget int

	// Generation identifies the current countdown. It changes whenever a
	// new problem is shown or the session ends; ticks scheduled for an
	// older generation are ignored.
	Generation uint64
}

// Elapsed returns how many ticks have passed on the current problem.
func (t TimerState) Elapsed() int {
	return t.Budget - t.Remaining
}

// GameState tracks the runtime state of one drill session.
type GameState struct {
	// SessionID is the UUID for this session.
	SessionID string

	// Problem is the problem currently on screen.
	Problem problemgen.Problem

	// Tally is the running score.
	Tally ScoreTally

	// Timeouts counts problems abandoned because the countdown hit zero.
	// Each one is also counted in Tally.Wrong.
	Timeouts int

	// Timer is the countdown for Problem.
	Timer TimerState

	// Phase is the current game phase.
	Phase Phase

	// Recorder accumulates one record per scored outcome.
	Recorder *Recorder

	// StartTime is when the session began.
	StartTime time.Time

	// EndTime is set by EndSession.
	EndTime time.Time

	// ExportPath and ExportErr hold the result of the session-end export.
	ExportPath string
	ExportErr  error

	generator problemgen.Generator
	now       func() time.Time
}

// StateOption configures a new GameState.
type StateOption func(*GameState)

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) StateOption {
	return func(s *GameState) {
		s.SessionID = id
	}
}

// WithClock overrides the wall clock used for record timestamps and
// session start/end times.
func WithClock(now func() time.Time) StateOption {
	return func(s *GameState) {
		s.now = now
	}
}

// NewGameState starts a session: it draws the first problem and starts
// its countdown.
func NewGameState(gen problemgen.Generator, opts ...StateOption) *GameState {
	s := &GameState{
		Recorder:  NewRecorder(),
		Phase:     PhaseAwaiting,
		generator: gen,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.SessionID == "" {
		s.SessionID = uuid.New().String()
	}
	s.StartTime = s.now()
	advance(s)
	return s
}

// Operator returns the operator this session drills.
func (s *GameState) Operator() problemgen.Operator {
	return s.generator.Operator()
}

// Level returns the session's difficulty level.
func (s *GameState) Level() problemgen.Level {
	return s.generator.Level()
}

// Now reads the session's clock.
func (s *GameState) Now() time.Time {
	return s.now()
}

// Elapsed returns the wall-clock duration of the session so far, or its
// total duration once ended.
func (s *GameState) Elapsed() time.Duration {
	if s.Phase == PhaseEnded {
		return s.EndTime.Sub(s.StartTime)
	}
	return s.now().Sub(s.StartTime)
}
