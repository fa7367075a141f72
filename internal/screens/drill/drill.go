package drill

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathdrill/internal/audio"
	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/screens/summary"
	sess "github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/store"
	"github.com/abhisek/mathdrill/internal/ui/components"
	"github.com/abhisek/mathdrill/internal/ui/layout"
)

// DefaultTick is the countdown step interval.
const DefaultTick = 1500 * time.Millisecond

type noticeKind int

const (
	noticeNone noticeKind = iota
	noticeCorrect
	noticeWrong
	noticeTimeout
	noticeInvalid
)

type notice struct {
	kind noticeKind
	text string
}

// Options carries the collaborators of a drill. Every field is optional.
type Options struct {
	Tick     time.Duration
	Exporter sess.Exporter
	Journal  store.EventRepo
	Player   audio.Player
	Logger   *slog.Logger

	// StateOptions are passed to session.NewGameState.
	StateOptions []sess.StateOption
}

// DrillScreen runs one timed drill session.
type DrillScreen struct {
	state    *sess.GameState
	tick     time.Duration
	exporter sess.Exporter
	journal  store.EventRepo
	player   audio.Player
	logger   *slog.Logger

	input       components.TextInput
	notice      notice
	confirmQuit bool
}

var _ screen.Screen = (*DrillScreen)(nil)
var _ screen.KeyHintProvider = (*DrillScreen)(nil)
var _ screen.StatusProvider = (*DrillScreen)(nil)
var _ screen.EscapeHandler = (*DrillScreen)(nil)
var _ screen.Shutdowner = (*DrillScreen)(nil)

// New starts a session on gen and returns its screen. The first problem is
// drawn immediately; its countdown starts in Init.
func New(gen problemgen.Generator, opts Options) *DrillScreen {
	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultTick
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	player := opts.Player
	if player == nil {
		player = audio.Nop{}
	}

	return &DrillScreen{
		state:    sess.NewGameState(gen, opts.StateOptions...),
		tick:     tick,
		exporter: opts.Exporter,
		journal:  opts.Journal,
		player:   player,
		logger:   logger,
		input:    components.NewTextInput("answer", components.AnswerCharLimit(gen.MaxAnswer())),
	}
}

// State exposes the game state for tests and callers that need the tally.
func (s *DrillScreen) State() *sess.GameState {
	return s.state
}

func (s *DrillScreen) Init() tea.Cmd {
	s.logger.Info("session started",
		"session", s.state.SessionID,
		"operator", s.state.Operator(),
		"level", int(s.state.Level()))
	s.appendSessionEvent(store.ActionStart)

	return tea.Batch(
		s.input.Init(),
		tickCmd(s.tick, s.state.Timer.Generation),
	)
}

func (s *DrillScreen) Title() string {
	return fmt.Sprintf("%s · Level %d", s.state.Operator().DisplayName(), s.state.Level())
}

func (s *DrillScreen) Status() string {
	return fmt.Sprintf("✓ %d  ✗ %d", s.state.Tally.Correct, s.state.Tally.Wrong)
}

func (s *DrillScreen) HandlesEscape() bool {
	return true
}

func (s *DrillScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "End session"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *DrillScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s.handleTick(msg)

	case cueDoneMsg:
		if msg.Err != nil {
			s.logger.Debug("feedback cue failed", "err", msg.Err)
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *DrillScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.state.Phase == sess.PhaseEnded {
		return s, nil
	}

	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s.end()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "enter":
		return s.submit()
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// submit scores the typed answer. A correct answer restarts the countdown
// for the new problem. A wrong one leaves the running countdown alone.
func (s *DrillScreen) submit() (screen.Screen, tea.Cmd) {
	outcome, err := sess.HandleSubmit(s.state, s.input.Value())
	if err != nil {
		var invalid *problemgen.InvalidInputError
		if errors.As(err, &invalid) {
			s.notice = notice{kind: noticeInvalid, text: "Please enter a number"}
			s.input.Clear()
		}
		return s, nil
	}

	s.appendLastAnswer()

	var cue tea.Cmd
	switch outcome {
	case sess.OutcomeCorrect:
		s.notice = notice{kind: noticeCorrect, text: "Correct!"}
		s.input.Mark(true)
		cue = s.cueCmd(audio.CueCorrect)
	case sess.OutcomeWrong:
		s.notice = notice{kind: noticeWrong, text: "Try again"}
		s.input.Mark(false)
		cue = s.cueCmd(audio.CueWrong)
	}
	return s, tea.Batch(cue, s.rearm(outcome))
}

// rearm starts a tick chain for the new problem when outcome replaced the
// old one. The old chain ends on its next tick as stale.
func (s *DrillScreen) rearm(outcome sess.Outcome) tea.Cmd {
	if !outcome.Advanced() {
		return nil
	}
	return tickCmd(s.tick, s.state.Timer.Generation)
}

func (s *DrillScreen) handleTick(msg tickMsg) (screen.Screen, tea.Cmd) {
	// The countdown holds while the quit dialog is open.
	if s.confirmQuit && s.state.Phase != sess.PhaseEnded && msg.Generation == s.state.Timer.Generation {
		return s, tickCmd(s.tick, msg.Generation)
	}

	outcome := sess.HandleTick(s.state, msg.Generation)
	switch outcome {
	case sess.OutcomeTicked:
		return s, tickCmd(s.tick, msg.Generation)

	case sess.OutcomeTimeout:
		s.appendLastAnswer()
		text := "Time's up!"
		if rec, ok := s.state.Recorder.Last(); ok {
			text = fmt.Sprintf("Time's up! %s = %d", rec.ProblemText, rec.CorrectAnswer)
		}
		s.notice = notice{kind: noticeTimeout, text: text}
		s.input.Clear()
		return s, tea.Batch(s.cueCmd(audio.CueWrong), s.rearm(outcome))
	}

	// Stale: this tick chain belongs to a replaced problem.
	return s, nil
}

// end finishes the session and hands over to the summary screen.
func (s *DrillScreen) end() (screen.Screen, tea.Cmd) {
	err := s.finish()
	sum := sess.BuildSummary(s.state)

	cmds := []tea.Cmd{
		func() tea.Msg { return router.ReplaceScreenMsg{Screen: summary.New(sum)} },
	}
	if err != nil {
		cmds = append(cmds, func() tea.Msg { return screen.ErrorMsg{Err: err} })
	}
	return s, tea.Batch(cmds...)
}

// Shutdown ends a running session when the program is interrupted. The
// export still runs. A session that already ended reports nothing here.
func (s *DrillScreen) Shutdown() error {
	if s.state.Phase == sess.PhaseEnded {
		return nil
	}
	return s.finish()
}

func (s *DrillScreen) finish() error {
	if s.state.Phase == sess.PhaseEnded {
		return s.state.ExportErr
	}

	path, err := sess.EndSession(s.state, s.exporter, s.state.Now())
	switch {
	case err != nil:
		s.logger.Error("export failed", "session", s.state.SessionID, "err", err)
	case path != "":
		s.logger.Info("session exported", "session", s.state.SessionID, "path", path)
	}
	s.appendSessionEvent(store.ActionEnd)
	return err
}

func (s *DrillScreen) cueCmd(cue audio.Cue) tea.Cmd {
	player := s.player
	return func() tea.Msg {
		return cueDoneMsg{Err: player.Play(context.Background(), cue)}
	}
}

func (s *DrillScreen) appendSessionEvent(action string) {
	if s.journal == nil {
		return
	}
	data := store.SessionEventData{
		SessionID: s.state.SessionID,
		Action:    action,
		Operator:  string(s.state.Operator()),
		Level:     int(s.state.Level()),
	}
	if action == store.ActionEnd {
		data.Correct = s.state.Tally.Correct
		data.Wrong = s.state.Tally.Wrong
		data.Timeouts = s.state.Timeouts
		data.DurationSecs = int(s.state.Elapsed().Seconds())
		data.ExportPath = s.state.ExportPath
	}
	if err := s.journal.AppendSessionEvent(context.Background(), data); err != nil {
		s.logger.Warn("journal session event", "action", action, "err", err)
	}
}

func (s *DrillScreen) appendLastAnswer() {
	if s.journal == nil {
		return
	}
	rec, ok := s.state.Recorder.Last()
	if !ok {
		return
	}
	err := s.journal.AppendAnswerEvent(context.Background(), store.AnswerEventData{
		SessionID:     s.state.SessionID,
		ProblemText:   rec.ProblemText,
		CorrectAnswer: rec.CorrectAnswer,
		Submitted:     rec.Submitted,
		Correct:       rec.Correct,
		ElapsedTicks:  rec.ElapsedTicks,
	})
	if err != nil {
		s.logger.Warn("journal answer event", "err", err)
	}
}
