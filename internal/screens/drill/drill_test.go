package drill

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathdrill/internal/logging"
	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/screens/summary"
	sess "github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/store"
)

// scriptedGenerator hands out a fixed sequence of problems.
type scriptedGenerator struct {
	problems []problemgen.Problem
	next     int
}

func (g *scriptedGenerator) Generate() problemgen.Problem {
	p := g.problems[g.next%len(g.problems)]
	g.next++
	return p
}
func (g *scriptedGenerator) Operator() problemgen.Operator { return problemgen.OpAdd }
func (g *scriptedGenerator) Level() problemgen.Level       { return problemgen.Level1 }
func (g *scriptedGenerator) MaxAnswer() int                { return 999 }

// mockExporter records Export calls.
type mockExporter struct {
	calls   int
	records []sess.SessionRecord
	err     error
}

func (m *mockExporter) Export(records []sess.SessionRecord, _ time.Time) (string, error) {
	m.calls++
	m.records = records
	if m.err != nil {
		return "", m.err
	}
	return "/tmp/260314_0926.xlsx", nil
}

// mockEventRepo implements store.EventRepo for testing.
type mockEventRepo struct {
	sessionEvents []store.SessionEventData
	answerEvents  []store.AnswerEventData
}

func (m *mockEventRepo) AppendSessionEvent(_ context.Context, data store.SessionEventData) error {
	m.sessionEvents = append(m.sessionEvents, data)
	return nil
}
func (m *mockEventRepo) AppendAnswerEvent(_ context.Context, data store.AnswerEventData) error {
	m.answerEvents = append(m.answerEvents, data)
	return nil
}
func (m *mockEventRepo) QuerySessionSummaries(context.Context, store.QueryOpts) ([]store.SessionSummaryRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) QueryAnswerEvents(context.Context, string) ([]store.AnswerEventRecord, error) {
	return nil, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testDrillScreen() (*DrillScreen, *mockEventRepo, *mockExporter) {
	gen := &scriptedGenerator{problems: []problemgen.Problem{
		problemgen.FromTerms(problemgen.OpAdd, 3, 4),
		problemgen.FromTerms(problemgen.OpAdd, 15, 9),
		problemgen.FromTerms(problemgen.OpAdd, 1, 1),
	}}
	journal := &mockEventRepo{}
	exporter := &mockExporter{}

	s := New(gen, Options{
		Tick:         time.Millisecond,
		Exporter:     exporter,
		Journal:      journal,
		Logger:       logging.Discard(),
		StateOptions: []sess.StateOption{sess.WithSessionID("test-session")},
	})
	return s, journal, exporter
}

func submit(s *DrillScreen, answer string) tea.Cmd {
	s.input.Model.SetValue(answer)
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	return cmd
}

// endMessages runs the commands produced when a session ends. They never
// include ticks, so running them does not block.
func endMessages(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, endMessages(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestDrillScreen_Title(t *testing.T) {
	s, _, _ := testDrillScreen()
	if s.Title() != "Addition · Level 1" {
		t.Errorf("Title = %q", s.Title())
	}
}

func TestDrillScreen_InitJournalsStart(t *testing.T) {
	s, journal, _ := testDrillScreen()
	if cmd := s.Init(); cmd == nil {
		t.Fatal("expected init command")
	}
	if len(journal.sessionEvents) != 1 || journal.sessionEvents[0].Action != store.ActionStart {
		t.Fatalf("session events = %+v, want one start", journal.sessionEvents)
	}
	if journal.sessionEvents[0].SessionID != "test-session" {
		t.Errorf("session id = %q", journal.sessionEvents[0].SessionID)
	}
}

func TestDrillScreen_CorrectAnswer(t *testing.T) {
	s, journal, _ := testDrillScreen()
	gen := s.state.Timer.Generation

	cmd := submit(s, "7")
	if cmd == nil {
		t.Error("expected cue and tick commands")
	}
	if s.state.Tally.Correct != 1 {
		t.Errorf("correct = %d, want 1", s.state.Tally.Correct)
	}
	if s.state.Problem.Text() != "15+9" {
		t.Errorf("problem = %q, want next problem", s.state.Problem.Text())
	}
	if s.state.Timer.Generation == gen {
		t.Error("expected a new countdown generation")
	}
	if s.state.Timer.Remaining != 30 {
		t.Errorf("remaining = %d, want 30 for an answer over 20", s.state.Timer.Remaining)
	}
	if s.notice.kind != noticeCorrect {
		t.Errorf("notice = %q, want correct", s.notice.text)
	}
	if len(journal.answerEvents) != 1 || !journal.answerEvents[0].Correct {
		t.Errorf("answer events = %+v", journal.answerEvents)
	}
	if s.Status() != "✓ 1  ✗ 0" {
		t.Errorf("Status = %q", s.Status())
	}
}

func TestDrillScreen_TypesFullLengthAnswer(t *testing.T) {
	gen, err := problemgen.New(problemgen.OpMultiply, problemgen.Level3,
		problemgen.WithTermCount(6),
		problemgen.WithRand(rand.New(rand.NewPCG(1, 2))))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s := New(gen, Options{Tick: time.Millisecond, Logger: logging.Discard()})

	// Draw until the answer is wider than the old eight-character field.
	for len(strconv.Itoa(s.state.Problem.Answer)) < 9 {
		s.state.Problem = gen.Generate()
	}
	answer := strconv.Itoa(s.state.Problem.Answer)

	for _, r := range answer {
		s.Update(keyPress(r))
	}
	if s.input.Value() != answer {
		t.Fatalf("input = %q, want %q", s.input.Value(), answer)
	}
	s.Update(specialKey(tea.KeyEnter))

	if s.state.Tally.Correct != 1 {
		t.Errorf("correct = %d, want 1 for %q", s.state.Tally.Correct, answer)
	}
}

func TestDrillScreen_WrongAnswerKeepsProblem(t *testing.T) {
	s, journal, _ := testDrillScreen()
	gen := s.state.Timer.Generation

	submit(s, "8")

	if s.state.Tally.Wrong != 1 {
		t.Errorf("wrong = %d, want 1", s.state.Tally.Wrong)
	}
	if s.state.Problem.Text() != "3+4" {
		t.Errorf("problem = %q, want same problem", s.state.Problem.Text())
	}
	if s.state.Timer.Generation != gen {
		t.Error("wrong answer must not restart the countdown")
	}
	if s.notice.text != "Try again" {
		t.Errorf("notice = %q", s.notice.text)
	}
	if len(journal.answerEvents) != 1 || journal.answerEvents[0].Correct {
		t.Errorf("answer events = %+v", journal.answerEvents)
	}
	if s.input.Value() != "" {
		t.Error("expected input cleared after submit")
	}
}

func TestDrillScreen_InvalidInput(t *testing.T) {
	s, journal, _ := testDrillScreen()

	cmd := submit(s, "seven")

	if cmd != nil {
		t.Error("invalid input should not schedule anything")
	}
	if s.state.Tally.Total() != 0 || len(s.state.Recorder.Records()) != 0 {
		t.Error("invalid input must not be scored or recorded")
	}
	if s.notice.text != "Please enter a number" {
		t.Errorf("notice = %q", s.notice.text)
	}
	if len(journal.answerEvents) != 0 {
		t.Error("invalid input must not be journaled")
	}
}

func TestDrillScreen_Tick(t *testing.T) {
	s, _, _ := testDrillScreen()
	gen := s.state.Timer.Generation
	before := s.state.Timer.Remaining

	_, cmd := s.Update(tickMsg{Generation: gen})
	if cmd == nil {
		t.Error("expected next tick to be scheduled")
	}
	if s.state.Timer.Remaining != before-1 {
		t.Errorf("remaining = %d, want %d", s.state.Timer.Remaining, before-1)
	}
}

func TestDrillScreen_StaleTickIgnored(t *testing.T) {
	s, _, _ := testDrillScreen()
	stale := s.state.Timer.Generation
	submit(s, "7")
	remaining := s.state.Timer.Remaining

	_, cmd := s.Update(tickMsg{Generation: stale})
	if cmd != nil {
		t.Error("stale tick must end its chain")
	}
	if s.state.Timer.Remaining != remaining {
		t.Error("stale tick must not change the countdown")
	}
}

func TestDrillScreen_Timeout(t *testing.T) {
	s, journal, _ := testDrillScreen()
	s.state.Timer.Remaining = 1

	_, cmd := s.Update(tickMsg{Generation: s.state.Timer.Generation})
	if cmd == nil {
		t.Error("expected cue and tick commands")
	}
	if s.state.Timeouts != 1 || s.state.Tally.Wrong != 1 {
		t.Errorf("timeouts=%d wrong=%d, want 1/1", s.state.Timeouts, s.state.Tally.Wrong)
	}
	if s.notice.text != "Time's up! 3+4 = 7" {
		t.Errorf("notice = %q", s.notice.text)
	}
	if s.state.Problem.Text() != "15+9" {
		t.Errorf("problem = %q, want next problem", s.state.Problem.Text())
	}
	if len(journal.answerEvents) != 1 || journal.answerEvents[0].Submitted != nil {
		t.Errorf("answer events = %+v, want one unanswered", journal.answerEvents)
	}
}

func TestDrillScreen_QuitConfirm(t *testing.T) {
	s, _, exporter := testDrillScreen()

	var scr screen.Screen = s
	scr, _ = scr.Update(specialKey(tea.KeyEscape))
	ds := scr.(*DrillScreen)
	if !ds.confirmQuit {
		t.Fatal("expected quit confirmation dialog")
	}
	if !strings.Contains(ds.View(80, 24), "End this drill?") {
		t.Error("expected confirmation view")
	}

	scr, _ = ds.Update(keyPress('n'))
	ds = scr.(*DrillScreen)
	if ds.confirmQuit {
		t.Error("expected quit confirmation to be dismissed")
	}
	if exporter.calls != 0 {
		t.Error("dismissing must not end the session")
	}
}

func TestDrillScreen_QuitConfirmHoldsCountdown(t *testing.T) {
	s, _, _ := testDrillScreen()
	gen := s.state.Timer.Generation
	before := s.state.Timer.Remaining

	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(tickMsg{Generation: gen})
	if cmd == nil {
		t.Fatal("expected the tick chain to stay alive while confirming")
	}
	if s.state.Timer.Remaining != before {
		t.Errorf("remaining = %d while confirming, want %d", s.state.Timer.Remaining, before)
	}
	if _, cmd := s.Update(tickMsg{Generation: gen - 1}); cmd != nil {
		t.Error("stale tick must still end its chain while confirming")
	}

	s.Update(keyPress('n'))
	s.Update(tickMsg{Generation: gen})
	if s.state.Timer.Remaining != before-1 {
		t.Errorf("remaining = %d after resuming, want %d", s.state.Timer.Remaining, before-1)
	}
}

func TestDrillScreen_WrongAnswerStartsNoTickChain(t *testing.T) {
	s, _, _ := testDrillScreen()

	cmd := submit(s, "8")
	if cmd == nil {
		t.Fatal("expected a feedback cue")
	}
	if _, ok := cmd().(cueDoneMsg); !ok {
		t.Error("wrong answer must only play the cue")
	}
}

func TestDrillScreen_QuitConfirm_Yes(t *testing.T) {
	s, journal, exporter := testDrillScreen()
	submit(s, "8")
	submit(s, "7")

	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(keyPress('y'))

	if s.state.Phase != sess.PhaseEnded {
		t.Fatal("expected session to end")
	}
	if exporter.calls != 1 || len(exporter.records) != 2 {
		t.Errorf("export calls=%d records=%d, want 1/2", exporter.calls, len(exporter.records))
	}

	msgs := endMessages(cmd)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	replace, ok := msgs[0].(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("got %T, want ReplaceScreenMsg", msgs[0])
	}
	if _, ok := replace.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("replacement = %T, want summary screen", replace.Screen)
	}

	last := journal.sessionEvents[len(journal.sessionEvents)-1]
	if last.Action != store.ActionEnd || last.Correct != 1 || last.Wrong != 1 {
		t.Errorf("end event = %+v", last)
	}
	if last.ExportPath != "/tmp/260314_0926.xlsx" {
		t.Errorf("end event export path = %q", last.ExportPath)
	}

	// Keys after the end are ignored.
	if _, cmd := s.Update(specialKey(tea.KeyEnter)); cmd != nil {
		t.Error("expected no command after the session ended")
	}
}

func TestDrillScreen_ExportErrorReported(t *testing.T) {
	s, _, exporter := testDrillScreen()
	exporter.err = errors.New("disk full")

	s.Update(specialKey(tea.KeyEscape))
	_, cmd := s.Update(keyPress('y'))

	var gotErr error
	for _, msg := range endMessages(cmd) {
		if em, ok := msg.(screen.ErrorMsg); ok {
			gotErr = em.Err
		}
	}
	if gotErr == nil || !errors.Is(gotErr, exporter.err) {
		t.Errorf("expected ErrorMsg wrapping export error, got %v", gotErr)
	}
}

func TestDrillScreen_Shutdown(t *testing.T) {
	s, journal, exporter := testDrillScreen()
	submit(s, "7")

	if err := s.Shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if exporter.calls != 1 {
		t.Errorf("export calls = %d, want 1", exporter.calls)
	}
	if err := s.Shutdown(); err != nil {
		t.Errorf("second shutdown: %v", err)
	}
	if exporter.calls != 1 {
		t.Error("second shutdown must not export again")
	}

	ends := 0
	for _, e := range journal.sessionEvents {
		if e.Action == store.ActionEnd {
			ends++
		}
	}
	if ends != 1 {
		t.Errorf("end events = %d, want 1", ends)
	}

	// The countdown chain stops once the session has ended.
	if _, cmd := s.Update(tickMsg{Generation: s.state.Timer.Generation}); cmd != nil {
		t.Error("expected no tick after shutdown")
	}
}

func TestDrillScreen_ShutdownError(t *testing.T) {
	s, _, exporter := testDrillScreen()
	exporter.err = errors.New("read-only file system")

	if err := s.Shutdown(); !errors.Is(err, exporter.err) {
		t.Errorf("shutdown error = %v, want export error", err)
	}
}

func TestDrillScreen_View(t *testing.T) {
	s, _, _ := testDrillScreen()
	view := s.View(80, 24)
	if !strings.Contains(view, "Time left: 20") {
		t.Error("expected countdown in view")
	}
	if !strings.Contains(view, "+ 4") {
		t.Error("expected stacked operator line in view")
	}
}

func TestStackProblem(t *testing.T) {
	tests := []struct {
		name string
		p    problemgen.Problem
		want string
	}{
		{
			name: "single digits",
			p:    problemgen.FromTerms(problemgen.OpAdd, 3, 4),
			want: "  3\n+ 4\n───",
		},
		{
			name: "mixed widths",
			p:    problemgen.FromTerms(problemgen.OpSubtract, 5, 12),
			want: "  12\n-  5\n────",
		},
		{
			name: "three terms",
			p:    problemgen.FromTerms(problemgen.OpMultiply, 2, 10, 3),
			want: "   2\n* 10\n*  3\n────",
		},
		{
			name: "empty",
			p:    problemgen.Problem{},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stackProblem(tt.p); got != tt.want {
				t.Errorf("stackProblem() = %q, want %q", got, tt.want)
			}
		})
	}
}
