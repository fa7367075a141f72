package app

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
)

type stubScreen struct {
	title    string
	escapes  bool
	keys     []string
	shutdown int
	err      error
}

func (s *stubScreen) Init() tea.Cmd { return nil }
func (s *stubScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		s.keys = append(s.keys, k.String())
	}
	return s, nil
}
func (s *stubScreen) View(int, int) string { return "content of " + s.title }
func (s *stubScreen) Title() string        { return s.title }
func (s *stubScreen) HandlesEscape() bool  { return s.escapes }
func (s *stubScreen) Shutdown() error {
	s.shutdown++
	return s.err
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func ctrlC() tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AppModel)
	if !ok {
		t.Fatalf("got %T, want AppModel", next)
	}
	return am, cmd
}

func TestCtrlCShutsDownScreens(t *testing.T) {
	drill := &stubScreen{title: "drill", err: errors.New("export failed")}
	m := newAppModel(&stubScreen{title: "home"})
	m.router.Push(drill)

	m, cmd := update(t, m, ctrlC())
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
	if drill.shutdown != 1 {
		t.Errorf("shutdown calls = %d, want 1", drill.shutdown)
	}
	if m.Err() == nil || !strings.Contains(m.Err().Error(), "export failed") {
		t.Errorf("Err() = %v, want export failure", m.Err())
	}
}

func TestErrorMsgCollected(t *testing.T) {
	m := newAppModel(&stubScreen{title: "summary"})
	want := errors.New("disk full")

	m, _ = update(t, m, screen.ErrorMsg{Err: want})
	if !errors.Is(m.Err(), want) {
		t.Errorf("Err() = %v, want %v", m.Err(), want)
	}
}

func TestPopAtRootQuits(t *testing.T) {
	m := newAppModel(&stubScreen{title: "summary"})
	_, cmd := update(t, m, router.PopScreenMsg{})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestPopBelowRoot(t *testing.T) {
	m := newAppModel(&stubScreen{title: "home"})
	m.router.Push(&stubScreen{title: "history"})

	m, _ = update(t, m, router.PopScreenMsg{})
	if m.router.Depth() != 1 || m.router.Active().Title() != "home" {
		t.Errorf("expected home at depth 1, got %q at %d", m.router.Active().Title(), m.router.Depth())
	}
}

func TestEscPopsUnlessScreenHandlesIt(t *testing.T) {
	m := newAppModel(&stubScreen{title: "home"})
	m.router.Push(&stubScreen{title: "history"})

	_, cmd := update(t, m, specialKey(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}

	drill := &stubScreen{title: "drill", escapes: true}
	m.router.Push(drill)
	_, cmd = update(t, m, specialKey(tea.KeyEscape))
	if cmd != nil {
		t.Error("expected Esc to be forwarded, not popped")
	}
	if len(drill.keys) != 1 || drill.keys[0] != "esc" {
		t.Errorf("drill keys = %v, want [esc]", drill.keys)
	}
}

func TestView(t *testing.T) {
	m := newAppModel(&stubScreen{title: "home"})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	if !strings.Contains(m.frame(), "content of home") {
		t.Error("expected active screen content")
	}

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 10})
	if !strings.Contains(m.frame(), "Terminal too small") {
		t.Error("expected min size message")
	}
}
