package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/ui/components"
	"github.com/abhisek/mathdrill/internal/ui/layout"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// StartFunc builds the drill screen for an operator and level.
type StartFunc func(op problemgen.Operator, level problemgen.Level) (screen.Screen, error)

// HistoryFunc builds the history screen. It is nil when the journal is off.
type HistoryFunc func() screen.Screen

const title = "M · A · T · H   D · R · I · L · L"

// HomeScreen lets the learner pick an operator and level.
type HomeScreen struct {
	menu    components.Menu
	level   problemgen.Level
	start   StartFunc
	history HistoryFunc
	errMsg  string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a HomeScreen with level preselected.
func New(start StartFunc, history HistoryFunc, level problemgen.Level) *HomeScreen {
	if !level.Valid() {
		level = problemgen.Level1
	}
	h := &HomeScreen{
		level:   level,
		start:   start,
		history: history,
	}

	items := make([]components.MenuItem, 0, len(problemgen.Operators)+2)
	for _, op := range problemgen.Operators {
		items = append(items, components.MenuItem{
			Label:  strings.ToUpper(op.DisplayName()),
			Hint:   "(" + op.Symbol() + ")",
			Action: func() tea.Cmd { return h.startDrill(op) },
		})
	}
	items = append(items,
		components.MenuItem{
			Label:    "HISTORY",
			Disabled: history == nil,
			Action: func() tea.Cmd {
				return func() tea.Msg { return router.PushScreenMsg{Screen: h.history()} }
			},
		},
		components.MenuItem{
			Label: "EXIT",
			// Popping the root screen quits through the app's shutdown path.
			Action: func() tea.Cmd {
				return func() tea.Msg { return router.PopScreenMsg{} }
			},
		},
	)

	h.menu = components.NewMenu(items)
	return h
}

// Level returns the selected level.
func (h *HomeScreen) Level() problemgen.Level {
	return h.level
}

func (h *HomeScreen) startDrill(op problemgen.Operator) tea.Cmd {
	s, err := h.start(op, h.level)
	if err != nil {
		h.errMsg = err.Error()
		return nil
	}
	h.errMsg = ""
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Operator"},
		{Key: "←→", Description: "Level"},
		{Key: "Enter", Description: "Start"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "left", "h":
			if h.level > problemgen.Level1 {
				h.level--
			}
			return h, nil
		case "right", "l":
			if h.level < problemgen.Level3 {
				h.level++
			}
			return h, nil
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	sections := []string{
		lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Foreground(theme.Accent).
			Bold(true).
			Render(title),
		components.Card(renderLevel(h.level), cw),
		lipgloss.NewStyle().Width(cw).Render(h.menu.View()),
	}
	if h.errMsg != "" {
		sections = append(sections, lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(h.errMsg))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func renderLevel(level problemgen.Level) string {
	left, right := "◂", "▸"
	dim := lipgloss.NewStyle().Foreground(theme.Border)
	arrow := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)

	l, r := arrow.Render(left), arrow.Render(right)
	if level == problemgen.Level1 {
		l = dim.Render(left)
	}
	if level == problemgen.Level3 {
		r = dim.Render(right)
	}

	rng, _ := level.Range()
	label := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("LEVEL %d", level))
	span := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("terms %d-%d", rng.Min, rng.Max))

	return fmt.Sprintf("%s  %s  %s   %s", l, label, r, span)
}
