package drill

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/ui/components"
	"github.com/abhisek/mathdrill/internal/ui/layout"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

const timerBarWidth = 20

func (s *DrillScreen) View(width, height int) string {
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}

	var b strings.Builder

	timer := s.state.Timer
	timerStyle := theme.Timer
	if timer.Remaining <= theme.LowTimeThreshold {
		timerStyle = theme.TimerLow
	}
	b.WriteString(timerStyle.Render(fmt.Sprintf("Time left: %d", timer.Remaining)))
	b.WriteString("\n")
	b.WriteString(components.NewCountdownBar(timer.Remaining, timer.Budget, timerBarWidth).View())
	b.WriteString("\n\n")

	b.WriteString(theme.ProblemTerm.Render(stackProblem(s.state.Problem)))
	b.WriteString("\n")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")
	b.WriteString(renderNotice(s.notice))

	return layout.CenterBlock(b.String(), width, height)
}

// stackProblem lays a problem out vertically: the first term alone, each
// following term prefixed by the operator, then a rule.
//
//	  12
//	-  5
//	────
func stackProblem(p problemgen.Problem) string {
	if p.IsZero() {
		return ""
	}

	digits := 0
	for _, t := range p.Terms {
		if n := len(strconv.Itoa(t)); n > digits {
			digits = n
		}
	}

	lines := make([]string, 0, len(p.Terms)+1)
	lines = append(lines, fmt.Sprintf("%*d", digits+2, p.Terms[0]))
	for _, t := range p.Terms[1:] {
		lines = append(lines, fmt.Sprintf("%s %*d", p.Operator.Symbol(), digits, t))
	}
	lines = append(lines, strings.Repeat("─", digits+2))
	return strings.Join(lines, "\n")
}

func renderNotice(n notice) string {
	switch n.kind {
	case noticeCorrect:
		return theme.Correct.Render(n.text)
	case noticeWrong, noticeTimeout:
		return theme.Incorrect.Render(n.text)
	case noticeInvalid:
		return theme.Notice.Render(n.text)
	}
	return ""
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("End this drill?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Your answers will be exported."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Success).
		Render("[Y] Yes, end session"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}
