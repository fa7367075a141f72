package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// CountdownBar shows how much of a problem's time budget is left.
type CountdownBar struct {
	Remaining int
	Budget    int
	Width     int
}

// NewCountdownBar creates a countdown bar.
func NewCountdownBar(remaining, budget, width int) CountdownBar {
	return CountdownBar{
		Remaining: remaining,
		Budget:    budget,
		Width:     width,
	}
}

// Filled returns the number of filled cells.
func (c CountdownBar) Filled() int {
	width := c.Width
	if width < 4 {
		width = 4
	}
	if c.Budget <= 0 || c.Remaining <= 0 {
		return 0
	}
	filled := width * c.Remaining / c.Budget
	if filled > width {
		filled = width
	}
	// Never look empty while time is left.
	if filled == 0 {
		filled = 1
	}
	return filled
}

// View renders the bar.
func (c CountdownBar) View() string {
	width := c.Width
	if width < 4 {
		width = 4
	}
	filled := c.Filled()

	fill := theme.Secondary
	if c.Remaining <= theme.LowTimeThreshold {
		fill = theme.Error
	}

	filledStr := lipgloss.NewStyle().
		Background(fill).
		Render(strings.Repeat(" ", filled))

	emptyStr := lipgloss.NewStyle().
		Background(theme.Border).
		Render(strings.Repeat(" ", width-filled))

	return filledStr + emptyStr
}
