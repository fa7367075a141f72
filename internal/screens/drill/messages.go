package drill

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// tickMsg is one countdown step for the problem shown under Generation.
type tickMsg struct {
	Generation uint64
}

// cueDoneMsg is sent when a feedback sound has finished or failed.
type cueDoneMsg struct {
	Err error
}

// tickCmd schedules the next countdown step for generation.
func tickCmd(interval time.Duration, generation uint64) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return tickMsg{Generation: generation}
	})
}
