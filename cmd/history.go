package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathdrill/internal/screens/history"
	"github.com/abhisek/mathdrill/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List finished drill sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.openJournal(cmd, true); err != nil {
			return err
		}

		sessions, err := rt.journal().QuerySessionSummaries(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}
		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %-10s  %-5s  %-7s  %-5s  %-8s  %s\n",
			"Session", "Finished", "Operator", "Level", "Correct", "Wrong", "Timeouts", "Time")
		fmt.Println(strings.Repeat("─", 110))

		for _, s := range sessions {
			fmt.Printf("%-36s  %-16s  %-10s  %-5d  %-7d  %-5d  %-8d  %d:%02d\n",
				s.SessionID,
				s.Timestamp.Local().Format("2006-01-02 15:04"),
				s.Operator,
				s.Level,
				s.Correct,
				s.Wrong,
				s.Timeouts,
				s.DurationSecs/60, s.DurationSecs%60,
			)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show every answer of one session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.openJournal(cmd, true); err != nil {
			return err
		}

		answers, err := rt.journal().QueryAnswerEvents(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("query answers: %w", err)
		}
		if len(answers) == 0 {
			fmt.Printf("No answers found for session %s.\n", args[0])
			return nil
		}

		fmt.Printf("Session %s\n", args[0])
		fmt.Println(strings.Repeat("─", 40))
		for _, a := range answers {
			fmt.Println(history.AnswerLine(a))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of sessions to show")
	historyCmd.AddCommand(historyShowCmd)
}
