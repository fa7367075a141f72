package cmd

import (
	"fmt"
	"time"

	"github.com/abhisek/mathdrill/internal/app"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a drill session",
	Long:  "Start a drill straight away. Flags override MATHDRILL_* environment settings.",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := applyPlayFlags(cmd, rt); err != nil {
			return err
		}
		if err := rt.cfg.Validate(); err != nil {
			return fmt.Errorf("invalid drill settings: %w", err)
		}
		if err := rt.openJournal(cmd, false); err != nil {
			return err
		}

		d, err := rt.newDrill(rt.cfg.DrillOperator(), rt.cfg.DrillLevel())
		if err != nil {
			return err
		}

		runErr := app.Run(d)
		if p := d.State().ExportPath; p != "" {
			fmt.Println("Answers saved to", p)
		}
		return runErr
	},
}

// applyPlayFlags copies explicitly set flags over the loaded config.
func applyPlayFlags(cmd *cobra.Command, rt *runtime) error {
	f := cmd.Flags()
	var err error
	if f.Changed("op") {
		rt.cfg.Operator, err = f.GetString("op")
	}
	if err == nil && f.Changed("level") {
		rt.cfg.Level, err = f.GetInt("level")
	}
	if err == nil && f.Changed("terms") {
		rt.cfg.Terms, err = f.GetInt("terms")
	}
	if err == nil && f.Changed("tick") {
		rt.cfg.Tick, err = f.GetDuration("tick")
	}
	if err == nil && f.Changed("export-dir") {
		rt.cfg.ExportDir, err = f.GetString("export-dir")
	}
	if err == nil && f.Changed("no-sound") {
		var off bool
		off, err = f.GetBool("no-sound")
		rt.cfg.Sound = !off
	}
	if err != nil {
		return fmt.Errorf("read flags: %w", err)
	}
	return nil
}

func init() {
	addPlayFlags(playCmd)
}

func addPlayFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("op", "add", "Operator: add, subtract or multiply")
	f.Int("level", 1, "Difficulty level (1-3)")
	f.Int("terms", 2, "Terms per problem (subtraction always uses 2)")
	f.Duration("tick", 1500*time.Millisecond, "Countdown interval")
	f.String("export-dir", ".", "Directory for the session spreadsheet")
	f.Bool("no-sound", false, "Disable answer sounds")
}
