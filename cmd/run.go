package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/abhisek/mathdrill/internal/app"
	"github.com/abhisek/mathdrill/internal/audio"
	"github.com/abhisek/mathdrill/internal/config"
	"github.com/abhisek/mathdrill/internal/export"
	"github.com/abhisek/mathdrill/internal/logging"
	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/screens/drill"
	"github.com/abhisek/mathdrill/internal/screens/history"
	"github.com/abhisek/mathdrill/internal/screens/home"
	"github.com/abhisek/mathdrill/internal/store"
	"github.com/spf13/cobra"
)

var errJournalDisabled = errors.New("journal is disabled")

// runtime holds what every command builds before it starts.
type runtime struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *store.Store
	closers []io.Closer
}

// setup loads config, applies persistent flags and opens the log file.
func setup(cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("no-journal") {
		cfg.NoJournal, _ = cmd.Flags().GetBool("no-journal")
	}

	logger, logCloser, err := logging.Setup(logging.Options{Level: cfg.LogLevel, Path: cfg.LogFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Logging unavailable:", err)
		logger = logging.Discard()
	}

	rt := &runtime{cfg: cfg, logger: logger}
	if logCloser != nil {
		rt.closers = append(rt.closers, logCloser)
	}
	return rt, nil
}

// Close releases the journal and the log file.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i].Close()
	}
}

// openJournal opens the session journal. Drills still run without one, so
// failures are reported and swallowed unless required is set.
func (rt *runtime) openJournal(cmd *cobra.Command, required bool) error {
	if rt.cfg.NoJournal {
		if required {
			return errJournalDisabled
		}
		return nil
	}

	dbPath, err := resolveDBPath(cmd, rt.cfg)
	if err == nil {
		rt.store, err = store.Open(dbPath)
	}
	if err != nil {
		if required {
			return fmt.Errorf("open journal: %w", err)
		}
		fmt.Fprintln(os.Stderr, "Journal unavailable:", err)
		rt.logger.Warn("journal unavailable", "error", err)
		return nil
	}

	rt.logger.Debug("journal opened", "path", dbPath)
	rt.closers = append(rt.closers, rt.store)
	return nil
}

// journal returns the event repo, or nil when the journal is off.
func (rt *runtime) journal() store.EventRepo {
	if rt.store == nil {
		return nil
	}
	return rt.store.EventRepo()
}

func (rt *runtime) drillOptions() drill.Options {
	return drill.Options{
		Tick:     rt.cfg.Tick,
		Exporter: export.NewXLSX(rt.cfg.ExportDir, rt.cfg.Tick),
		Journal:  rt.journal(),
		Player: audio.New(audio.Options{
			Enabled: rt.cfg.Sound,
			Command: rt.cfg.SoundCmd,
			Correct: rt.cfg.SoundCorrect,
			Wrong:   rt.cfg.SoundWrong,
		}),
		Logger: rt.logger,
	}
}

// newDrill builds a generator for op and level and the screen that runs it.
func (rt *runtime) newDrill(op problemgen.Operator, level problemgen.Level) (*drill.DrillScreen, error) {
	gen, err := problemgen.New(op, level, problemgen.WithTermCount(termsFor(op, rt.cfg.Terms)))
	if err != nil {
		return nil, err
	}
	return drill.New(gen, rt.drillOptions()), nil
}

// termsFor returns the configured term count. Subtraction always takes two.
func termsFor(op problemgen.Operator, configured int) int {
	if op == problemgen.OpSubtract {
		return problemgen.DefaultTermCount
	}
	return configured
}

// runHome opens the journal and launches the home menu.
func runHome(cmd *cobra.Command) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := rt.openJournal(cmd, false); err != nil {
		return err
	}

	start := func(op problemgen.Operator, level problemgen.Level) (screen.Screen, error) {
		d, err := rt.newDrill(op, level)
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	var hist home.HistoryFunc
	if repo := rt.journal(); repo != nil {
		hist = func() screen.Screen { return history.New(repo) }
	}

	return app.Run(home.New(start, hist, rt.cfg.DrillLevel()))
}
