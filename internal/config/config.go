package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/abhisek/mathdrill/internal/problemgen"
)

// EnvPrefix is prepended to every environment key.
const EnvPrefix = "MATHDRILL_"

// Config holds drill defaults and runtime settings. Cobra flags override
// whatever the environment provides.
type Config struct {
	Operator  string        `env:"OPERATOR" envDefault:"add"`
	Level     int           `env:"LEVEL" envDefault:"1"`
	Terms     int           `env:"TERMS" envDefault:"2"`
	Tick      time.Duration `env:"TICK" envDefault:"1.5s"`
	ExportDir string        `env:"EXPORT_DIR" envDefault:"."`

	DBPath    string `env:"DB"`
	NoJournal bool   `env:"NO_JOURNAL"`

	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFile  string     `env:"LOG_FILE"`

	Sound        bool   `env:"SOUND" envDefault:"true"`
	SoundCmd     string `env:"SOUND_CMD"`
	SoundCorrect string `env:"SOUND_CORRECT" envDefault:"assets/good.wav"`
	SoundWrong   string `env:"SOUND_WRONG" envDefault:"assets/bad.wav"`
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	// Ignore error so the app still starts when .env is absent.
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the environment without touching .env files.
func Parse() (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: EnvPrefix})
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// ErrInvalidTick is returned when the countdown interval is not positive.
var ErrInvalidTick = errors.New("tick interval must be positive")

// Validate checks the drill settings before a generator is built.
func (c *Config) Validate() error {
	op, err := problemgen.ParseOperator(c.Operator)
	if err != nil {
		return err
	}
	level := problemgen.Level(c.Level)
	if !level.Valid() {
		return &problemgen.InvalidLevelError{Level: level}
	}
	if err := problemgen.ValidateTerms(op, level, c.Terms); err != nil {
		return err
	}
	if c.Tick <= 0 {
		return ErrInvalidTick
	}
	return nil
}

// DrillOperator returns the configured operator. Call Validate first.
func (c *Config) DrillOperator() problemgen.Operator {
	op, _ := problemgen.ParseOperator(c.Operator)
	return op
}

// DrillLevel returns the configured level.
func (c *Config) DrillLevel() problemgen.Level {
	return problemgen.Level(c.Level)
}
