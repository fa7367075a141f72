// Package audio plays short feedback cues after a scored answer.
package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// Cue identifies which feedback sound to play.
type Cue int

const (
	CueCorrect Cue = iota
	CueWrong
)

func (c Cue) String() string {
	switch c {
	case CueCorrect:
		return "correct"
	case CueWrong:
		return "wrong"
	}
	return "unknown"
}

// ErrNoSound is returned when a cue has no sound file configured.
var ErrNoSound = errors.New("no sound file for cue")

// PlayTimeout bounds how long one cue may run.
const PlayTimeout = 3 * time.Second

// Player plays feedback cues. Implementations must be safe to call from a
// tea.Cmd goroutine.
type Player interface {
	Play(ctx context.Context, cue Cue) error
}

// Nop plays nothing.
type Nop struct{}

func (Nop) Play(context.Context, Cue) error { return nil }

// BellPlayer rings the terminal bell for every cue.
type BellPlayer struct {
	W io.Writer
}

func (b BellPlayer) Play(context.Context, Cue) error {
	w := b.W
	if w == nil {
		w = os.Stderr
	}
	_, err := io.WriteString(w, "\a")
	return err
}

// runFunc executes an external command.
type runFunc func(ctx context.Context, name string, args ...string) error

func execRun(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// CommandPlayer plays wav files through an external player such as
// paplay, aplay or afplay.
type CommandPlayer struct {
	Command string
	Files   map[Cue]string
	run     runFunc
}

// NewCommandPlayer creates a player that runs command with the cue's file.
func NewCommandPlayer(command string, files map[Cue]string) *CommandPlayer {
	return &CommandPlayer{Command: command, Files: files, run: execRun}
}

func (p *CommandPlayer) Play(ctx context.Context, cue Cue) error {
	path, ok := p.Files[cue]
	if !ok || path == "" {
		return fmt.Errorf("%w: %s", ErrNoSound, cue)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("sound file %s: %w", path, err)
	}

	ctx, cancel := context.WithTimeout(ctx, PlayTimeout)
	defer cancel()
	if err := p.run(ctx, p.Command, path); err != nil {
		return fmt.Errorf("play %s with %s: %w", path, p.Command, err)
	}
	return nil
}

// FallbackPlayer tries Primary and uses Fallback when it fails.
type FallbackPlayer struct {
	Primary  Player
	Fallback Player
}

func (p FallbackPlayer) Play(ctx context.Context, cue Cue) error {
	err := p.Primary.Play(ctx, cue)
	if err == nil {
		return nil
	}
	if fbErr := p.Fallback.Play(ctx, cue); fbErr != nil {
		return errors.Join(err, fbErr)
	}
	return err
}

// knownPlayers are probed in order when no command is configured.
var knownPlayers = []string{"paplay", "aplay", "afplay"}

// DetectCommand returns the first known player found on PATH, or "".
func DetectCommand() string {
	return detectCommand(exec.LookPath)
}

func detectCommand(lookPath func(string) (string, error)) string {
	for _, name := range knownPlayers {
		if _, err := lookPath(name); err == nil {
			return name
		}
	}
	return ""
}

// Options configures New.
type Options struct {
	Enabled bool
	// Command overrides player detection.
	Command string
	Correct string
	Wrong   string
}

// New builds the player described by opts: silent when disabled, the bell
// when no external player exists, otherwise the external player backed by
// the bell.
func New(opts Options) Player {
	if !opts.Enabled {
		return Nop{}
	}
	command := opts.Command
	if command == "" {
		command = DetectCommand()
	}
	bell := BellPlayer{}
	if command == "" {
		return bell
	}
	return FallbackPlayer{
		Primary: NewCommandPlayer(command, map[Cue]string{
			CueCorrect: opts.Correct,
			CueWrong:   opts.Wrong,
		}),
		Fallback: bell,
	}
}
