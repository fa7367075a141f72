package problemgen

import (
	"errors"
	"fmt"
)

// ErrInvalidTermCount is returned when a generator is configured with a term
// count the operator cannot support.
var ErrInvalidTermCount = errors.New("invalid term count")

// UnsupportedOperatorError indicates a generator was requested for an
// operator it cannot produce.
type UnsupportedOperatorError struct {
	Operator string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported operator %q", e.Operator)
}

// InvalidLevelError indicates a level outside 1..3.
type InvalidLevelError struct {
	Level Level
}

func (e *InvalidLevelError) Error() string {
	return fmt.Sprintf("invalid level %d (want 1-3)", e.Level)
}

// InvalidInputError indicates the learner typed something that is not an
// integer. It is recoverable: the learner is asked again.
type InvalidInputError struct {
	Input string
	Err   error
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("not a number: %q", e.Input)
}

func (e *InvalidInputError) Unwrap() error { return e.Err }
