package problemgen

import (
	"strconv"
	"strings"
)

// Operator is the arithmetic operation a problem asks for.
type Operator string

const (
	OpAdd      Operator = "add"
	OpSubtract Operator = "subtract"
	OpMultiply Operator = "multiply"
)

// Operators lists the supported operators in menu order.
var Operators = []Operator{OpAdd, OpSubtract, OpMultiply}

// Symbol returns the operator glyph used in problem text.
func (o Operator) Symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	}
	return "?"
}

// DisplayName returns the human-readable operator name.
func (o Operator) DisplayName() string {
	switch o {
	case OpAdd:
		return "Addition"
	case OpSubtract:
		return "Subtraction"
	case OpMultiply:
		return "Multiplication"
	}
	return string(o)
}

// Valid reports whether the operator is supported.
func (o Operator) Valid() bool {
	switch o {
	case OpAdd, OpSubtract, OpMultiply:
		return true
	}
	return false
}

// Apply folds the operator over terms left to right.
func (o Operator) Apply(terms []int) int {
	if len(terms) == 0 {
		return 0
	}
	result := terms[0]
	for _, t := range terms[1:] {
		switch o {
		case OpAdd:
			result += t
		case OpSubtract:
			result -= t
		case OpMultiply:
			result *= t
		}
	}
	return result
}

// ParseOperator maps a user-supplied name or symbol to an Operator.
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add", "+", "plus", "addition":
		return OpAdd, nil
	case "subtract", "sub", "-", "minus", "subtraction":
		return OpSubtract, nil
	case "multiply", "mul", "*", "x", "times", "multiplication":
		return OpMultiply, nil
	}
	return "", &UnsupportedOperatorError{Operator: s}
}

// Level is a difficulty tier controlling term magnitude.
type Level int

const (
	Level1 Level = 1
	Level2 Level = 2
	Level3 Level = 3
)

// TermRange is an inclusive range of term values.
type TermRange struct {
	Min int
	Max int
}

var levelRanges = map[Level]TermRange{
	Level1: {Min: 1, Max: 9},
	Level2: {Min: 1, Max: 19},
	Level3: {Min: 10, Max: 50},
}

// Range returns the term range for the level. ok is false for unknown levels.
func (l Level) Range() (TermRange, bool) {
	r, ok := levelRanges[l]
	return r, ok
}

// Valid reports whether the level is one of the defined tiers.
func (l Level) Valid() bool {
	_, ok := levelRanges[l]
	return ok
}

// Problem is a single generated arithmetic question.
type Problem struct {
	Terms    []int
	Operator Operator
	Answer   int
}

// Text renders the problem as terms joined by the operator symbol, e.g. "12-5".
func (p Problem) Text() string {
	parts := make([]string, len(p.Terms))
	for i, t := range p.Terms {
		parts[i] = strconv.Itoa(t)
	}
	return strings.Join(parts, p.Operator.Symbol())
}

// IsZero reports whether the problem is unset.
func (p Problem) IsZero() bool {
	return len(p.Terms) == 0
}
