package problemgen

import (
	"fmt"
	"math/rand/v2"
)

// DefaultTermCount is the number of terms in a generated problem.
const DefaultTermCount = 2

// MaxTermCount caps how many terms a problem can have.
const MaxTermCount = 10

// AnswerCeiling bounds every answer a generator may produce. A spreadsheet
// number holds 15 significant digits, so larger answers would not export
// exactly.
const AnswerCeiling = 999_999_999_999_999

// Generator produces arithmetic problems for a fixed operator and level.
type Generator interface {
	// Generate draws a new problem. It never fails once the generator
	// has been constructed.
	Generate() Problem

	Operator() Operator
	Level() Level

	// MaxAnswer is the largest answer Generate can return.
	MaxAnswer() int
}

// ArithmeticGenerator draws uniform random terms in the level's range and
// applies a single operator.
type ArithmeticGenerator struct {
	op        Operator
	level     Level
	termCount int
	maxAnswer int
	rng       *rand.Rand
}

var _ Generator = (*ArithmeticGenerator)(nil)

// Option configures an ArithmeticGenerator.
type Option func(*ArithmeticGenerator)

// WithRand sets the random source. Tests use a seeded source.
func WithRand(r *rand.Rand) Option {
	return func(g *ArithmeticGenerator) {
		g.rng = r
	}
}

// WithTermCount sets how many terms each problem has.
func WithTermCount(n int) Option {
	return func(g *ArithmeticGenerator) {
		g.termCount = n
	}
}

// New creates a generator. Configuration problems (unknown operator, level
// outside 1..3, unusable term count) are reported here rather than at
// generation time.
func New(op Operator, level Level, opts ...Option) (*ArithmeticGenerator, error) {
	if !op.Valid() {
		return nil, &UnsupportedOperatorError{Operator: string(op)}
	}
	if !level.Valid() {
		return nil, &InvalidLevelError{Level: level}
	}

	g := &ArithmeticGenerator{
		op:        op,
		level:     level,
		termCount: DefaultTermCount,
	}
	for _, opt := range opts {
		opt(g)
	}

	if err := ValidateTerms(op, level, g.termCount); err != nil {
		return nil, err
	}
	g.maxAnswer, _ = AnswerBound(op, level, g.termCount)
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g, nil
}

func (g *ArithmeticGenerator) Operator() Operator { return g.op }

func (g *ArithmeticGenerator) Level() Level { return g.level }

func (g *ArithmeticGenerator) MaxAnswer() int { return g.maxAnswer }

// ValidateTerms checks that op at level can draw n terms: between 2 and
// MaxTermCount, exactly 2 for subtraction, and with every possible answer
// within AnswerCeiling. Failures wrap ErrInvalidTermCount.
func ValidateTerms(op Operator, level Level, n int) error {
	if n < DefaultTermCount || n > MaxTermCount {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidTermCount, n, DefaultTermCount, MaxTermCount)
	}
	// A larger-first ordering only guarantees a non-negative difference
	// for two terms.
	if op == OpSubtract && n != DefaultTermCount {
		return fmt.Errorf("%w: subtraction supports exactly %d terms, got %d", ErrInvalidTermCount, DefaultTermCount, n)
	}
	if _, ok := AnswerBound(op, level, n); !ok {
		return fmt.Errorf("%w: %d terms at level %d can exceed %d", ErrInvalidTermCount, n, level, AnswerCeiling)
	}
	return nil
}

// AnswerBound returns the largest answer op can produce from n terms drawn
// at level. ok is false for an unknown level or when the bound exceeds
// AnswerCeiling.
func AnswerBound(op Operator, level Level, n int) (int, bool) {
	r, ok := level.Range()
	if !ok || n < 1 {
		return 0, false
	}

	var bound int
	switch op {
	case OpAdd:
		if n > AnswerCeiling/r.Max {
			return 0, false
		}
		bound = n * r.Max
	case OpSubtract:
		bound = r.Max - r.Min
	case OpMultiply:
		bound = 1
		for range n {
			if bound > AnswerCeiling/r.Max {
				return 0, false
			}
			bound *= r.Max
		}
	default:
		return 0, false
	}
	return bound, bound <= AnswerCeiling
}

// Generate draws terms and computes the answer.
func (g *ArithmeticGenerator) Generate() Problem {
	r, _ := g.level.Range()
	terms := make([]int, g.termCount)
	for i := range terms {
		terms[i] = r.Min + g.rng.IntN(r.Max-r.Min+1)
	}

	if g.op == OpSubtract && terms[0] < terms[1] {
		terms[0], terms[1] = terms[1], terms[0]
	}

	return Problem{
		Terms:    terms,
		Operator: g.op,
		Answer:   g.op.Apply(terms),
	}
}

// FromTerms builds a problem from explicit terms, applying the same
// subtraction ordering the generator uses.
func FromTerms(op Operator, terms ...int) Problem {
	t := make([]int, len(terms))
	copy(t, terms)
	if op == OpSubtract && len(t) == 2 && t[0] < t[1] {
		t[0], t[1] = t[1], t[0]
	}
	return Problem{Terms: t, Operator: op, Answer: op.Apply(t)}
}
