package problemgen

import (
	"strconv"
	"strings"
)

// ParseAnswer converts the learner's raw input into an integer.
//
// Normalization rules:
// - Whitespace is trimmed
// - Leading zeros and an explicit sign are accepted ("007", "+7", "-3")
// - Anything else returns *InvalidInputError
func ParseAnswer(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &InvalidInputError{Input: raw, Err: err}
	}
	return n, nil
}

// CheckAnswer parses raw and reports whether it equals the problem's
// answer. Unparseable input returns the *InvalidInputError from ParseAnswer.
func CheckAnswer(raw string, p Problem) (n int, correct bool, err error) {
	n, err = ParseAnswer(raw)
	if err != nil {
		return 0, false, err
	}
	return n, n == p.Answer, nil
}
