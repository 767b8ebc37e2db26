// Package docnumber produces human-readable document codes of the form
// PREFIX-NNN. The database unique index stays the final authority on
// uniqueness; this generator only reduces collision probability.
package docnumber

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// maxAttempts bounds collision retries. Hitting the bound means the unique
// index is not doing its job and the deployment is misconfigured.
const maxAttempts = 100

// ErrExhausted is returned when maxAttempts collisions occur in a row.
var ErrExhausted = errors.New("docnumber: attempt limit reached, unique index likely missing")

// ExistsFunc reports whether a candidate code is already taken.
type ExistsFunc func(code string) (bool, error)

// LastFunc returns the most recently issued code for the prefix. ok is false
// when no code has been issued yet.
type LastFunc func() (code string, ok bool, err error)

// Generate returns the next free code for prefix, zero-padded to three
// digits and uncapped beyond that width.
func Generate(prefix string, exists ExistsFunc, last LastFunc) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", errors.New("docnumber: empty prefix")
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		lastCode, ok, err := last()
		if err != nil {
			return "", err
		}

		next := 1
		if ok {
			if n, parsed := parseSuffix(prefix, lastCode); parsed {
				next = n + 1
			}
		}

		candidate := Format(prefix, next)
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", ErrExhausted
}

// Format renders a code for the given sequence value.
func Format(prefix string, n int) string {
	return fmt.Sprintf("%s-%03d", prefix, n)
}

// parseSuffix extracts the numeric suffix of code. A code that does not
// match the prefix pattern counts as no prior code.
func parseSuffix(prefix, code string) (int, bool) {
	code = strings.TrimSpace(code)
	if !strings.HasPrefix(code, prefix) {
		return 0, false
	}
	suffix := strings.TrimPrefix(code, prefix)
	suffix = strings.TrimLeft(suffix, "-_ ")
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
