package protocol

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

var (
	// ErrMalformed is wrapped by every error about a line that cannot be parsed.
	ErrMalformed = errors.New("malformed input")
	// ErrUnknownEntity is wrapped when an entity line carries an unknown type keyword.
	ErrUnknownEntity = errors.New("unknown entity type")
)

// ParseError locates a protocol error within the input stream.
type ParseError struct {
	Line       int    // 1-based line number in the stream
	Field      string // field being parsed, empty for whole-line errors
	Text       string // offending token or line
	Suggestion string // closest known keyword, for unknown entity types
	Err        error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "line %d", e.Line)
	if e.Field != "" {
		fmt.Fprintf(&b, ": %s", e.Field)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	if e.Text != "" {
		fmt.Fprintf(&b, " %q", e.Text)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, " (did you mean %s?)", e.Suggestion)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// suggestKeyword returns the known entity keyword closest to word, or "" when
// nothing is close enough to be a plausible typo.
func suggestKeyword(word string) string {
	word = strings.ToUpper(word)
	best := ""
	bestDist := 0
	for _, kw := range entityKeywords {
		dist := levenshtein.ComputeDistance(word, kw)
		if dist > levenshteinLimit(len(kw)) {
			continue
		}
		if best == "" || dist < bestDist {
			best, bestDist = kw, dist
		}
	}
	return best
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
