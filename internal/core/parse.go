package core

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parse failures. Both are recoverable: callers substitute a fallback value.
var (
	ErrInvalidRange  = errors.New("invalid range")
	ErrInvalidFactor = errors.New("invalid scale factor")
)

// SentinelRange is substituted when range text cannot be parsed. It is a
// fixed fallback, not derived from the data.
var SentinelRange = Range{Low: 0, High: 100000}

// DefaultFactor is substituted when a bubble scale factor cannot be parsed.
const DefaultFactor = 1.0

// Range is an inclusive numeric interval.
type Range struct {
	Low, High float64
}

// Contains reports whether low <= v <= high. A range with low > high
// contains nothing.
func (r Range) Contains(v float64) bool {
	return r.Low <= v && v <= r.High
}

func (r Range) String() string {
	return strconv.FormatFloat(r.Low, 'f', -1, 64) + "-" + strconv.FormatFloat(r.High, 'f', -1, 64)
}

// ParseError records the input that failed to parse.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Input)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseResult carries a parsed value, or the substitute used when parsing
// failed together with the reason.
type ParseResult[T any] struct {
	Value       T
	Err         error
	Substituted bool
}

// ParseRange parses "low-high". The text is split on the hyphen into
// exactly two tokens; whitespace around either token is allowed.
func ParseRange(text string) ParseResult[Range] {
	fail := func() ParseResult[Range] {
		return ParseResult[Range]{
			Value:       SentinelRange,
			Err:         &ParseError{Input: text, Err: ErrInvalidRange},
			Substituted: true,
		}
	}

	parts := strings.Split(text, "-")
	if len(parts) != 2 {
		return fail()
	}
	low, ok := parseBound(parts[0])
	if !ok {
		return fail()
	}
	high, ok := parseBound(parts[1])
	if !ok {
		return fail()
	}
	return ParseResult[Range]{Value: Range{Low: low, High: high}}
}

func parseBound(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// ParseFactor parses a bubble scale factor.
func ParseFactor(text string) ParseResult[float64] {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return ParseResult[float64]{
			Value:       DefaultFactor,
			Err:         &ParseError{Input: text, Err: ErrInvalidFactor},
			Substituted: true,
		}
	}
	return ParseResult[float64]{Value: f}
}
