package core

import (
	"errors"
	"testing"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Range
		wantError bool
	}{
		{name: "simple", input: "0.4-0.6", want: Range{0.4, 0.6}},
		{name: "surrounding spaces", input: " 1000 - 200000 ", want: Range{1000, 200000}},
		{name: "integers", input: "0-100", want: Range{0, 100}},
		{name: "reversed bounds are accepted", input: "5-1", want: Range{5, 1}},
		{name: "letters", input: "abc", want: SentinelRange, wantError: true},
		{name: "single number", input: "5", want: SentinelRange, wantError: true},
		{name: "three tokens", input: "1-2-3", want: SentinelRange, wantError: true},
		{name: "negative low", input: "-1-5", want: SentinelRange, wantError: true},
		{name: "empty bound", input: "1-", want: SentinelRange, wantError: true},
		{name: "nan bound", input: "NaN-1", want: SentinelRange, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRange(tt.input)
			if got.Value != tt.want {
				t.Errorf("ParseRange(%q) = %v, want %v", tt.input, got.Value, tt.want)
			}
			if (got.Err != nil) != tt.wantError {
				t.Errorf("ParseRange(%q) err = %v, wantError %v", tt.input, got.Err, tt.wantError)
			}
			if got.Substituted != tt.wantError {
				t.Errorf("Substituted = %v, want %v", got.Substituted, tt.wantError)
			}
			if tt.wantError && !errors.Is(got.Err, ErrInvalidRange) {
				t.Errorf("err = %v, want ErrInvalidRange", got.Err)
			}
		})
	}
}

func TestRangeContains(t *testing.T) {
	r := Range{0.4, 0.6}
	for v, want := range map[float64]bool{0.4: true, 0.5: true, 0.6: true, 0.39: false, 0.61: false} {
		if got := r.Contains(v); got != want {
			t.Errorf("Contains(%v) = %v, want %v", v, got, want)
		}
	}
	if (Range{5, 1}).Contains(3) {
		t.Error("inverted range should contain nothing")
	}
}

func TestParseFactor(t *testing.T) {
	tests := []struct {
		input     string
		want      float64
		wantError bool
	}{
		{"1", 1, false},
		{"100000", 100000, false},
		{" 2.5 ", 2.5, false},
		{"oops", DefaultFactor, true},
		{"", DefaultFactor, true},
		{"Inf", DefaultFactor, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseFactor(tt.input)
			if got.Value != tt.want {
				t.Errorf("ParseFactor(%q) = %v, want %v", tt.input, got.Value, tt.want)
			}
			if (got.Err != nil) != tt.wantError {
				t.Errorf("ParseFactor(%q) err = %v", tt.input, got.Err)
			}
			if tt.wantError && MapError(got.Err).Code != "INP002" {
				t.Errorf("code = %s, want INP002", MapError(got.Err).Code)
			}
		})
	}
}
