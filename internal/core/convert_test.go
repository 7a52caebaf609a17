package core

import (
	"testing"
)

// ----------------------------------------------------------------------------
// ParseNumber Tests
// ----------------------------------------------------------------------------

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantOK bool
		want   float64
	}{
		// Valid: Basic numbers
		{name: "positive integer", input: "123", wantOK: true, want: 123},
		{name: "zero", input: "0", wantOK: true, want: 0},
		{name: "negative integer", input: "-456", wantOK: true, want: -456},
		{name: "decimal number", input: "123.45", wantOK: true, want: 123.45},
		{name: "leading decimal point", input: ".99", wantOK: true, want: 0.99},
		{name: "trailing decimal point", input: "99.", wantOK: true, want: 99},
		{name: "explicit positive sign", input: "+123", wantOK: true, want: 123},
		{name: "scientific notation", input: "1.5e-3", wantOK: true, want: 0.0015},

		// Valid: Currency and separators
		{name: "dollar sign", input: "$1,234.56", wantOK: true, want: 1234.56},
		{name: "euro sign", input: "€1234.56", wantOK: true, want: 1234.56},
		{name: "pound sign", input: "£1234.56", wantOK: true, want: 1234.56},
		{name: "millions with separators", input: "1,000,000", wantOK: true, want: 1000000},
		{name: "accounting negative parentheses", input: "(123.45)", wantOK: true, want: -123.45},
		{name: "accounting negative with currency", input: "($1,234.56)", wantOK: true, want: -1234.56},

		// Valid: CSV artifacts
		{name: "surrounded by whitespace", input: "  123.45  ", wantOK: true, want: 123.45},
		{name: "excel formula", input: `="0.5"`, wantOK: true, want: 0.5},

		// Missing markers
		{name: "empty string", input: "", wantOK: false},
		{name: "only whitespace", input: "   ", wantOK: false},
		{name: "NULL", input: "NULL", wantOK: false},
		{name: "NA", input: "NA", wantOK: false},
		{name: "NaN", input: "NaN", wantOK: false},
		{name: "privacy suppressed", input: "PrivacySuppressed", wantOK: false},

		// Invalid
		{name: "alphabetic string", input: "abc", wantOK: false},
		{name: "mixed alphanumeric", input: "12abc34", wantOK: false},
		{name: "only currency symbol", input: "$", wantOK: false},
		{name: "multiple decimal points", input: "1.2.3", wantOK: false},
		{name: "overflow", input: "1e999", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseNumber(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// InferKind / BuildColumn Tests
// ----------------------------------------------------------------------------

func TestInferKind(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		want  Kind
	}{
		{"all numbers", []string{"1", "2.5", "$3"}, KindNumeric},
		{"numbers with missing", []string{"1", "NULL", "", "PrivacySuppressed"}, KindNumeric},
		{"one word", []string{"1", "two"}, KindText},
		{"all missing", []string{"", "NA"}, KindText},
		{"zip codes stay numeric", []string{"02115", "30303"}, KindNumeric},
		{"empty column", nil, KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferKind(tt.cells); got != tt.want {
				t.Errorf("InferKind(%v) = %v, want %v", tt.cells, got, tt.want)
			}
		})
	}
}

func TestBuildColumn(t *testing.T) {
	num := BuildColumn("n", KindNumeric, []string{"1", "NULL", "(2)"})
	if v, ok := num.Float(0); !ok || v != 1 {
		t.Errorf("row 0 = %v, %v", v, ok)
	}
	if !num.IsMissing(1) {
		t.Error("NULL should be missing")
	}
	if v, _ := num.Float(2); v != -2 {
		t.Errorf("row 2 = %v, want -2", v)
	}

	txt := BuildColumn("s", KindText, []string{`"Boston"`, "NA", " x "})
	if got := txt.Strings(); !equalStrings(got, []string{"Boston", "", "x"}) {
		t.Errorf("text = %q", got)
	}
	if !txt.IsMissing(1) {
		t.Error("NA should be missing")
	}
}

// ----------------------------------------------------------------------------
// CleanCell Tests
// ----------------------------------------------------------------------------

func TestCleanCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// Basic cleaning
		{name: "simple string unchanged", input: "hello", want: "hello"},
		{name: "empty string", input: "", want: ""},

		// Whitespace trimming
		{name: "leading whitespace", input: "  hello", want: "hello"},
		{name: "trailing whitespace", input: "hello  ", want: "hello"},

		// Excel formula prefix handling
		{name: "Excel formula with quotes", input: `="hello"`, want: "hello"},
		{name: "Excel formula number as text", input: `="12345"`, want: "12345"},
		{name: "bare equals sign", input: "=SUM(A1)", want: "SUM(A1)"},

		// Quote handling
		{name: "double quotes removed", input: `"hello"`, want: "hello"},
		{name: "single quotes removed", input: "'hello'", want: "hello"},
		{name: "leading single quote (Excel text prefix)", input: "'12345", want: "12345"},

		// Combined cleaning
		{name: "whitespace and quotes", input: `  "hello"  `, want: "hello"},
		{name: "excel formula with whitespace", input: `  ="test"  `, want: "test"},
		{name: "only quotes", input: `""`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanCell(tt.input)
			if got != tt.want {
				t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
