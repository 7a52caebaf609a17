package core

// convert.go turns raw CSV and database cells into typed column values.
//
// These functions handle the messy reality of exported datasets:
//   - Missing-value markers (NULL, NA, NaN, PrivacySuppressed)
//   - Currency symbols and thousand separators in numbers
//   - Accounting-style negatives "(123.45)"
//   - Excel formula prefixes (="value")
//   - Surrounding quotes
//
// A column is declared numeric only when every non-missing cell passes
// ParseNumber; the decision is made once, at load time.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// missingMarkers are cell values that mean "no value". Matched after
// CleanCell, case-insensitively.
var missingMarkers = map[string]bool{
	"":                  true,
	"null":              true,
	"na":                true,
	"n/a":               true,
	"nan":               true,
	"privacysuppressed": true,
}

// CleanCell removes common CSV artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// IsMissing reports whether a raw cell holds one of the missing-value markers.
func IsMissing(s string) bool {
	return missingMarkers[strings.ToLower(CleanCell(s))]
}

// ParseNumber converts a raw cell to a float64.
// Handles currency symbols, thousands separators, and accounting format (parentheses for negative).
// ok is false for missing markers and anything that is not a number.
func ParseNumber(s string) (v float64, ok bool) {
	s = CleanCell(s)
	if missingMarkers[strings.ToLower(s)] {
		return 0, false
	}

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	// Remove common currency symbols and thousands separators
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// InferKind reports KindNumeric when every non-missing cell parses as a
// number and at least one cell does. All-missing columns are text.
func InferKind(cells []string) Kind {
	seen := false
	for _, c := range cells {
		if IsMissing(c) {
			continue
		}
		if _, ok := ParseNumber(c); !ok {
			return KindText
		}
		seen = true
	}
	if !seen {
		return KindText
	}
	return KindNumeric
}

// BuildColumn converts raw cells to a typed column of the given kind.
func BuildColumn(name string, kind Kind, cells []string) *Column {
	valid := make([]bool, len(cells))
	if kind == KindNumeric {
		nums := make([]float64, len(cells))
		for i, c := range cells {
			nums[i], valid[i] = ParseNumber(c)
		}
		return NewNumericColumn(name, nums, valid)
	}
	strs := make([]string, len(cells))
	for i, c := range cells {
		if IsMissing(c) {
			continue
		}
		strs[i] = CleanCell(c)
		valid[i] = true
	}
	return NewTextColumn(name, strs, valid)
}
