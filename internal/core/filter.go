package core

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Notice field names for the three filter constraints.
const (
	FieldRange1 = "range1"
	FieldRange2 = "range2"
	FieldSearch = "search"
)

// RangeConstraint keeps rows whose numeric Column value lies in the range
// written as "low-high". Empty Text disables the constraint.
type RangeConstraint struct {
	Column string
	Text   string
}

// describe renders the constraint for a notice substitute.
func (c RangeConstraint) describe() string {
	switch {
	case c.Column == "":
		return "no filter"
	case c.Text == "":
		return c.Column
	default:
		return c.Column + " " + c.Text
	}
}

// TextConstraint keeps rows whose text Column contains Text, ignoring case.
// Empty Text disables the constraint.
type TextConstraint struct {
	Column string
	Text   string
}

// FilterSpec is the full set of row constraints, combined with AND.
type FilterSpec struct {
	Range1 RangeConstraint
	Range2 RangeConstraint
	Search TextConstraint
}

// ApplyFilters returns the rows of t that pass every active constraint,
// together with a notice for each range text that could not be parsed.
//
// Rows are always required to have a name. Range constraints compare
// inclusively and reject missing values; an unparseable range falls back to
// SentinelRange. The text constraint uses Unicode case folding.
//
// Columns are assumed to have been validated against the schema. A column
// that is absent anyway is returned as a *ColumnError.
func ApplyFilters(t *Table, spec FilterSpec) (*Table, []Notice, error) {
	var notices []Notice

	names, err := t.Column(ColName)
	if err != nil {
		return nil, nil, err
	}
	keep := make([]bool, t.Len())
	for i := range keep {
		keep[i] = !names.IsMissing(i)
	}

	for _, rc := range []struct {
		field string
		c     RangeConstraint
	}{
		{FieldRange1, spec.Range1},
		{FieldRange2, spec.Range2},
	} {
		if rc.c.Text == "" {
			continue
		}
		col, err := t.Column(rc.c.Column)
		if err != nil {
			return nil, nil, err
		}
		res := ParseRange(rc.c.Text)
		if res.Err != nil {
			notices = append(notices, inputNotice(rc.field, res.Err, res.Value.String()))
		}
		for i := range keep {
			if !keep[i] {
				continue
			}
			v, ok := col.Float(i)
			keep[i] = ok && res.Value.Contains(v)
		}
	}

	if spec.Search.Text != "" {
		col, err := t.Column(spec.Search.Column)
		if err != nil {
			return nil, nil, err
		}
		fold := cases.Fold()
		needle := fold.String(norm.NFC.String(spec.Search.Text))
		for i := range keep {
			if !keep[i] {
				continue
			}
			s, ok := col.Text(i)
			keep[i] = ok && strings.Contains(fold.String(norm.NFC.String(s)), needle)
		}
	}

	return t.Filter(keep), notices, nil
}
