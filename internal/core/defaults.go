package core

import "strings"

// Well-known institution and program columns.
const (
	ColName            = "name"
	ColSize            = "size"
	ColCity            = "city"
	ColState           = "state"
	ColZip             = "zip"
	ColRegion          = "region_id"
	ColLocale          = "locale"
	ColLon             = "lon"
	ColLat             = "lat"
	ColAdmissionRate   = "admission_rate.overall"
	ColEarnings10yr    = "10_yrs_after_entry.mean_earnings"
	ColAttendance      = "attendance.academic_year"
	ColNetPriceTop     = "net_price.income.110001-plus"
	ColProgramEarnings = "cip.earnings.median_earnings"
	ColProgramAwards   = "cip.counts.awards"
)

// Filter defaults pre-filled in the UI.
const (
	DefaultRange1Text = "0.0-1.0"
	DefaultRange2Text = "1000-200000"
)

// DefaultSelections is the advisory per-scope starting point for every
// view control. Overrides are validated against the schema; defaults are
// never forced.
type DefaultSelections struct {
	Columns         []string
	BubbleColumn    string
	EarningsColumn  string
	XColumn         string
	YColumn         string
	CategoryOptions []string
	CategoryIndex   int
	PairColumns     []string
	Filters         FilterSpec
}

// Defaults returns the default selections for a scope.
func Defaults(scope Scope) DefaultSelections {
	d := DefaultSelections{
		XColumn:       ColAdmissionRate,
		CategoryIndex: 0,
		Filters: FilterSpec{
			Range1: RangeConstraint{Column: ColAdmissionRate, Text: DefaultRange1Text},
			Range2: RangeConstraint{Column: ColSize, Text: DefaultRange2Text},
			Search: TextConstraint{Column: ColName},
		},
	}
	if scope == ScopeJoined {
		d.Columns = []string{ColName, ColAdmissionRate, ColProgramTitle, ColProgramEarnings, ColProgramAwards}
		d.BubbleColumn = ColProgramAwards
		d.EarningsColumn = ColProgramEarnings
		d.CategoryOptions = []string{ColRegion, ColLocale, ColProgramTitle}
		d.PairColumns = []string{ColAdmissionRate, ColProgramEarnings, ColProgramAwards}
	} else {
		d.Columns = []string{ColName, ColSize, ColCity, ColState, ColZip, ColRegion, ColAdmissionRate, ColEarnings10yr}
		d.BubbleColumn = ColSize
		d.EarningsColumn = ColEarnings10yr
		d.CategoryOptions = []string{ColRegion, ColLocale}
		d.PairColumns = []string{ColAdmissionRate, ColNetPriceTop, ColAttendance}
	}
	d.YColumn = d.EarningsColumn
	return d
}

// Available drops list-valued defaults that the schema does not have.
// Category options must also be non-numeric.
func (d DefaultSelections) Available(s Schema) DefaultSelections {
	out := d
	out.Columns = s.Present(d.Columns)
	out.PairColumns = nil
	for _, c := range d.PairColumns {
		if s.IsNumeric(c) {
			out.PairColumns = append(out.PairColumns, c)
		}
	}
	out.CategoryOptions = nil
	for _, c := range d.CategoryOptions {
		if s.IsText(c) {
			out.CategoryOptions = append(out.CategoryOptions, c)
		}
	}
	if out.CategoryIndex >= len(out.CategoryOptions) {
		out.CategoryIndex = 0
	}
	return out
}

// Category returns the default category column, or "" when none is available.
func (d DefaultSelections) Category() string {
	if d.CategoryIndex < 0 || d.CategoryIndex >= len(d.CategoryOptions) {
		return ""
	}
	return d.CategoryOptions[d.CategoryIndex]
}

// DefaultBubbleFactor returns the scale factor text for a bubble column.
// Percentage columns are fractions and need a large multiplier to be visible.
func DefaultBubbleFactor(bubble string) string {
	if strings.Contains(bubble, "Pct") {
		return "100000"
	}
	return "1"
}
