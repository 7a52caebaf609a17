package core

import (
	"math"
	"testing"
)

var nan = math.NaN()

// testInstitutions returns a small institution table:
//
//	id name             size   region      admit earnings
//	1  Alpha College    5000   New England 0.5   60000
//	2  Beta University  1200   Southeast   0.8   45000
//	3  (missing)        800    Far West    0.3   50000
//	4  Gamma Institute  (NaN)  Plains      (NaN) 40000
//	5  Délta Academy    30000  (missing)   0.2   80000
func testInstitutions(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTableBuilder().
		AddNumeric(ColID, []float64{1, 2, 3, 4, 5}, nil).
		AddText(ColName, []string{"Alpha College", "Beta University", "", "Gamma Institute", "Délta Academy"}, []bool{true, true, false, true, true}).
		AddNumeric(ColSize, []float64{5000, 1200, 800, nan, 30000}, nil).
		AddText(ColCity, []string{"Boston", "Atlanta", "Fresno", "Omaha", "Los Angeles"}, nil).
		AddText(ColState, []string{"MA", "GA", "CA", "NE", "CA"}, nil).
		AddText(ColZip, []string{"02115", "30303", "93740", "68178", "90007"}, nil).
		AddText(ColRegion, []string{"New England", "Southeast", "Far West", "Plains", ""}, []bool{true, true, true, true, false}).
		AddText(ColLocale, []string{"Large City", "Large City", "Midsize City", "Midsize City", "Large City"}, nil).
		AddNumeric(ColLon, []float64{-71.1, -84.4, nan, -96.0, -118.3}, nil).
		AddNumeric(ColLat, []float64{42.3, 33.7, 36.8, nan, 34.0}, nil).
		AddNumeric(ColAdmissionRate, []float64{0.5, 0.8, 0.3, nan, 0.2}, nil).
		AddNumeric(ColEarnings10yr, []float64{60000, 45000, 50000, 40000, 80000}, nil).
		AddNumeric(ColNetPriceTop, []float64{30000, 25000, 20000, nan, 40000}, nil).
		AddNumeric(ColAttendance, []float64{4000, 1000, 700, 900, 25000}, nil).
		Done()
	if err != nil {
		t.Fatalf("build institutions: %v", err)
	}
	return tbl
}

// testPrograms returns program rows keyed to testInstitutions. Row 4
// references an institution that does not exist.
func testPrograms(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTableBuilder().
		AddNumeric(ColProgramUnitID, []float64{1, 1, 2, 3, 9, 2}, nil).
		AddText(ColProgramTitle, []string{"Computer Science.", "Computer Science.", "Computer Science.", "Biology.", "Computer Science.", "Nursing."}, nil).
		AddText(ColProgramCredential, []string{"Bachelor's Degree", "Master's Degree", "Bachelor's Degree", "Bachelor's Degree", "Bachelor's Degree", "Bachelor's Degree"}, nil).
		AddNumeric(ColProgramEarnings, []float64{70000, 90000, 55000, 40000, 1, 60000}, nil).
		AddNumeric(ColProgramAwards, []float64{100, 20, 50, 30, 5, 80}, nil).
		Done()
	if err != nil {
		t.Fatalf("build programs: %v", err)
	}
	return tbl
}

func textColumn(t *testing.T, tbl *Table, name string) []string {
	t.Helper()
	c, err := tbl.Column(name)
	if err != nil {
		t.Fatalf("column %q: %v", name, err)
	}
	return c.Strings()
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
