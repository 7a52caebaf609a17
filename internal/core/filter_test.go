package core

import (
	"testing"
)

func TestApplyFiltersEmptySpec(t *testing.T) {
	tbl := testInstitutions(t)

	got, notices, err := ApplyFilters(tbl, FilterSpec{})
	if err != nil {
		t.Fatalf("ApplyFilters: %v", err)
	}
	if len(notices) != 0 {
		t.Errorf("notices = %v, want none", notices)
	}
	// exactly the rows with a name
	want := []string{"Alpha College", "Beta University", "Gamma Institute", "Délta Academy"}
	if names := textColumn(t, got, ColName); !equalStrings(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
	if got.Width() != tbl.Width() {
		t.Errorf("width = %d, want %d", got.Width(), tbl.Width())
	}
}

func TestApplyFilters(t *testing.T) {
	tbl := testInstitutions(t)

	tests := []struct {
		name        string
		spec        FilterSpec
		wantNames   []string
		wantNotices int
	}{
		{
			name:      "range inclusive bounds",
			spec:      FilterSpec{Range1: RangeConstraint{Column: ColAdmissionRate, Text: "0.2-0.5"}},
			wantNames: []string{"Alpha College", "Délta Academy"},
		},
		{
			name:      "missing values fail range",
			spec:      FilterSpec{Range2: RangeConstraint{Column: ColSize, Text: "0-1000000"}},
			wantNames: []string{"Alpha College", "Beta University", "Délta Academy"},
		},
		{
			name: "two ranges are combined",
			spec: FilterSpec{
				Range1: RangeConstraint{Column: ColAdmissionRate, Text: "0.0-1.0"},
				Range2: RangeConstraint{Column: ColSize, Text: "1000-200000"},
			},
			wantNames: []string{"Alpha College", "Beta University", "Délta Academy"},
		},
		{
			name:        "malformed range uses sentinel",
			spec:        FilterSpec{Range2: RangeConstraint{Column: ColSize, Text: "abc"}},
			wantNames:   []string{"Alpha College", "Beta University", "Délta Academy"},
			wantNotices: 1,
		},
		{
			name:      "reversed range keeps nothing",
			spec:      FilterSpec{Range1: RangeConstraint{Column: ColAdmissionRate, Text: "0.9-0.1"}},
			wantNames: []string{},
		},
		{
			name:      "substring ignores case",
			spec:      FilterSpec{Search: TextConstraint{Column: ColName, Text: "COLLEGE"}},
			wantNames: []string{"Alpha College"},
		},
		{
			name:      "substring folds non-ASCII",
			spec:      FilterSpec{Search: TextConstraint{Column: ColName, Text: "DÉLTA"}},
			wantNames: []string{"Délta Academy"},
		},
		{
			name:      "substring missing values fail",
			spec:      FilterSpec{Search: TextConstraint{Column: ColRegion, Text: "a"}},
			wantNames: []string{"Alpha College", "Beta University", "Gamma Institute"},
		},
		{
			name: "all constraints",
			spec: FilterSpec{
				Range1: RangeConstraint{Column: ColAdmissionRate, Text: "0.0-1.0"},
				Range2: RangeConstraint{Column: ColSize, Text: "1000-200000"},
				Search: TextConstraint{Column: ColCity, Text: "at"},
			},
			wantNames: []string{"Beta University"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, notices, err := ApplyFilters(tbl, tt.spec)
			if err != nil {
				t.Fatalf("ApplyFilters: %v", err)
			}
			if names := textColumn(t, got, ColName); !equalStrings(names, tt.wantNames) {
				t.Errorf("names = %v, want %v", names, tt.wantNames)
			}
			if len(notices) != tt.wantNotices {
				t.Errorf("notices = %d, want %d", len(notices), tt.wantNotices)
			}
		})
	}
}

func TestApplyFiltersRangeProperty(t *testing.T) {
	tbl := testInstitutions(t)
	r := Range{0.25, 0.8}

	got, _, err := ApplyFilters(tbl, FilterSpec{Range1: RangeConstraint{Column: ColAdmissionRate, Text: r.String()}})
	if err != nil {
		t.Fatalf("ApplyFilters: %v", err)
	}

	kept, _ := got.Column(ColAdmissionRate)
	for i := 0; i < kept.Len(); i++ {
		v, ok := kept.Float(i)
		if !ok || !r.Contains(v) {
			t.Errorf("kept row %d with value %v outside %v", i, v, r)
		}
	}

	// every named row inside the range must have been kept
	src, _ := tbl.Column(ColAdmissionRate)
	names, _ := tbl.Column(ColName)
	inside := 0
	for i := 0; i < tbl.Len(); i++ {
		if v, ok := src.Float(i); ok && r.Contains(v) && !names.IsMissing(i) {
			inside++
		}
	}
	if got.Len() != inside {
		t.Errorf("kept %d rows, want %d", got.Len(), inside)
	}
}

func TestApplyFiltersNotice(t *testing.T) {
	tbl := testInstitutions(t)

	_, notices, err := ApplyFilters(tbl, FilterSpec{Range1: RangeConstraint{Column: ColAdmissionRate, Text: "abc"}})
	if err != nil {
		t.Fatalf("ApplyFilters: %v", err)
	}
	if len(notices) != 1 {
		t.Fatalf("notices = %d, want 1", len(notices))
	}
	n := notices[0]
	if n.Kind != NoticeInput || n.Field != FieldRange1 || n.Code != "INP001" || n.Substitute != "0-100000" {
		t.Errorf("notice = %+v", n)
	}
}

func TestApplyFiltersUnknownColumn(t *testing.T) {
	tbl := testInstitutions(t)

	_, _, err := ApplyFilters(tbl, FilterSpec{Range1: RangeConstraint{Column: "nope", Text: "0-1"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if MapError(err).Code != "CFG001" {
		t.Errorf("code = %s, want CFG001", MapError(err).Code)
	}

	// inactive constraints do not look up their column
	if _, _, err := ApplyFilters(tbl, FilterSpec{Range1: RangeConstraint{Column: "nope"}}); err != nil {
		t.Errorf("inactive constraint error = %v", err)
	}
}
