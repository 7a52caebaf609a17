package core

import (
	"context"
	"errors"
	"testing"

	"github.com/JonMunkholm/CollegeExplorer/internal/logging"
)

func singleInstitution(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTableBuilder().
		AddNumeric(ColID, []float64{100}, nil).
		AddText(ColName, []string{"Alpha College"}, nil).
		AddNumeric(ColSize, []float64{5000}, nil).
		AddText(ColRegion, []string{"New England"}, nil).
		AddNumeric(ColAdmissionRate, []float64{0.5}, nil).
		AddNumeric(ColEarnings10yr, []float64{60000}, nil).
		Done()
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestExplorerSingleInstitution(t *testing.T) {
	ex := NewExplorer(singleInstitution(t), nil)

	tests := []struct {
		name     string
		rangeTxt string
		wantRows int
	}{
		{"inside range", "0.4-0.6", 1},
		{"outside range", "0.7-1.0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ex.Run(context.Background(), Selection{
				Mode:    ModeTableScatter,
				Filters: FilterSpec{Range1: RangeConstraint{Column: ColAdmissionRate, Text: tt.rangeTxt}},
			})
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if res.Plan.Table.RowCount != tt.wantRows {
				t.Errorf("table rows = %d, want %d", res.Plan.Table.RowCount, tt.wantRows)
			}
			if res.Plan.Scatter.RowCount != tt.wantRows {
				t.Errorf("scatter rows = %d, want %d", res.Plan.Scatter.RowCount, tt.wantRows)
			}
			if len(res.Notices) != 0 {
				t.Errorf("notices = %v", res.Notices)
			}
			if res.PassID == "" {
				t.Error("missing pass ID")
			}
		})
	}
}

func TestExplorerDefaults(t *testing.T) {
	ex := NewExplorer(testInstitutions(t), testPrograms(t))

	res, err := ex.Run(context.Background(), Selection{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Scope != ScopeInstitution {
		t.Errorf("scope = %v", res.Scope)
	}
	v := res.View
	if v.XColumn != ColAdmissionRate || v.YColumn != ColEarnings10yr || v.BubbleColumn != ColSize || v.CategoryColumn != ColRegion {
		t.Errorf("view = %+v", v)
	}
	if !equalStrings(v.Columns, Defaults(ScopeInstitution).Columns) {
		t.Errorf("columns = %v", v.Columns)
	}
	if res.Filters.Range1.Column != ColAdmissionRate || res.Filters.Search.Column != ColName {
		t.Errorf("filters = %+v", res.Filters)
	}
	// no filter text: every named row
	if res.FilteredRows != 4 || res.WorkingRows != 5 {
		t.Errorf("rows = %d/%d, want 4/5", res.FilteredRows, res.WorkingRows)
	}
}

func TestExplorerJoinedScope(t *testing.T) {
	ex := NewExplorer(testInstitutions(t), testPrograms(t))

	res, err := ex.Run(context.Background(), Selection{
		Mode:       ModeTableMap,
		Categories: []string{"Computer Science."},
		Credential: "Bachelor's Degree",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Scope != ScopeJoined || res.WorkingRows != 2 {
		t.Fatalf("scope = %v rows = %d", res.Scope, res.WorkingRows)
	}
	if res.View.BubbleColumn != ColProgramAwards || res.View.BubbleFactor != "1" {
		t.Errorf("view = %+v", res.View)
	}
	if !equalStrings(res.View.Columns, Defaults(ScopeJoined).Columns) {
		t.Errorf("columns = %v", res.View.Columns)
	}
	if res.Plan.Map == nil || res.Plan.Map.RowCount != 2 {
		t.Errorf("map = %+v", res.Plan.Map)
	}
}

func TestExplorerConfigNotices(t *testing.T) {
	ex := NewExplorer(testInstitutions(t), testPrograms(t))

	res, err := ex.Run(context.Background(), Selection{
		Mode:           ModeTableScatter,
		Filters:        FilterSpec{Range1: RangeConstraint{Column: ColName, Text: "0-1"}},
		Columns:        []string{ColName, "cip.title"},
		XColumn:        "no_such_column",
		CategoryColumn: ColSize,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Filters.Range1.Column != ColAdmissionRate {
		t.Errorf("range1 column = %q, want reset to default", res.Filters.Range1.Column)
	}
	if res.View.XColumn != ColAdmissionRate {
		t.Errorf("x = %q, want reset to default", res.View.XColumn)
	}
	if res.View.CategoryColumn != ColRegion {
		t.Errorf("category = %q, want reset to default", res.View.CategoryColumn)
	}
	if !equalStrings(res.View.Columns, Defaults(ScopeInstitution).Columns) {
		t.Errorf("columns = %v, want defaults", res.View.Columns)
	}

	input, config := CountNotices(res.Notices)
	if input != 0 || config != 4 {
		t.Errorf("notices input=%d config=%d, want 0/4: %v", input, config, res.Notices)
	}
	codes := map[string]string{}
	for _, n := range res.Notices {
		codes[n.Field] = n.Code
	}
	want := map[string]string{FieldRange1: "CFG002", FieldX: "CFG001", FieldCategory: "CFG002", FieldColumns: "CFG001"}
	for field, code := range want {
		if codes[field] != code {
			t.Errorf("notice %s code = %q, want %q", field, codes[field], code)
		}
	}
}

func TestExplorerStaleRangeResetsText(t *testing.T) {
	ex := NewExplorer(testInstitutions(t), testPrograms(t))

	tests := []struct {
		name      string
		filters   FilterSpec
		field     string
		wantCode  string
		want      func(FilterSpec) RangeConstraint
		wantRange RangeConstraint
	}{
		{
			name:      "program column in institution scope",
			filters:   FilterSpec{Range1: RangeConstraint{Column: ColProgramAwards, Text: "40-200"}},
			field:     FieldRange1,
			wantCode:  "CFG001",
			want:      func(f FilterSpec) RangeConstraint { return f.Range1 },
			wantRange: RangeConstraint{Column: ColAdmissionRate, Text: DefaultRange1Text},
		},
		{
			name:      "text column",
			filters:   FilterSpec{Range2: RangeConstraint{Column: ColName, Text: "5-10"}},
			field:     FieldRange2,
			wantCode:  "CFG002",
			want:      func(f FilterSpec) RangeConstraint { return f.Range2 },
			wantRange: RangeConstraint{Column: ColSize, Text: DefaultRange2Text},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ex.Run(context.Background(), Selection{Mode: ModeTableScatter, Filters: tt.filters})
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if got := tt.want(res.Filters); got != tt.wantRange {
				t.Errorf("range after reset = %+v, want %+v", got, tt.wantRange)
			}
			// rows 1, 2 and 5 have a name and pass the default range
			if res.FilteredRows != 3 {
				t.Errorf("filtered rows = %d, want 3", res.FilteredRows)
			}
			if len(res.Notices) != 1 {
				t.Fatalf("notices = %v, want one", res.Notices)
			}
			n := res.Notices[0]
			wantSub := tt.wantRange.Column + " " + tt.wantRange.Text
			if n.Kind != NoticeConfig || n.Field != tt.field || n.Code != tt.wantCode || n.Substitute != wantSub {
				t.Errorf("notice = %+v, want %s %s substitute %q", n, tt.field, tt.wantCode, wantSub)
			}
		})
	}
}

func TestExplorerEmptyJoin(t *testing.T) {
	ex := NewExplorer(testInstitutions(t), testPrograms(t))

	for _, mode := range Modes {
		t.Run(mode.String(), func(t *testing.T) {
			res, err := ex.Run(context.Background(), Selection{
				Mode:         mode,
				Categories:   []string{"Nope."},
				Credential:   "Bachelor's Degree",
				Filters:      FilterSpec{Range1: RangeConstraint{Text: "abc"}},
				BubbleFactor: "oops",
			})
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if res.Scope != ScopeJoined || res.WorkingRows != 0 || res.FilteredRows != 0 {
				t.Errorf("scope = %v working = %d filtered = %d", res.Scope, res.WorkingRows, res.FilteredRows)
			}

			plan := res.Plan
			if mode.ShowsTable() && (plan.Table == nil || plan.Table.RowCount != 0) {
				t.Errorf("table = %+v", plan.Table)
			}
			if mode.ShowsScatter() && (plan.Scatter == nil || plan.Scatter.RowCount != 0) {
				t.Errorf("scatter = %+v", plan.Scatter)
			}
			if mode.ShowsMap() && (plan.Map == nil || plan.Map.RowCount != 0) {
				t.Errorf("map = %+v", plan.Map)
			}
			if mode == ModePairPlot && (plan.Pair == nil || plan.Pair.RowCount != 0) {
				t.Errorf("pair = %+v", plan.Pair)
			}

			wantInput := 1
			if mode.ShowsMap() {
				wantInput = 2
			}
			if input, _ := CountNotices(res.Notices); input != wantInput {
				t.Errorf("input notices = %d, want %d: %v", input, wantInput, res.Notices)
			}
		})
	}
}

func TestExplorerPassID(t *testing.T) {
	ex := NewExplorer(testInstitutions(t), testPrograms(t))

	ctx := logging.WithPass(context.Background(), "pass-from-request")
	res, err := ex.Run(ctx, Selection{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.PassID != "pass-from-request" {
		t.Errorf("PassID = %q, want the context's", res.PassID)
	}

	a, err := ex.Run(context.Background(), Selection{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, err := ex.Run(context.Background(), Selection{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if a.PassID == "" || a.PassID == b.PassID {
		t.Errorf("generated pass IDs %q and %q", a.PassID, b.PassID)
	}
}

func TestExplorerInputNotices(t *testing.T) {
	ex := NewExplorer(testInstitutions(t), nil)

	res, err := ex.Run(context.Background(), Selection{
		Mode:         ModeMap,
		Filters:      FilterSpec{Range2: RangeConstraint{Text: "lots"}},
		BubbleFactor: "oops",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	input, config := CountNotices(res.Notices)
	if input != 2 || config != 0 {
		t.Errorf("notices input=%d config=%d, want 2/0: %v", input, config, res.Notices)
	}
	if res.Plan.Map.Factor != DefaultFactor {
		t.Errorf("factor = %v", res.Plan.Map.Factor)
	}
}

func TestExplorerPairPlot(t *testing.T) {
	ex := NewExplorer(testInstitutions(t), nil)

	res, err := ex.Run(context.Background(), Selection{Mode: ModePairPlot})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	pp := res.Plan.Pair
	if want := []string{ColAdmissionRate, ColNetPriceTop, ColAttendance}; !equalStrings(pp.Columns, want) {
		t.Errorf("pair columns = %v, want %v", pp.Columns, want)
	}
	if pp.Hue != ColRegion {
		t.Errorf("hue = %q", pp.Hue)
	}
	if res.Plan.Table != nil || res.Plan.Scatter != nil || res.Plan.Map != nil {
		t.Error("pair plot mode should only project the pair view")
	}
}

func TestExplorerUnknownMode(t *testing.T) {
	ex := NewExplorer(singleInstitution(t), nil)

	res, err := ex.Run(context.Background(), Selection{Mode: Mode(42)})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.View.Mode != ModeTableScatter {
		t.Errorf("mode = %v, want default", res.View.Mode)
	}
	if len(res.Notices) != 1 || res.Notices[0].Code != "CFG003" {
		t.Errorf("notices = %v", res.Notices)
	}
}

func TestExplorerCancelled(t *testing.T) {
	ex := NewExplorer(singleInstitution(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := ex.Run(ctx, Selection{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestExplorerDoesNotMutateDataset(t *testing.T) {
	inst := testInstitutions(t)
	ex := NewExplorer(inst, testPrograms(t))

	for _, mode := range Modes {
		if _, err := ex.Run(context.Background(), Selection{
			Mode:    mode,
			Filters: FilterSpec{Range1: RangeConstraint{Text: "0.4-0.6"}},
		}); err != nil {
			t.Fatalf("Run(%v): %v", mode, err)
		}
	}
	if inst.Len() != 5 || inst.Width() != 14 {
		t.Errorf("dataset changed to %dx%d", inst.Len(), inst.Width())
	}
}
