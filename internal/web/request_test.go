package web

import (
	"net/url"
	"slices"
	"testing"

	"github.com/JonMunkholm/CollegeExplorer/internal/core"
)

func TestDecodeSelection(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantMode    core.Mode
		wantRange1  string
		wantRange2  string
		wantNotices int
		check       func(t *testing.T, sel core.Selection)
	}{
		{
			name:       "empty query uses prefilled ranges",
			query:      "",
			wantMode:   core.ModeTableScatter,
			wantRange1: core.DefaultRange1Text,
			wantRange2: core.DefaultRange2Text,
		},
		{
			name:       "explicit empty ranges stay empty",
			query:      "range1=&range2=",
			wantMode:   core.ModeTableScatter,
			wantRange1: "",
			wantRange2: "",
		},
		{
			name:       "mode by label",
			query:      "mode=Table+%2B+Map",
			wantMode:   core.ModeTableMap,
			wantRange1: core.DefaultRange1Text,
			wantRange2: core.DefaultRange2Text,
		},
		{
			name:        "unknown mode",
			query:       "mode=globe",
			wantMode:    core.ModeTableScatter,
			wantRange1:  core.DefaultRange1Text,
			wantRange2:  core.DefaultRange2Text,
			wantNotices: 1,
		},
		{
			name:       "multi-valued fields drop blanks",
			query:      "program=Nursing.&program=&program=Computer+Science.&columns=name&columns=+&pair=size",
			wantMode:   core.ModeTableScatter,
			wantRange1: core.DefaultRange1Text,
			wantRange2: core.DefaultRange2Text,
			check: func(t *testing.T, sel core.Selection) {
				if !slices.Equal(sel.Categories, []string{"Nursing.", "Computer Science."}) {
					t.Errorf("categories = %q", sel.Categories)
				}
				if !slices.Equal(sel.Columns, []string{"name"}) {
					t.Errorf("columns = %q", sel.Columns)
				}
				if !slices.Equal(sel.PairColumns, []string{"size"}) {
					t.Errorf("pair = %q", sel.PairColumns)
				}
			},
		},
		{
			name:       "view and filter columns",
			query:      "x=size&y=lat&category=locale&bubble=size&factor=2&range1_col=size&search_col=city&search=bos&credential=+Bachelor%27s+Degree+",
			wantMode:   core.ModeTableScatter,
			wantRange1: core.DefaultRange1Text,
			wantRange2: core.DefaultRange2Text,
			check: func(t *testing.T, sel core.Selection) {
				if sel.XColumn != "size" || sel.YColumn != "lat" || sel.CategoryColumn != "locale" {
					t.Errorf("view = %+v", sel)
				}
				if sel.BubbleColumn != "size" || sel.BubbleFactor != "2" {
					t.Errorf("bubble = %q * %q", sel.BubbleColumn, sel.BubbleFactor)
				}
				if sel.Filters.Range1.Column != "size" || sel.Filters.Search != (core.TextConstraint{Column: "city", Text: "bos"}) {
					t.Errorf("filters = %+v", sel.Filters)
				}
				if sel.Credential != "Bachelor's Degree" {
					t.Errorf("credential = %q", sel.Credential)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			sel, notices, err := DecodeSelection(q)
			if err != nil {
				t.Fatalf("DecodeSelection: %v", err)
			}
			if sel.Mode != tt.wantMode {
				t.Errorf("mode = %v, want %v", sel.Mode, tt.wantMode)
			}
			if sel.Filters.Range1.Text != tt.wantRange1 || sel.Filters.Range2.Text != tt.wantRange2 {
				t.Errorf("ranges = %q, %q, want %q, %q",
					sel.Filters.Range1.Text, sel.Filters.Range2.Text, tt.wantRange1, tt.wantRange2)
			}
			if len(notices) != tt.wantNotices {
				t.Errorf("notices = %v, want %d", notices, tt.wantNotices)
			}
			for _, n := range notices {
				if n.Kind != core.NoticeConfig || n.Code != "CFG003" {
					t.Errorf("notice = %+v, want config CFG003", n)
				}
			}
			if tt.check != nil {
				tt.check(t, sel)
			}
		})
	}
}
