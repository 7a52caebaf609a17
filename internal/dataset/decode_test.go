package dataset

import (
	"math"
	"testing"

	"github.com/JonMunkholm/CollegeExplorer/internal/core"
)

func TestDecode(t *testing.T) {
	in, err := core.NewTableBuilder().
		AddText(core.ColName, []string{"A", "B", "C", "D"}, nil).
		AddNumeric(core.ColRegion, []float64{1, 4, 12, math.NaN()}, nil).
		AddNumeric(core.ColLocale, []float64{11, 43, 99, 21}, nil).
		AddNumeric(ColNetPricePublic, []float64{10, math.NaN(), math.NaN(), 50}, nil).
		AddNumeric(ColNetPricePrivate, []float64{20, 30, math.NaN(), 40}, nil).
		Done()
	if err != nil {
		t.Fatal(err)
	}

	out, err := Decode(in)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	region, _ := out.Column(core.ColRegion)
	if region.Kind() != core.KindText {
		t.Fatalf("region kind = %v, want text", region.Kind())
	}
	if got, want := region.Strings(), []string{"New England", "Plains", "Unknown", ""}; !equalStrings(got, want) {
		t.Errorf("regions = %q, want %q", got, want)
	}
	if !region.IsMissing(3) {
		t.Error("missing region code should stay missing")
	}

	locale, _ := out.Column(core.ColLocale)
	if got, want := locale.Strings(), []string{"Large City", "Remote Rural", "Unknown", "Large Suburb"}; !equalStrings(got, want) {
		t.Errorf("locales = %q, want %q", got, want)
	}

	net, err := out.Column(core.ColNetPriceTop)
	if err != nil {
		t.Fatalf("derived column: %v", err)
	}
	wants := []struct {
		v       float64
		missing bool
	}{{20, false}, {30, false}, {0, true}, {50, false}}
	for i, w := range wants {
		v, ok := net.Float(i)
		if ok == w.missing || (ok && v != w.v) {
			t.Errorf("row %d = %v (present %v), want %v (missing %v)", i, v, ok, w.v, w.missing)
		}
	}
	if in.Has(core.ColNetPriceTop) {
		t.Error("Decode modified its input")
	}
}

func TestDecodePassThrough(t *testing.T) {
	in, err := core.NewTableBuilder().
		AddText(core.ColName, []string{"A"}, nil).
		AddText(core.ColRegion, []string{"Plains"}, nil).
		Done()
	if err != nil {
		t.Fatal(err)
	}

	out, err := Decode(in)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Has(core.ColNetPriceTop) {
		t.Error("no net price sources, no derived column")
	}
	region, _ := out.Column(core.ColRegion)
	if got := region.Format(0); got != "Plains" {
		t.Errorf("region = %q, want already-decoded text kept", got)
	}
}
