package dataset

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/JonMunkholm/CollegeExplorer/internal/core"
)

func TestReadCSV(t *testing.T) {
	tbl := mustReadCSV(t, institutionsCSV)

	want := []string{"id", "INSTNM", "CITY", "LATITUDE", "LONGITUDE", "REGION", "ADM_RATE", "NPT4_PUB_110001", "NPT4_PRIV_110001", "EXTRA"}
	if !equalStrings(tbl.Names(), want) {
		t.Fatalf("names = %v, want %v", tbl.Names(), want)
	}
	if tbl.Len() != 3 {
		t.Errorf("rows = %d, want 3", tbl.Len())
	}

	kinds := map[string]core.Kind{
		"id":       core.KindNumeric,
		"INSTNM":   core.KindText,
		"LATITUDE": core.KindNumeric,
		"ADM_RATE": core.KindNumeric,
		"EXTRA":    core.KindText,
	}
	for name, kind := range kinds {
		c, err := tbl.Column(name)
		if err != nil {
			t.Fatal(err)
		}
		if c.Kind() != kind {
			t.Errorf("%s kind = %v, want %v", name, c.Kind(), kind)
		}
	}

	adm, _ := tbl.Column("ADM_RATE")
	if !adm.IsMissing(1) {
		t.Error("PrivacySuppressed should be missing")
	}
	lat, _ := tbl.Column("LATITUDE")
	if !lat.IsMissing(2) {
		t.Error("empty cell should be missing")
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		max     int64
		wantErr error
	}{
		{"empty input", "", 0, ErrEmptyTable},
		{"index column only", "Unnamed: 0\n0\n", 0, ErrEmptyTable},
		{"ragged row", "a,b\n1,2\n3\n", 0, ErrInvalidCSV},
		{"bare quote", "a,b\n1,\"x\"y\n", 0, ErrInvalidCSV},
		{"duplicate header", "a,a\n1,2\n", 0, ErrInvalidCSV},
		{"over size cap", "a,b\n1,2\n3,4\n", 6, ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(context.Background(), strings.NewReader(tt.input), tt.max)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadCSVBOMAndHeaderSpace(t *testing.T) {
	tbl := mustReadCSV(t, "\xEF\xBB\xBFname , size\nAlpha,10\n")
	if want := []string{"name", "size"}; !equalStrings(tbl.Names(), want) {
		t.Errorf("names = %q, want %q", tbl.Names(), want)
	}
}

func TestReadCSVHeaderOnly(t *testing.T) {
	tbl := mustReadCSV(t, "name,size\n")
	if tbl.Len() != 0 || tbl.Width() != 2 {
		t.Errorf("table = %dx%d, want 0x2", tbl.Len(), tbl.Width())
	}
}

func TestReadCSVCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := ReadCSV(ctx, strings.NewReader("a\n1\n"), 0); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
