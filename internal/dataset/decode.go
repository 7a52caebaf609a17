package dataset

import (
	"github.com/JonMunkholm/CollegeExplorer/internal/core"
)

// Source columns of the derived top-income net price.
const (
	ColNetPricePublic  = "net_price.public.income.110001-plus"
	ColNetPricePrivate = "net_price.private.income.110001-plus"
)

// Decode replaces the numeric region and locale codes with their names and
// adds the derived net price column. Columns it does not know are passed
// through untouched.
func Decode(t *core.Table) (*core.Table, error) {
	b := core.NewTableBuilder()
	for _, c := range t.Columns() {
		switch {
		case c.Name() == core.ColRegion && c.Kind() == core.KindNumeric:
			c = decodeCodes(c, func(v int) string { return core.Region(v).String() })
		case c.Name() == core.ColLocale && c.Kind() == core.KindNumeric:
			c = decodeCodes(c, func(v int) string { return core.Locale(v).String() })
		}
		b.AddColumn(c)
	}

	if !t.Has(core.ColNetPriceTop) {
		if c := rowMax(t, core.ColNetPriceTop, ColNetPricePublic, ColNetPricePrivate); c != nil {
			b.AddColumn(c)
		}
	}
	return b.Done()
}

// decodeCodes maps a numeric code column to a text column. Missing codes
// stay missing.
func decodeCodes(c *core.Column, name func(int) string) *core.Column {
	vals := make([]string, c.Len())
	valid := make([]bool, c.Len())
	for i := range vals {
		if v, ok := c.Float(i); ok {
			vals[i], valid[i] = name(int(v)), true
		}
	}
	return core.NewTextColumn(c.Name(), vals, valid)
}

// rowMax returns the row-wise maximum of the numeric sources that exist,
// skipping missing values. A row with no present value is missing. It
// returns nil when no source column exists.
func rowMax(t *core.Table, name string, sources ...string) *core.Column {
	var cols []*core.Column
	for _, s := range sources {
		if c, err := t.Column(s); err == nil && c.Kind() == core.KindNumeric {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return nil
	}

	vals := make([]float64, t.Len())
	valid := make([]bool, t.Len())
	for i := range vals {
		for _, c := range cols {
			v, ok := c.Float(i)
			if !ok {
				continue
			}
			if !valid[i] || v > vals[i] {
				vals[i], valid[i] = v, true
			}
		}
	}
	return core.NewNumericColumn(name, vals, valid)
}
