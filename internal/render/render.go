// Package render turns core view plans into things a browser can draw: SVG
// scatter and pair plots (via go-gg) and a deck.gl layer spec for the map.
//
// go-gg has no legend support, so category colors are assigned here and
// returned as a Legend for the page to draw next to the plot.
package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/JonMunkholm/CollegeExplorer/internal/core"
)

// ErrNoRows is returned when a plan has nothing to draw.
var ErrNoRows = errors.New("no rows to plot")

// Default plot sizes in pixels.
const (
	DefaultWidth  = 900
	DefaultHeight = 600
	DefaultCell   = 220
)

// palette is the discrete category palette, cycled when there are more
// categories than colors.
var palette = []color.RGBA{
	{0x4c, 0x72, 0xb0, 0xff},
	{0xdd, 0x84, 0x52, 0xff},
	{0x55, 0xa8, 0x68, 0xff},
	{0xc4, 0x4e, 0x52, 0xff},
	{0x81, 0x72, 0xb2, 0xff},
	{0x93, 0x78, 0x60, 0xff},
	{0xda, 0x8b, 0xc3, 0xff},
	{0x8c, 0x8c, 0x8c, 0xff},
	{0xcc, 0xb9, 0x74, 0xff},
	{0x64, 0xb5, 0xcd, 0xff},
}

// LegendEntry maps one category to the color it was drawn in.
type LegendEntry struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// Legend lists categories in order of first appearance.
type Legend []LegendEntry

// colorizer assigns palette colors to categories as they are first seen.
type colorizer struct {
	index  map[string]int
	legend Legend
}

func newColorizer() *colorizer {
	return &colorizer{index: make(map[string]int)}
}

func (c *colorizer) color(category string) color.Color {
	i, ok := c.index[category]
	if !ok {
		i = len(c.legend)
		c.index[category] = i
		p := palette[i%len(palette)]
		c.legend = append(c.legend, LegendEntry{Label: category, Color: hex(p)})
	}
	return palette[i%len(palette)]
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// numeric returns the values of a numeric column with NaN for missing cells.
func numeric(t *core.Table, name string) ([]float64, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind() != core.KindNumeric {
		return nil, &core.ColumnError{Column: name, Err: core.ErrColumnType}
	}
	return c.Floats(), nil
}

// text returns the formatted values of any column, "" for missing cells.
func text(t *core.Table, name string) ([]string, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	return c.Strings(), nil
}

func span(xs []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		lo, hi = math.Min(lo, x), math.Max(hi, x)
	}
	return lo, hi
}

// recoverPlot turns a go-gg panic into an error. go-gg reports bad input,
// such as a column it cannot scale, by panicking.
func recoverPlot(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("render plot: %v", r)
	}
}
