package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"

	"github.com/JonMunkholm/CollegeExplorer/internal/core"
)

// Pair writes a grid of pairwise scatter plots as SVG, one cell per
// (column, row) combination of the plan's columns. Cells in the same grid
// column share an x scale and cells in the same grid row share a y scale.
// Points missing either value, or the hue, are left out of that cell.
func Pair(w io.Writer, pp *core.PairPlan, cell int) (legend Legend, err error) {
	if pp == nil || pp.RowCount == 0 || len(pp.Columns) == 0 {
		return nil, ErrNoRows
	}
	defer recoverPlot(&err)

	vals := make([][]float64, len(pp.Columns))
	for i, name := range pp.Columns {
		if vals[i], err = numeric(pp.Data, name); err != nil {
			return nil, err
		}
	}
	var hue []string
	var hueMissing func(int) bool
	if pp.Hue != "" {
		hc, err := pp.Data.Column(pp.Hue)
		if err != nil {
			return nil, err
		}
		hue, hueMissing = hc.Strings(), hc.IsMissing
	}

	colors := newColorizer()
	var cols, rows []int
	var xs, ys []float64
	var fill []color.Color
	for ci := range pp.Columns {
		for ri := range pp.Columns {
			for i := 0; i < pp.RowCount; i++ {
				x, y := vals[ci][i], vals[ri][i]
				if math.IsNaN(x) || math.IsNaN(y) || (hue != nil && hueMissing(i)) {
					continue
				}
				cols, rows = append(cols, ci), append(rows, ri)
				xs, ys = append(xs, x), append(ys, y)
				if hue != nil {
					fill = append(fill, colors.color(hue[i]))
				}
			}
		}
	}
	if len(xs) == 0 {
		return nil, ErrNoRows
	}

	b := new(table.Builder).
		Add(colCol, cols).
		Add(colRow, rows).
		Add(colX, xs).
		Add(colY, ys)
	points := gg.LayerPoints{X: colX, Y: colY}
	if hue != nil {
		b.Add(colColor, fill)
		points.Color = colColor
	}

	label := func(v interface{}) string {
		if i, ok := v.(int); ok && i >= 0 && i < len(pp.Columns) {
			return pp.Columns[i]
		}
		return fmt.Sprint(v)
	}

	plot := gg.NewPlot(b.Done())
	plot.Add(
		gg.FacetX{Col: colCol, SplitXScales: true, Labeler: label},
		gg.FacetY{Col: colRow, SplitYScales: true, Labeler: label},
		points,
		gg.AxisLabel("x", ""),
		gg.AxisLabel("y", ""),
	)

	n := len(pp.Columns)
	if err := plot.WriteSVG(w, cell*n, cell*n); err != nil {
		return nil, fmt.Errorf("write pair svg: %w", err)
	}
	return colors.legend, nil
}
