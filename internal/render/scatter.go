package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"

	"github.com/JonMunkholm/CollegeExplorer/internal/core"
)

// Column names inside the go-gg tables. They are fixed so that user column
// names can never collide with one another.
const (
	colX     = "x"
	colY     = "y"
	colSize  = "size"
	colColor = "color"
	colRow   = "row"
	colCol   = "col"
)

// Scatter writes the bubble scatter plot as SVG: one point per row sized by
// the bubble column and colored by category, plus the plan's trend lines.
// The overall fit is drawn in black and each group fit in its group color.
func Scatter(w io.Writer, sp *core.ScatterPlan, width, height int) (legend Legend, err error) {
	if sp == nil || sp.RowCount == 0 {
		return nil, ErrNoRows
	}
	defer recoverPlot(&err)

	xs, err := numeric(sp.Data, sp.X)
	if err != nil {
		return nil, err
	}
	ys, err := numeric(sp.Data, sp.Y)
	if err != nil {
		return nil, err
	}

	b := new(table.Builder).Add(colX, xs).Add(colY, ys)
	points := gg.LayerPoints{X: colX, Y: colY}

	if sp.Size != "" {
		sizes, err := numeric(sp.Data, sp.Size)
		if err != nil {
			return nil, err
		}
		b.Add(colSize, sizes)
		points.Size = colSize
	}

	colors := newColorizer()
	var cats []string
	if sp.Color != "" {
		if cats, err = text(sp.Data, sp.Color); err != nil {
			return nil, err
		}
		fill := make([]color.Color, len(cats))
		for i, c := range cats {
			fill[i] = colors.color(c)
		}
		b.Add(colColor, fill)
		points.Color = colColor
	}

	plot := gg.NewPlot(b.Done())
	plot.Add(points)
	addTrend(plot, sp.Trend, xs, cats, colors)
	plot.Add(
		gg.AxisLabel("x", sp.X),
		gg.AxisLabel("y", sp.Y),
		gg.Title(fmt.Sprintf("%s vs %s", sp.Y, sp.X)),
	)

	if err := plot.WriteSVG(w, width, height); err != nil {
		return nil, fmt.Errorf("write scatter svg: %w", err)
	}
	return colors.legend, nil
}

// addTrend layers the fitted lines over the points. Each line spans the x
// range of the points it was fitted on.
func addTrend(plot *gg.Plot, tr *core.Trendline, xs []float64, cats []string, colors *colorizer) {
	if tr == nil {
		return
	}

	if tr.Overall != nil {
		lo, hi := span(xs)
		plot.Save()
		plot.SetData(new(table.Builder).
			Add(colX, []float64{lo, hi}).
			Add(colY, []float64{tr.Overall.At(lo), tr.Overall.At(hi)}).
			Done())
		plot.Add(gg.LayerLines{X: colX, Y: colY})
		plot.Restore()
	}

	if len(tr.Groups) == 0 || cats == nil {
		return
	}
	var lx, ly []float64
	var lc []color.Color
	for _, f := range tr.Groups {
		var gx []float64
		for i, c := range cats {
			if c == f.Group {
				gx = append(gx, xs[i])
			}
		}
		if len(gx) == 0 {
			continue
		}
		lo, hi := span(gx)
		c := colors.color(f.Group)
		lx = append(lx, lo, hi)
		ly = append(ly, f.At(lo), f.At(hi))
		lc = append(lc, c, c)
	}
	if len(lx) == 0 {
		return
	}
	plot.Save()
	plot.SetData(new(table.Builder).Add(colX, lx).Add(colY, ly).Add(colColor, lc).Done())
	plot.Add(gg.LayerLines{X: colX, Y: colY, Color: colColor})
	plot.Restore()
}
