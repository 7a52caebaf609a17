package core

import (
	"math"

	"github.com/aclements/go-moremath/fit"
)

// TrendMethod names the regression used for scatter trend lines.
const TrendMethod = "ols"

// Fit is a least squares line y = Intercept + Slope*x over N points.
type Fit struct {
	Group     string  `json:"group,omitempty"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	N         int     `json:"n"`
}

// At evaluates the fitted line.
func (f Fit) At(x float64) float64 {
	return f.Intercept + f.Slope*x
}

// Trendline is the directive handed to the scatter renderer: one fit over
// all points and one per category group. Groups that cannot be fitted are
// left out.
type Trendline struct {
	Method  string `json:"method"`
	Overall *Fit   `json:"overall,omitempty"`
	Groups  []Fit  `json:"groups,omitempty"`
}

// fitLine computes an ordinary least squares line. It needs at least two
// points with two distinct x values.
func fitLine(xs, ys []float64) (Fit, bool) {
	if len(xs) < 2 || len(xs) != len(ys) {
		return Fit{}, false
	}
	distinct := false
	for _, x := range xs[1:] {
		if x != xs[0] {
			distinct = true
			break
		}
	}
	if !distinct {
		return Fit{}, false
	}
	r := fit.PolynomialRegression(xs, ys, nil, 1)
	if len(r.Coefficients) < 2 {
		return Fit{}, false
	}
	f := Fit{Intercept: r.Coefficients[0], Slope: r.Coefficients[1], N: len(xs)}
	if math.IsNaN(f.Slope) || math.IsNaN(f.Intercept) {
		return Fit{}, false
	}
	return f, true
}

// buildTrendline fits x against y overall and for each distinct value of
// the category column, if any. Group order follows first appearance.
func buildTrendline(t *Table, x, y, category string) (*Trendline, error) {
	xc, err := t.Column(x)
	if err != nil {
		return nil, err
	}
	yc, err := t.Column(y)
	if err != nil {
		return nil, err
	}
	var cc *Column
	if category != "" {
		if cc, err = t.Column(category); err != nil {
			return nil, err
		}
	}

	tl := &Trendline{Method: TrendMethod}
	var allX, allY []float64
	groupX := make(map[string][]float64)
	groupY := make(map[string][]float64)
	var order []string
	for i := 0; i < t.Len(); i++ {
		xv, okx := xc.Float(i)
		yv, oky := yc.Float(i)
		if !okx || !oky {
			continue
		}
		allX = append(allX, xv)
		allY = append(allY, yv)
		if cc == nil {
			continue
		}
		g := cc.Format(i)
		if _, seen := groupX[g]; !seen {
			order = append(order, g)
		}
		groupX[g] = append(groupX[g], xv)
		groupY[g] = append(groupY[g], yv)
	}

	if f, ok := fitLine(allX, allY); ok {
		tl.Overall = &f
	}
	for _, g := range order {
		if f, ok := fitLine(groupX[g], groupY[g]); ok {
			f.Group = g
			tl.Groups = append(tl.Groups, f)
		}
	}
	return tl, nil
}
