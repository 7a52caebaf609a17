// Package views holds the templ components of the explorer pages.
//
// Components live in *.templ files; the *_templ.go files beside them are
// generated with `templ generate` and checked in.
package views

import (
	"fmt"
	"time"

	"github.com/JonMunkholm/CollegeExplorer/internal/core"
	"github.com/JonMunkholm/CollegeExplorer/internal/render"
)

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.960 generate

// Plot is a rendered SVG plot with its legend. Err is set instead of SVG
// when rendering failed.
type Plot struct {
	SVG    string
	Legend render.Legend
	Err    string
}

// DatasetInfo summarizes the loaded snapshot.
type DatasetInfo struct {
	Institutions int
	Programs     int
	LoadedAt     time.Time
}

// TableShape describes one loaded table.
type TableShape struct {
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	Source  string `json:"source"`
}

// ExplorerParams is everything the explorer page shows for one pass.
type ExplorerParams struct {
	Selection   core.Selection
	Result      *core.Result
	Programs    []string
	Credentials []string
	Scatter     *Plot
	Pair        *Plot
	Deck        *render.DeckSpec
	MaxRows     int
	Dataset     DatasetInfo

	// ExportURL downloads the full table as CSV. Empty hides the link.
	ExportURL string
}

func summaryText(p ExplorerParams) string {
	res := p.Result
	return fmt.Sprintf("%d institutions, %d program rows loaded %s. Scope: %s, %d rows, %d after filters.",
		p.Dataset.Institutions, p.Dataset.Programs, p.Dataset.LoadedAt.Format(time.RFC1123),
		res.Scope, res.WorkingRows, res.FilteredRows)
}

// shownRows is how many table rows the page renders. maxRows <= 0 means all.
func shownRows(tp *core.TablePlan, maxRows int) int {
	if maxRows > 0 && tp.RowCount > maxRows {
		return maxRows
	}
	return tp.RowCount
}

func mapCaption(mp *core.MapPlan) string {
	return fmt.Sprintf("%d institutions, bubble = %s * %g", mp.RowCount, mp.SourceColumn, mp.Factor)
}
