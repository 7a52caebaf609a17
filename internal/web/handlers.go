package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"

	"github.com/JonMunkholm/CollegeExplorer/internal/core"
	"github.com/JonMunkholm/CollegeExplorer/internal/dataset"
	"github.com/JonMunkholm/CollegeExplorer/internal/logging"
	"github.com/JonMunkholm/CollegeExplorer/internal/render"
	"github.com/JonMunkholm/CollegeExplorer/internal/web/views"
)

// MaxTableRows caps the rows written into the explorer page table. The JSON
// plan always carries every row.
const MaxTableRows = 1000

// pass decodes the request's selection and runs one pipeline pass. adjust,
// if non-nil, may change the selection before it runs.
func (s *Server) pass(r *http.Request, adjust func(*core.Selection)) (core.Selection, *core.Result, error) {
	sel, notices, err := DecodeSelection(r.URL.Query())
	if err != nil {
		return sel, nil, err
	}
	if adjust != nil {
		adjust(&sel)
	}

	ctx := logging.WithPass(r.Context(), uuid.NewString())
	start := time.Now()
	res, err := s.explorer.Run(ctx, sel)
	if err != nil {
		return sel, nil, err
	}
	res.Notices = append(notices, res.Notices...)
	observePass(res, time.Since(start).Seconds())

	logging.FromContext(ctx).Debug("pass served",
		"mode", res.View.Mode.String(),
		"filtered_rows", res.FilteredRows,
		"notices", len(res.Notices),
	)
	return sel, res, nil
}

// handleExplorer renders the explorer page for the selection in the query.
func (s *Server) handleExplorer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sel, res, err := s.pass(r, nil)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	p := views.ExplorerParams{
		Selection:   sel,
		Result:      res,
		Programs:    s.programs,
		Credentials: s.credentials,
		MaxRows:     MaxTableRows,
		Dataset:     s.datasetInfo(),
	}
	if res.Plan.Table != nil {
		p.ExportURL = exportPath + "?" + r.URL.RawQuery
	}

	plan := res.Plan
	if plan.Scatter != nil {
		p.Scatter = s.renderPlot(r, "scatter", func(w io.Writer) (render.Legend, error) {
			return render.Scatter(w, plan.Scatter, render.DefaultWidth, render.DefaultHeight)
		})
	}
	if plan.Pair != nil {
		p.Pair = s.renderPlot(r, "pair", func(w io.Writer) (render.Legend, error) {
			return render.Pair(w, plan.Pair, render.DefaultCell)
		})
	}
	if plan.Map != nil {
		spec, err := render.Deck(plan.Map)
		if err != nil {
			respondError(w, r, err, http.StatusInternalServerError)
			return
		}
		p.Deck = spec
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.Explorer(p).Render(ctx, w); err != nil {
		logging.FromContext(ctx).Error("render explorer page", "error", err)
	}
}

// drawPlot draws one plot into memory while holding a render slot.
func (s *Server) drawPlot(r *http.Request, name string, draw func(io.Writer) (render.Legend, error)) (*bytes.Buffer, render.Legend, error) {
	var (
		buf    bytes.Buffer
		legend render.Legend
	)
	err := s.plots.Do(r.Context(), func() (err error) {
		legend, err = draw(&buf)
		return err
	})
	observePlot(name, err)
	return &buf, legend, err
}

// renderPlot draws one plot so a failure can still be shown as a message in
// its place on the page.
func (s *Server) renderPlot(r *http.Request, name string, draw func(io.Writer) (render.Legend, error)) *views.Plot {
	buf, legend, err := s.drawPlot(r, name, draw)
	if err != nil {
		if !errors.Is(err, render.ErrNoRows) {
			logging.FromContext(r.Context()).Warn("plot failed", "plot", name, "error", err)
		}
		return &views.Plot{Err: core.FormatUserError(err)}
	}
	return &views.Plot{SVG: buf.String(), Legend: legend}
}

// constraintJSON is one filter constraint after validation.
type constraintJSON struct {
	Column string `json:"column"`
	Text   string `json:"text"`
}

type filtersJSON struct {
	Range1 constraintJSON `json:"range1"`
	Range2 constraintJSON `json:"range2"`
	Search constraintJSON `json:"search"`
}

// tableJSON is a table as column names plus row values. Missing cells are null.
type tableJSON struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

func newTableJSON(t *core.Table) *tableJSON {
	return &tableJSON{Columns: t.Names(), Rows: t.Records()}
}

type scatterJSON struct {
	X        string          `json:"x"`
	Y        string          `json:"y"`
	Size     string          `json:"size"`
	Color    string          `json:"color,omitempty"`
	Hover    string          `json:"hover"`
	Trend    *core.Trendline `json:"trend,omitempty"`
	RowCount int             `json:"row_count"`
	Data     *tableJSON      `json:"data"`
}

type pairJSON struct {
	Columns  []string   `json:"columns"`
	Hue      string     `json:"hue,omitempty"`
	RowCount int        `json:"row_count"`
	Data     *tableJSON `json:"data"`
}

// planResponse is the JSON form of one pass.
type planResponse struct {
	PassID       string           `json:"pass_id"`
	Mode         string           `json:"mode"`
	Scope        string           `json:"scope"`
	WorkingRows  int              `json:"working_rows"`
	FilteredRows int              `json:"filtered_rows"`
	Filters      filtersJSON      `json:"filters"`
	Table        *tableJSON       `json:"table,omitempty"`
	Scatter      *scatterJSON     `json:"scatter,omitempty"`
	Map          *render.DeckSpec `json:"map,omitempty"`
	Pair         *pairJSON        `json:"pair,omitempty"`
	Notices      []core.Notice    `json:"notices"`
}

func newPlanResponse(res *core.Result) (*planResponse, error) {
	f := res.Filters
	out := &planResponse{
		PassID:       res.PassID,
		Mode:         res.View.Mode.String(),
		Scope:        res.Scope.String(),
		WorkingRows:  res.WorkingRows,
		FilteredRows: res.FilteredRows,
		Filters: filtersJSON{
			Range1: constraintJSON{f.Range1.Column, f.Range1.Text},
			Range2: constraintJSON{f.Range2.Column, f.Range2.Text},
			Search: constraintJSON{f.Search.Column, f.Search.Text},
		},
		Notices: res.Notices,
	}
	if out.Notices == nil {
		out.Notices = []core.Notice{}
	}

	plan := res.Plan
	if plan.Table != nil {
		out.Table = newTableJSON(plan.Table.Data)
	}
	if sp := plan.Scatter; sp != nil {
		out.Scatter = &scatterJSON{
			X:        sp.X,
			Y:        sp.Y,
			Size:     sp.Size,
			Color:    sp.Color,
			Hover:    sp.Hover,
			Trend:    sp.Trend,
			RowCount: sp.RowCount,
			Data:     newTableJSON(sp.Data),
		}
	}
	if plan.Map != nil {
		spec, err := render.Deck(plan.Map)
		if err != nil {
			return nil, err
		}
		out.Map = spec
	}
	if pp := plan.Pair; pp != nil {
		out.Pair = &pairJSON{
			Columns:  pp.Columns,
			Hue:      pp.Hue,
			RowCount: pp.RowCount,
			Data:     newTableJSON(pp.Data),
		}
	}
	return out, nil
}

// handlePlan returns the pass result as JSON.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	_, res, err := s.pass(r, nil)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	out, err := newPlanResponse(res)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, r, out)
}

type schemaResponse struct {
	Scope      string   `json:"scope"`
	Numeric    []string `json:"numeric"`
	NonNumeric []string `json:"non_numeric"`
	All        []string `json:"all"`
}

// handleSchema classifies the working dataset for the program selection in
// the query.
func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	sel, _, err := DecodeSelection(r.URL.Query())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	schema, scope, err := s.explorer.SchemaFor(sel.Categories, sel.Credential)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, schemaResponse{
		Scope:      scope.String(),
		Numeric:    schema.Numeric,
		NonNumeric: schema.NonNumeric,
		All:        schema.All,
	})
}

// handlePrograms lists the program categories and credential levels.
func (s *Server) handlePrograms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string][]string{
		"categories":  s.programs,
		"credentials": s.credentials,
	})
}

// handleScatterSVG renders the scatter plot for the query. Modes without a
// scatter view are run as scatter only.
func (s *Server) handleScatterSVG(w http.ResponseWriter, r *http.Request) {
	_, res, err := s.pass(r, func(sel *core.Selection) {
		if !sel.Mode.ShowsScatter() {
			sel.Mode = core.ModeScatter
		}
	})
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	s.writeSVG(w, r, "scatter", func(w io.Writer) (render.Legend, error) {
		return render.Scatter(w, res.Plan.Scatter, render.DefaultWidth, render.DefaultHeight)
	})
}

// handlePairSVG renders the pair plot grid for the query.
func (s *Server) handlePairSVG(w http.ResponseWriter, r *http.Request) {
	_, res, err := s.pass(r, func(sel *core.Selection) {
		sel.Mode = core.ModePairPlot
	})
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	s.writeSVG(w, r, "pair", func(w io.Writer) (render.Legend, error) {
		return render.Pair(w, res.Plan.Pair, render.DefaultCell)
	})
}

// LegendHeader carries the plot legend as JSON alongside an SVG response.
const LegendHeader = "X-Plot-Legend"

func (s *Server) writeSVG(w http.ResponseWriter, r *http.Request, name string, draw func(io.Writer) (render.Legend, error)) {
	buf, legend, err := s.drawPlot(r, name, draw)
	if err != nil {
		if errors.Is(err, render.ErrBusy) {
			w.Header().Set("Retry-After", "1")
		}
		respondError(w, r, err, statusFor(err))
		return
	}
	if len(legend) > 0 {
		if raw, err := json.Marshal(legend); err == nil {
			w.Header().Set(LegendHeader, string(raw))
		}
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(buf.Bytes())
}

func (s *Server) datasetInfo() views.DatasetInfo {
	info := views.DatasetInfo{
		Institutions: s.snap.Institutions.Len(),
		LoadedAt:     s.snap.LoadedAt,
	}
	if s.snap.Programs != nil {
		info.Programs = s.snap.Programs.Len()
	}
	return info
}

func (s *Server) tableShapes() []views.TableShape {
	shapes := []views.TableShape{{
		Name:    dataset.TableInstitutions,
		Rows:    s.snap.Institutions.Len(),
		Columns: s.snap.Institutions.Width(),
		Source:  s.snap.Sources[dataset.TableInstitutions],
	}}
	if s.snap.Programs != nil {
		shapes = append(shapes, views.TableShape{
			Name:    dataset.TablePrograms,
			Rows:    s.snap.Programs.Len(),
			Columns: s.snap.Programs.Width(),
			Source:  s.snap.Sources[dataset.TablePrograms],
		})
	}
	if s.snap.Display != nil {
		shapes = append(shapes, views.TableShape{
			Name:    dataset.TableDictionary,
			Rows:    s.snap.Display.Len(),
			Columns: 2,
			Source:  s.snap.Sources[dataset.TableDictionary],
		})
	}
	return shapes
}

func (s *Server) displayEntries() []dataset.DisplayEntry {
	if s.snap.Display == nil {
		return nil
	}
	return s.snap.Display.Entries()
}

// handleDictionary renders the data dictionary page.
func (s *Server) handleDictionary(w http.ResponseWriter, r *http.Request) {
	templ.Handler(views.Dictionary(s.tableShapes(), s.displayEntries())).ServeHTTP(w, r)
}

// handleDictionaryJSON returns the dataset shape and dictionary entries.
func (s *Server) handleDictionaryJSON(w http.ResponseWriter, r *http.Request) {
	entries := s.displayEntries()
	if entries == nil {
		entries = []dataset.DisplayEntry{}
	}
	writeJSON(w, r, map[string]any{
		"tables":  s.tableShapes(),
		"entries": entries,
	})
}

// handleHealth reports that the dataset is loaded and serving.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]any{
		"status":       "ok",
		"loaded_at":    s.snap.LoadedAt.Format(time.RFC3339),
		"institutions": s.snap.Institutions.Len(),
	})
}
