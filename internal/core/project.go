package core

import "fmt"

// Canonical column names produced by the map projection.
const (
	MapBubbleColumn = "bubble"
	MapRadiusColumn = "radius"
)

// Notice field names for view selections.
const (
	FieldColumns      = "columns"
	FieldX            = "x"
	FieldY            = "y"
	FieldCategory     = "category"
	FieldBubble       = "bubble"
	FieldBubbleFactor = "bubble_factor"
	FieldPairColumns  = "pair_columns"
	FieldMode         = "mode"
)

// MapTooltip is the hover template for map points.
const MapTooltip = "<b>{name}</b>: {bubble}"

// Viewport is the fixed initial camera of the map.
type Viewport struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Zoom      float64 `json:"zoom"`
	MinZoom   float64 `json:"minZoom"`
	MaxZoom   float64 `json:"maxZoom"`
	Height    int     `json:"height"`
}

// DefaultViewport centers the continental United States.
var DefaultViewport = Viewport{
	Longitude: -95.324441,
	Latitude:  39.54636,
	Zoom:      4,
	MinZoom:   2,
	MaxZoom:   15,
	Height:    800,
}

// LayerStyle describes how map points are drawn.
type LayerStyle struct {
	Type      string   `json:"type"`
	FillColor [4]uint8 `json:"fillColor"`
	Opacity   float64  `json:"opacity"`
	Pickable  bool     `json:"pickable"`
	MapStyle  string   `json:"mapStyle"`
}

// DefaultLayerStyle is a semi-transparent red scatterplot layer on a light basemap.
var DefaultLayerStyle = LayerStyle{
	Type:      "ScatterplotLayer",
	FillColor: [4]uint8{200, 30, 0, 160},
	Opacity:   0.8,
	Pickable:  true,
	MapStyle:  "mapbox://styles/mapbox/light-v9",
}

// ViewRequest is a fully resolved set of view selections for one mode.
// BubbleFactor is the raw text typed by the user.
type ViewRequest struct {
	Mode           Mode
	Columns        []string
	XColumn        string
	YColumn        string
	CategoryColumn string
	BubbleColumn   string
	BubbleFactor   string
	PairColumns    []string
}

// TablePlan is the tabular view.
type TablePlan struct {
	Data     *Table
	RowCount int
}

// ScatterPlan is a bubble scatter plot colored by category.
type ScatterPlan struct {
	Data     *Table
	X        string
	Y        string
	Size     string
	Color    string
	Hover    string
	Trend    *Trendline
	RowCount int
}

// MapPlan is a bubble layer over a fixed viewport. Data holds the columns
// name, lon, lat, bubble and radius.
type MapPlan struct {
	Data         *Table
	SourceColumn string
	Factor       float64
	Tooltip      string
	View         Viewport
	Layer        LayerStyle
	RowCount     int
}

// PairPlan is a grid of pairwise scatter plots over numeric columns.
type PairPlan struct {
	Data     *Table
	Columns  []string
	Hue      string
	RowCount int
}

// RenderPlan holds the projections for every view the mode shows.
type RenderPlan struct {
	Mode    Mode
	Table   *TablePlan
	Scatter *ScatterPlan
	Map     *MapPlan
	Pair    *PairPlan
	Notices []Notice
}

// Project builds the per-view projections of t for the requested mode.
// t is never modified: each view receives its own table. Column selections
// are expected to have been validated; a missing column is returned as a
// *ColumnError.
func Project(t *Table, req ViewRequest) (*RenderPlan, error) {
	plan := &RenderPlan{Mode: req.Mode}

	if req.Mode.ShowsTable() {
		tp, err := projectTable(t, req.Columns)
		if err != nil {
			return nil, fmt.Errorf("project table: %w", err)
		}
		plan.Table = tp
	}

	switch {
	case req.Mode.ShowsScatter():
		sp, err := projectScatter(t, req)
		if err != nil {
			return nil, fmt.Errorf("project scatter: %w", err)
		}
		plan.Scatter = sp
	case req.Mode.ShowsMap():
		mp, notices, err := projectMap(t, req)
		if err != nil {
			return nil, fmt.Errorf("project map: %w", err)
		}
		plan.Map = mp
		plan.Notices = append(plan.Notices, notices...)
	case req.Mode == ModePairPlot:
		pp, err := projectPair(t, req)
		if err != nil {
			return nil, fmt.Errorf("project pair plot: %w", err)
		}
		plan.Pair = pp
	default:
		return nil, fmt.Errorf("project: %w %d", ErrUnknownMode, int(req.Mode))
	}

	return plan, nil
}

func projectTable(t *Table, columns []string) (*TablePlan, error) {
	data, err := t.Project(columns...)
	if err != nil {
		return nil, err
	}
	return &TablePlan{Data: data, RowCount: data.Len()}, nil
}

func projectScatter(t *Table, req ViewRequest) (*ScatterPlan, error) {
	cols := []string{ColName, req.XColumn, req.YColumn, req.BubbleColumn}
	if req.CategoryColumn != "" {
		cols = append(cols, req.CategoryColumn)
	}
	data, err := t.Project(cols...)
	if err != nil {
		return nil, err
	}
	data, err = data.DropMissing(data.Names()...)
	if err != nil {
		return nil, err
	}
	trend, err := buildTrendline(data, req.XColumn, req.YColumn, req.CategoryColumn)
	if err != nil {
		return nil, err
	}
	return &ScatterPlan{
		Data:     data,
		X:        req.XColumn,
		Y:        req.YColumn,
		Size:     req.BubbleColumn,
		Color:    req.CategoryColumn,
		Hover:    ColName,
		Trend:    trend,
		RowCount: data.Len(),
	}, nil
}

func projectMap(t *Table, req ViewRequest) (*MapPlan, []Notice, error) {
	var notices []Notice
	factor := ParseFactor(req.BubbleFactor)
	if factor.Err != nil {
		notices = append(notices, inputNotice(FieldBubbleFactor, factor.Err, fmt.Sprint(factor.Value)))
	}

	src, err := t.Project(ColName, ColLon, ColLat, req.BubbleColumn)
	if err != nil {
		return nil, nil, err
	}
	src, err = src.DropMissing(src.Names()...)
	if err != nil {
		return nil, nil, err
	}

	bubble, err := src.Column(req.BubbleColumn)
	if err != nil {
		return nil, nil, err
	}
	if bubble.Kind() != KindNumeric {
		return nil, nil, &ColumnError{Column: req.BubbleColumn, Role: FieldBubble, Err: ErrColumnType}
	}
	values := bubble.Floats()
	radius := make([]float64, len(values))
	for i, v := range values {
		radius[i] = v * factor.Value
	}

	b := NewTableBuilder()
	for _, name := range []string{ColName, ColLon, ColLat} {
		c, err := src.Column(name)
		if err != nil {
			return nil, nil, err
		}
		b.AddColumn(c)
	}
	b.AddNumeric(MapBubbleColumn, values, nil)
	b.AddNumeric(MapRadiusColumn, radius, nil)
	data, err := b.Done()
	if err != nil {
		return nil, nil, err
	}

	return &MapPlan{
		Data:         data,
		SourceColumn: req.BubbleColumn,
		Factor:       factor.Value,
		Tooltip:      MapTooltip,
		View:         DefaultViewport,
		Layer:        DefaultLayerStyle,
		RowCount:     data.Len(),
	}, notices, nil
}

func projectPair(t *Table, req ViewRequest) (*PairPlan, error) {
	cols := append([]string{}, req.PairColumns...)
	if req.CategoryColumn != "" {
		cols = append(cols, req.CategoryColumn)
	}
	data, err := t.Project(cols...)
	if err != nil {
		return nil, err
	}
	return &PairPlan{
		Data:     data,
		Columns:  dedupe(req.PairColumns),
		Hue:      req.CategoryColumn,
		RowCount: data.Len(),
	}, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
