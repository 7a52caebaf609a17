package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/JonMunkholm/CollegeExplorer/internal/logging"
)

// Selection is everything the user has chosen for one interaction. Empty
// fields fall back to the defaults for the resolved scope.
type Selection struct {
	Mode       Mode
	Categories []string
	Credential string
	Filters    FilterSpec

	Columns        []string
	XColumn        string
	YColumn        string
	CategoryColumn string
	BubbleColumn   string
	BubbleFactor   string
	PairColumns    []string
}

// Result is the outcome of one pipeline pass.
type Result struct {
	PassID       string
	Scope        Scope
	Schema       Schema
	Defaults     DefaultSelections
	Filters      FilterSpec
	View         ViewRequest
	WorkingRows  int
	FilteredRows int
	Plan         *RenderPlan
	Notices      []Notice
}

// Explorer runs the pipeline over a loaded dataset. It holds only immutable
// tables, so one Explorer may serve concurrent passes.
type Explorer struct {
	institutions *Table
	programs     *Table
}

// NewExplorer creates an Explorer over the given tables. programs may be
// nil, in which case only the institution scope is available.
func NewExplorer(institutions, programs *Table) *Explorer {
	return &Explorer{institutions: institutions, programs: programs}
}

// Institutions returns the institution table.
func (e *Explorer) Institutions() *Table { return e.institutions }

// Programs returns the program table.
func (e *Explorer) Programs() *Table { return e.programs }

// SchemaFor classifies the working dataset a scope selection would produce,
// without filtering or projecting it.
func (e *Explorer) SchemaFor(categories []string, credential string) (Schema, Scope, error) {
	working, scope, err := ResolveScope(e.institutions, e.programs, categories, credential)
	if err != nil {
		return Schema{}, scope, err
	}
	return Classify(working), scope, nil
}

// Run executes one pass: scope resolution, classification, filter and view
// validation against the schema, filtering, and projection.
//
// Malformed inputs and invalid column selections never fail the pass; they
// are reported in Result.Notices and replaced by fallbacks. Errors are
// reserved for a dataset that cannot serve the mode at all.
func (e *Explorer) Run(ctx context.Context, sel Selection) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := logging.PassID(ctx)
	if id == "" {
		id = uuid.NewString()
		ctx = logging.WithPass(ctx, id)
	}
	res := &Result{PassID: id}

	working, scope, err := ResolveScope(e.institutions, e.programs, sel.Categories, sel.Credential)
	if err != nil {
		return nil, err
	}
	res.Scope = scope
	res.Schema = Classify(working)
	res.Defaults = Defaults(scope).Available(res.Schema)
	res.WorkingRows = working.Len()

	r := &resolver{schema: res.Schema}

	mode := sel.Mode
	if _, ok := modeInfo[mode]; !ok {
		r.notices = append(r.notices, configNotice(FieldMode,
			fmt.Errorf("%w %d", ErrUnknownMode, int(mode)), ModeTableScatter.Label()))
		mode = ModeTableScatter
	}

	res.Filters = r.filters(sel.Filters, res.Defaults.Filters)
	filtered, filterNotices, err := ApplyFilters(working, res.Filters)
	if err != nil {
		return nil, fmt.Errorf("apply filters: %w", err)
	}
	res.FilteredRows = filtered.Len()

	res.View = r.view(mode, sel, res.Defaults)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	plan, err := Project(filtered, res.View)
	if err != nil {
		return nil, err
	}
	res.Plan = plan

	res.Notices = append(res.Notices, r.notices...)
	res.Notices = append(res.Notices, filterNotices...)
	res.Notices = append(res.Notices, plan.Notices...)

	input, config := CountNotices(res.Notices)
	logging.FromContext(ctx).Debug("pipeline pass",
		"mode", mode.String(),
		"scope", scope.String(),
		"working_rows", res.WorkingRows,
		"filtered_rows", res.FilteredRows,
		"input_notices", input,
		"config_notices", config,
	)
	return res, nil
}

// resolver validates selections against a schema, collecting a config
// notice for every override it has to reset.
type resolver struct {
	schema  Schema
	notices []Notice
}

type columnCheck func(role, name string) error

// column returns requested when it passes check, otherwise def, otherwise
// the first candidate that passes. An invalid non-empty request is noted.
func (r *resolver) column(field, requested, def string, check columnCheck, candidates []string) string {
	if requested != "" {
		err := check(field, requested)
		if err == nil {
			return requested
		}
		fallback := r.fallback(field, def, check, candidates)
		r.notices = append(r.notices, configNotice(field, err, fallback))
		return fallback
	}
	return r.fallback(field, def, check, candidates)
}

func (r *resolver) fallback(field, def string, check columnCheck, candidates []string) string {
	if def != "" && check(field, def) == nil {
		return def
	}
	for _, c := range candidates {
		if check(field, c) == nil {
			return c
		}
	}
	return ""
}

// columns validates a list selection. Any invalid entry resets the whole
// list to def.
func (r *resolver) columns(field string, requested, def []string, check columnCheck) []string {
	if len(requested) == 0 {
		return def
	}
	ok := true
	for _, name := range requested {
		if err := check(field, name); err != nil {
			r.notices = append(r.notices, configNotice(field, err, fmt.Sprint(def)))
			ok = false
		}
	}
	if !ok {
		return def
	}
	return requested
}

func (r *resolver) filters(spec, def FilterSpec) FilterSpec {
	s := r.schema
	out := spec
	out.Range1 = r.rangeConstraint(FieldRange1, spec.Range1, def.Range1)
	out.Range2 = r.rangeConstraint(FieldRange2, spec.Range2, def.Range2)
	out.Search.Column = r.column(FieldSearch, spec.Search.Column, def.Search.Column, s.RequireText, s.NonNumeric)

	// a constraint without a usable column cannot be evaluated
	if out.Search.Column == "" {
		out.Search.Text = ""
	}
	return out
}

// rangeConstraint validates a range column. An invalid column resets the
// whole constraint, text included, to its default.
func (r *resolver) rangeConstraint(field string, spec, def RangeConstraint) RangeConstraint {
	s := r.schema
	if spec.Column != "" {
		err := s.RequireNumeric(field, spec.Column)
		if err == nil {
			return spec
		}
		out := RangeConstraint{Column: r.fallback(field, def.Column, s.RequireNumeric, s.Numeric)}
		if out.Column == def.Column {
			out.Text = def.Text
		}
		r.notices = append(r.notices, configNotice(field, err, out.describe()))
		return out
	}

	out := spec
	out.Column = r.fallback(field, def.Column, s.RequireNumeric, s.Numeric)
	if out.Column == "" {
		out.Text = ""
	}
	return out
}

func (r *resolver) view(mode Mode, sel Selection, def DefaultSelections) ViewRequest {
	s := r.schema
	v := ViewRequest{Mode: mode}

	if mode.ShowsTable() {
		v.Columns = r.columns(FieldColumns, sel.Columns, def.Columns, s.RequireColumn)
	}

	if mode.ShowsScatter() || mode == ModePairPlot {
		v.CategoryColumn = r.column(FieldCategory, sel.CategoryColumn, def.Category(), s.RequireText, def.CategoryOptions)
	}

	if mode.ShowsScatter() {
		v.XColumn = r.column(FieldX, sel.XColumn, def.XColumn, s.RequireNumeric, s.Numeric)
		v.YColumn = r.column(FieldY, sel.YColumn, def.YColumn, s.RequireNumeric, s.Numeric)
	}

	if mode.ShowsScatter() || mode.ShowsMap() {
		v.BubbleColumn = r.column(FieldBubble, sel.BubbleColumn, def.BubbleColumn, s.RequireNumeric, s.Numeric)
	}

	if mode.ShowsMap() {
		v.BubbleFactor = sel.BubbleFactor
		if v.BubbleFactor == "" {
			v.BubbleFactor = DefaultBubbleFactor(v.BubbleColumn)
		}
	}

	if mode == ModePairPlot {
		pairDef := def.PairColumns
		if len(pairDef) == 0 {
			pairDef = s.Numeric[:min(3, len(s.Numeric))]
		}
		v.PairColumns = r.columns(FieldPairColumns, sel.PairColumns, pairDef, s.RequireNumeric)
	}
	return v
}
