// Command explore runs selections against the college dataset from a
// terminal. Each input line is a set of key=value pairs using the same keys
// as the web form, for example:
//
//	mode=scatter program="Computer Science." x=size y=admission_rate.overall
//
// Arguments of the form KEY=VALUE override configuration environment
// variables for this run.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	shellquote "github.com/kballard/go-shellquote"

	"github.com/JonMunkholm/CollegeExplorer/internal/config"
	"github.com/JonMunkholm/CollegeExplorer/internal/core"
	"github.com/JonMunkholm/CollegeExplorer/internal/dataset"
	"github.com/JonMunkholm/CollegeExplorer/internal/logging"
	"github.com/JonMunkholm/CollegeExplorer/internal/render"
	"github.com/JonMunkholm/CollegeExplorer/internal/web"
)

// defaultRows is how many table rows are printed when rows= is not given.
const defaultRows = 20

const usage = `enter key=value pairs, one selection per line
  mode=       table-scatter | scatter | table-map | map | pairplot
  program=    program category (repeatable), credential=
  range1_col= range1= range2_col= range2= search_col= search=
  columns=    table column (repeatable)
  x= y= category= bubble= factor= pair=
  rows=N      table rows to print (0 for all)
  svg=PATH    write the scatter or pair plot to PATH
commands: schema [program=...], help, quit`

func main() {
	_ = godotenv.Overload()

	overrides, err := parseOverrides(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.LoadFrom(config.Overlay(os.Getenv, overrides))
	if err != nil {
		fmt.Fprintln(os.Stderr, "load configuration:", err)
		os.Exit(1)
	}
	logging.SetupWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	ctx := context.Background()

	var db dataset.Querier
	if cfg.Database.Enabled() {
		pool, err := dataset.OpenPool(ctx, cfg.Database)
		if err != nil {
			slog.Warn("database unavailable, skipping postgres sources", "error", err)
		} else {
			defer pool.Close()
			db = pool
		}
	}

	client := &http.Client{Timeout: cfg.Data.FetchTimeout}
	snap, err := dataset.Load(ctx, dataset.SourcesFromConfig(cfg, db, client))
	if err != nil {
		slog.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}

	sh := &shell{explorer: snap.Explorer(), out: os.Stdout, prompt: "> "}
	if err := sh.run(ctx, os.Stdin); err != nil {
		slog.Error("read input", "error", err)
		os.Exit(1)
	}
}

// parseOverrides reads KEY=VALUE arguments into a map.
func parseOverrides(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("argument %q: want KEY=VALUE", a)
		}
		out[k] = v
	}
	return out, nil
}

// request is one parsed input line.
type request struct {
	command string
	query   url.Values
	rows    int
	svg     string
}

// parseLine shell-splits a line into a command or a selection query. Keys
// may repeat; rows and svg are consumed here and never reach the decoder.
func parseLine(line string) (request, error) {
	req := request{rows: defaultRows}

	words, err := shellquote.Split(line)
	if err != nil {
		return req, err
	}
	if len(words) == 0 {
		return req, nil
	}

	switch words[0] {
	case "help", "quit", "exit", "schema":
		req.command = words[0]
		words = words[1:]
	}

	req.query = url.Values{}
	for _, w := range words {
		k, v, ok := strings.Cut(w, "=")
		if !ok || k == "" {
			return req, fmt.Errorf("%q: want key=value", w)
		}
		switch k {
		case "rows":
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return req, fmt.Errorf("rows=%q: want a non-negative integer", v)
			}
			req.rows = n
		case "svg":
			req.svg = v
		default:
			req.query.Add(k, v)
		}
	}
	return req, nil
}

// shell reads selections line by line and prints each pass.
type shell struct {
	explorer *core.Explorer
	out      io.Writer
	prompt   string
}

func (s *shell) run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		fmt.Fprint(s.out, s.prompt)
		if !sc.Scan() {
			fmt.Fprintln(s.out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		req, err := parseLine(line)
		if err != nil {
			fmt.Fprintln(s.out, "error:", err)
			continue
		}
		switch req.command {
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(s.out, usage)
			continue
		case "schema":
			err = s.schema(req)
		default:
			err = s.pass(ctx, req)
		}
		if err != nil {
			fmt.Fprintln(s.out, "error:", core.FormatUserError(err))
		}
	}
}

func (s *shell) schema(req request) error {
	sel, _, err := web.DecodeSelection(req.query)
	if err != nil {
		return err
	}
	schema, scope, err := s.explorer.SchemaFor(sel.Categories, sel.Credential)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "scope: %s\n", scope)
	fmt.Fprintf(s.out, "numeric (%d): %s\n", len(schema.Numeric), strings.Join(schema.Numeric, ", "))
	fmt.Fprintf(s.out, "non-numeric (%d): %s\n", len(schema.NonNumeric), strings.Join(schema.NonNumeric, ", "))
	return nil
}

func (s *shell) pass(ctx context.Context, req request) error {
	sel, notices, err := web.DecodeSelection(req.query)
	if err != nil {
		return err
	}
	res, err := s.explorer.Run(ctx, sel)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "mode: %s, scope: %s, %d rows, %d after filters\n",
		res.View.Mode.Label(), res.Scope, res.WorkingRows, res.FilteredRows)
	for _, n := range append(notices, res.Notices...) {
		fmt.Fprintf(s.out, "%s notice: %s\n", n.Kind, n)
	}

	plan := res.Plan
	if plan.Table != nil {
		printTable(s.out, plan.Table.Data, req.rows)
	}
	if sp := plan.Scatter; sp != nil {
		fmt.Fprintf(s.out, "scatter: %s vs %s, %d points, size %s", sp.Y, sp.X, sp.RowCount, sp.Size)
		if sp.Color != "" {
			fmt.Fprintf(s.out, ", color %s", sp.Color)
		}
		fmt.Fprintln(s.out)
		if sp.Trend != nil && sp.Trend.Overall != nil {
			f := sp.Trend.Overall
			fmt.Fprintf(s.out, "trend: y = %.4g + %.4g*x (n=%d, %d groups)\n", f.Intercept, f.Slope, f.N, len(sp.Trend.Groups))
		}
	}
	if mp := plan.Map; mp != nil {
		fmt.Fprintf(s.out, "map: %d points, bubble %s x %g\n", mp.RowCount, mp.SourceColumn, mp.Factor)
	}
	if pp := plan.Pair; pp != nil {
		fmt.Fprintf(s.out, "pair: %s, %d rows", strings.Join(pp.Columns, ", "), pp.RowCount)
		if pp.Hue != "" {
			fmt.Fprintf(s.out, ", hue %s", pp.Hue)
		}
		fmt.Fprintln(s.out)
	}

	if req.svg != "" {
		return writePlot(req.svg, plan)
	}
	return nil
}

// printTable writes up to limit rows of t tab-separated. A limit of 0
// prints every row.
func printTable(w io.Writer, t *core.Table, limit int) {
	fmt.Fprintln(w, strings.Join(t.Names(), "\t"))
	n := t.Len()
	if limit > 0 && limit < n {
		n = limit
	}
	for i := range n {
		fmt.Fprintln(w, strings.Join(t.Row(i), "\t"))
	}
	if n < t.Len() {
		fmt.Fprintf(w, "(%d of %d rows)\n", n, t.Len())
	}
}

var errNoPlot = errors.New("mode has no scatter or pair plot to write")

// writePlot draws the plan's scatter or pair plot as SVG into path.
func writePlot(path string, plan *core.RenderPlan) (err error) {
	if plan.Scatter == nil && plan.Pair == nil {
		return errNoPlot
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if plan.Scatter != nil {
		_, err = render.Scatter(f, plan.Scatter, render.DefaultWidth, render.DefaultHeight)
	} else {
		_, err = render.Pair(f, plan.Pair, render.DefaultCell)
	}
	return err
}
