package core

// table.go defines the typed, immutable table every pipeline stage works on.
//
// A Table is an ordered list of named columns. Each column has a declared
// Kind (numeric or text) fixed at load time, a value slice, and a parallel
// validity slice marking missing cells. Tables are never modified after they
// are built: filtering, joining and projecting all return new tables, which
// may share column storage with their source.

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Kind is the declared value type of a column.
type Kind int

const (
	KindText Kind = iota
	KindNumeric
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Column is a single named, typed column. The zero value is an empty text column.
type Column struct {
	name  string
	kind  Kind
	nums  []float64
	strs  []string
	valid []bool
}

// NewNumericColumn creates a numeric column. If valid is nil, NaN values are
// treated as missing and everything else as present.
func NewNumericColumn(name string, values []float64, valid []bool) *Column {
	if valid == nil {
		valid = make([]bool, len(values))
		for i, v := range values {
			valid[i] = !math.IsNaN(v)
		}
	}
	return &Column{name: name, kind: KindNumeric, nums: values, valid: valid}
}

// NewTextColumn creates a text column. If valid is nil, every value is present.
func NewTextColumn(name string, values []string, valid []bool) *Column {
	if valid == nil {
		valid = make([]bool, len(values))
		for i := range valid {
			valid[i] = true
		}
	}
	return &Column{name: name, kind: KindText, strs: values, valid: valid}
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Kind returns the declared kind.
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.valid) }

// IsMissing reports whether cell i has no value.
func (c *Column) IsMissing(i int) bool { return !c.valid[i] }

// Float returns cell i of a numeric column. ok is false for missing cells
// and for text columns.
func (c *Column) Float(i int) (v float64, ok bool) {
	if c.kind != KindNumeric || !c.valid[i] {
		return 0, false
	}
	return c.nums[i], true
}

// Text returns cell i of a text column. ok is false for missing cells and
// for numeric columns.
func (c *Column) Text(i int) (s string, ok bool) {
	if c.kind != KindText || !c.valid[i] {
		return "", false
	}
	return c.strs[i], true
}

// Format renders cell i for display. Missing cells render as "".
func (c *Column) Format(i int) string {
	if !c.valid[i] {
		return ""
	}
	if c.kind == KindNumeric {
		return strconv.FormatFloat(c.nums[i], 'f', -1, 64)
	}
	return c.strs[i]
}

// Value returns cell i as float64, string, or nil when missing.
func (c *Column) Value(i int) any {
	if !c.valid[i] {
		return nil
	}
	if c.kind == KindNumeric {
		return c.nums[i]
	}
	return c.strs[i]
}

// Floats returns a copy of the numeric values. Missing cells are NaN.
func (c *Column) Floats() []float64 {
	out := make([]float64, c.Len())
	for i := range out {
		if v, ok := c.Float(i); ok {
			out[i] = v
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// Strings returns every cell formatted for display.
func (c *Column) Strings() []string {
	out := make([]string, c.Len())
	for i := range out {
		out[i] = c.Format(i)
	}
	return out
}

// Renamed returns a column sharing c's storage under a new name.
func (c *Column) Renamed(name string) *Column {
	cp := *c
	cp.name = name
	return &cp
}

// take gathers the given rows into a new column.
func (c *Column) take(rows []int) *Column {
	out := &Column{name: c.name, kind: c.kind, valid: make([]bool, len(rows))}
	if c.kind == KindNumeric {
		out.nums = make([]float64, len(rows))
	} else {
		out.strs = make([]string, len(rows))
	}
	for j, i := range rows {
		out.valid[j] = c.valid[i]
		if c.kind == KindNumeric {
			out.nums[j] = c.nums[i]
		} else {
			out.strs[j] = c.strs[i]
		}
	}
	return out
}

// Table is an immutable, ordered collection of equal-length columns.
type Table struct {
	cols  []*Column
	index map[string]int
	rows  int
}

// Len returns the number of rows. A nil table has zero rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.rows
}

// Width returns the number of columns.
func (t *Table) Width() int {
	if t == nil {
		return 0
	}
	return len(t.cols)
}

// Names returns the column names in table order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.name
	}
	return names
}

// Columns returns the columns in table order.
func (t *Table) Columns() []*Column {
	if t == nil {
		return nil
	}
	out := make([]*Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// Has reports whether the table has a column with the given name.
func (t *Table) Has(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[name]
	return ok
}

// Column looks up a column by name. A missing column is a configuration
// error, never a silent zero value.
func (t *Table) Column(name string) (*Column, error) {
	if t != nil {
		if i, ok := t.index[name]; ok {
			return t.cols[i], nil
		}
	}
	return nil, &ColumnError{Column: name, Err: ErrColumnMissing}
}

// Select returns a new table holding only the given rows, in the given order.
func (t *Table) Select(rows []int) *Table {
	b := NewTableBuilder()
	for _, c := range t.cols {
		b.AddColumn(c.take(rows))
	}
	out, _ := b.Done()
	out.rows = len(rows)
	return out
}

// Filter returns the rows for which keep is true.
func (t *Table) Filter(keep []bool) *Table {
	rows := make([]int, 0, len(keep))
	for i, k := range keep {
		if k {
			rows = append(rows, i)
		}
	}
	return t.Select(rows)
}

// Project returns a table with the named columns in the given order.
// Repeated names are kept once.
func (t *Table) Project(names ...string) (*Table, error) {
	b := NewTableBuilder()
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		b.AddColumn(c)
	}
	out, err := b.Done()
	if err != nil {
		return nil, err
	}
	out.rows = t.Len()
	return out, nil
}

// DropMissing returns the rows that have a value in every named column.
func (t *Table) DropMissing(names ...string) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	keep := make([]bool, t.Len())
	for i := range keep {
		keep[i] = true
		for _, c := range cols {
			if c.IsMissing(i) {
				keep[i] = false
				break
			}
		}
	}
	return t.Filter(keep), nil
}

// Row returns row i as display strings in column order.
func (t *Table) Row(i int) []string {
	out := make([]string, len(t.cols))
	for j, c := range t.cols {
		out[j] = c.Format(i)
	}
	return out
}

// Records returns every row as cell values (float64, string, or nil).
func (t *Table) Records() [][]any {
	out := make([][]any, t.Len())
	for i := range out {
		row := make([]any, len(t.cols))
		for j, c := range t.cols {
			row[j] = c.Value(i)
		}
		out[i] = row
	}
	return out
}

// ErrLengthMismatch is returned when a builder receives columns of unequal length.
var ErrLengthMismatch = errors.New("column length mismatch")

// TableBuilder assembles a Table column by column.
type TableBuilder struct {
	cols  []*Column
	index map[string]int
	rows  int
	err   error
}

// NewTableBuilder returns an empty builder.
func NewTableBuilder() *TableBuilder {
	return &TableBuilder{index: make(map[string]int), rows: -1}
}

// AddColumn appends c. Adding a name twice or a column of a different
// length than the first one records an error returned by Done.
func (b *TableBuilder) AddColumn(c *Column) *TableBuilder {
	if b.err != nil {
		return b
	}
	if _, dup := b.index[c.name]; dup {
		b.err = fmt.Errorf("duplicate column %q", c.name)
		return b
	}
	if b.rows >= 0 && c.Len() != b.rows {
		b.err = fmt.Errorf("column %q has %d rows, want %d: %w", c.name, c.Len(), b.rows, ErrLengthMismatch)
		return b
	}
	b.rows = c.Len()
	b.index[c.name] = len(b.cols)
	b.cols = append(b.cols, c)
	return b
}

// AddNumeric appends a numeric column.
func (b *TableBuilder) AddNumeric(name string, values []float64, valid []bool) *TableBuilder {
	return b.AddColumn(NewNumericColumn(name, values, valid))
}

// AddText appends a text column.
func (b *TableBuilder) AddText(name string, values []string, valid []bool) *TableBuilder {
	return b.AddColumn(NewTextColumn(name, values, valid))
}

// Has reports whether a column with the name was already added.
func (b *TableBuilder) Has(name string) bool {
	_, ok := b.index[name]
	return ok
}

// Done returns the finished table.
func (b *TableBuilder) Done() (*Table, error) {
	if b.err != nil {
		return nil, b.err
	}
	rows := b.rows
	if rows < 0 {
		rows = 0
	}
	return &Table{cols: b.cols, index: b.index, rows: rows}, nil
}
