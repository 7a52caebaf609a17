package core

import (
	"errors"
	"fmt"
)

// Errors describing why a column cannot serve a selection.
var (
	ErrColumnMissing = errors.New("column not in dataset")
	ErrColumnType    = errors.New("column has the wrong type")
)

// ColumnError is a configuration error: a selection or lookup named a
// column that is absent from the working dataset or of the wrong class.
type ColumnError struct {
	Column string
	Role   string // which selection asked for it, e.g. "x axis"; may be empty
	Err    error
}

func (e *ColumnError) Error() string {
	if e.Role == "" {
		return fmt.Sprintf("%q: %v", e.Column, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Role, e.Column, e.Err)
}

func (e *ColumnError) Unwrap() error {
	return e.Err
}

// Schema partitions a table's columns by declared kind. All lists keep
// table column order.
type Schema struct {
	Numeric    []string
	NonNumeric []string
	All        []string

	kinds map[string]Kind
}

// Classify partitions the columns of t into numeric and non-numeric sets.
// Decoded categorical columns are text and therefore non-numeric.
func Classify(t *Table) Schema {
	s := Schema{kinds: make(map[string]Kind, t.Width())}
	for _, c := range t.Columns() {
		s.All = append(s.All, c.Name())
		s.kinds[c.Name()] = c.Kind()
		if c.Kind() == KindNumeric {
			s.Numeric = append(s.Numeric, c.Name())
		} else {
			s.NonNumeric = append(s.NonNumeric, c.Name())
		}
	}
	return s
}

// Has reports whether the schema contains name.
func (s Schema) Has(name string) bool {
	_, ok := s.kinds[name]
	return ok
}

// IsNumeric reports whether name is a numeric column.
func (s Schema) IsNumeric(name string) bool {
	k, ok := s.kinds[name]
	return ok && k == KindNumeric
}

// IsText reports whether name is a non-numeric column.
func (s Schema) IsText(name string) bool {
	k, ok := s.kinds[name]
	return ok && k == KindText
}

// RequireColumn checks that name exists.
func (s Schema) RequireColumn(role, name string) error {
	if !s.Has(name) {
		return &ColumnError{Column: name, Role: role, Err: ErrColumnMissing}
	}
	return nil
}

// RequireNumeric checks that name exists and is numeric.
func (s Schema) RequireNumeric(role, name string) error {
	if err := s.RequireColumn(role, name); err != nil {
		return err
	}
	if !s.IsNumeric(name) {
		return &ColumnError{Column: name, Role: role, Err: ErrColumnType}
	}
	return nil
}

// RequireText checks that name exists and is non-numeric.
func (s Schema) RequireText(role, name string) error {
	if err := s.RequireColumn(role, name); err != nil {
		return err
	}
	if !s.IsText(name) {
		return &ColumnError{Column: name, Role: role, Err: ErrColumnType}
	}
	return nil
}

// Present returns the names that exist in the schema, in the given order.
func (s Schema) Present(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if s.Has(n) {
			out = append(out, n)
		}
	}
	return out
}
