package core

import (
	"fmt"
	"slices"
)

// Key columns of the two source tables.
const (
	ColID                = "id"
	ColProgramUnitID     = "cip.unit_id"
	ColProgramTitle      = "cip.title"
	ColProgramCredential = "cip.credential.title"
)

// collisionSuffix is appended to a program column whose name is already
// used by an institution column.
const collisionSuffix = "_program"

// ResolveScope derives the working dataset for the current selection.
//
// With no categories the institution table is returned as is. Otherwise the
// program rows are restricted to the given categories and the exact
// credential level, then inner-joined to institutions on id = cip.unit_id.
// The join fans out: an institution with several matching programs appears
// once per program. Output rows follow institution order, then program order.
// An empty match is a zero-row joined table, not an error.
func ResolveScope(institutions, programs *Table, categories []string, credential string) (*Table, Scope, error) {
	if len(categories) == 0 {
		return institutions, ScopeInstitution, nil
	}

	instID, err := institutions.Column(ColID)
	if err != nil {
		return nil, ScopeJoined, fmt.Errorf("resolve scope: institutions: %w", err)
	}
	unitID, err := programs.Column(ColProgramUnitID)
	if err != nil {
		return nil, ScopeJoined, fmt.Errorf("resolve scope: programs: %w", err)
	}
	title, err := programs.Column(ColProgramTitle)
	if err != nil {
		return nil, ScopeJoined, fmt.Errorf("resolve scope: programs: %w", err)
	}
	cred, err := programs.Column(ColProgramCredential)
	if err != nil {
		return nil, ScopeJoined, fmt.Errorf("resolve scope: programs: %w", err)
	}

	wanted := make(map[string]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}

	// program rows by institution key, in program order
	byUnit := make(map[string][]int)
	for i := 0; i < programs.Len(); i++ {
		if unitID.IsMissing(i) || title.IsMissing(i) || cred.IsMissing(i) {
			continue
		}
		if !wanted[title.Format(i)] || cred.Format(i) != credential {
			continue
		}
		key := unitID.Format(i)
		byUnit[key] = append(byUnit[key], i)
	}

	var instRows, progRows []int
	for i := 0; i < institutions.Len(); i++ {
		if instID.IsMissing(i) {
			continue
		}
		for _, p := range byUnit[instID.Format(i)] {
			instRows = append(instRows, i)
			progRows = append(progRows, p)
		}
	}

	b := NewTableBuilder()
	for _, c := range institutions.Columns() {
		b.AddColumn(c.take(instRows))
	}
	for _, c := range programs.Columns() {
		col := c.take(progRows)
		if b.Has(col.Name()) {
			col = col.Renamed(col.Name() + collisionSuffix)
		}
		b.AddColumn(col)
	}
	joined, err := b.Done()
	if err != nil {
		return nil, ScopeJoined, fmt.Errorf("resolve scope: %w", err)
	}
	joined.rows = len(instRows)
	return joined, ScopeJoined, nil
}

// ProgramCategories lists the distinct program categories, sorted.
func ProgramCategories(programs *Table) []string {
	return distinct(programs, ColProgramTitle)
}

// CredentialLevels lists the distinct credential levels, sorted.
func CredentialLevels(programs *Table) []string {
	return distinct(programs, ColProgramCredential)
}

func distinct(t *Table, name string) []string {
	col, err := t.Column(name)
	if err != nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for i := 0; i < col.Len(); i++ {
		if col.IsMissing(i) {
			continue
		}
		v := col.Format(i)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}
