package web

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/schema"

	"github.com/JonMunkholm/CollegeExplorer/internal/core"
)

// selectionForm is the query-string form of a core.Selection. The same keys
// are used by the explorer page form and the JSON and SVG endpoints.
type selectionForm struct {
	Mode       string   `schema:"mode,default:table-scatter"`
	Programs   []string `schema:"program"`
	Credential string   `schema:"credential"`

	Range1Column string `schema:"range1_col"`
	Range1       string `schema:"range1"`
	Range2Column string `schema:"range2_col"`
	Range2       string `schema:"range2"`
	SearchColumn string `schema:"search_col"`
	Search       string `schema:"search"`

	Columns  []string `schema:"columns"`
	X        string   `schema:"x"`
	Y        string   `schema:"y"`
	Category string   `schema:"category"`
	Bubble   string   `schema:"bubble"`
	Factor   string   `schema:"factor"`
	Pair     []string `schema:"pair"`
}

// errDecode marks query parameters that cannot be decoded into selectionForm.
var errDecode = errors.New("invalid query")

// formDecoder is safe for concurrent use once configured.
var formDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

// DecodeSelection turns query parameters into a selection. A mode that
// cannot be parsed is reported as a notice and the default mode is used.
//
// The range texts default to the UI's prefilled values only when their key
// is absent: an explicitly empty range disables that constraint.
func DecodeSelection(q url.Values) (core.Selection, []core.Notice, error) {
	var f selectionForm
	if err := formDecoder.Decode(&f, q); err != nil {
		return core.Selection{}, nil, fmt.Errorf("decode selection: %w: %v", errDecode, err)
	}
	if _, ok := q["range1"]; !ok {
		f.Range1 = core.DefaultRange1Text
	}
	if _, ok := q["range2"]; !ok {
		f.Range2 = core.DefaultRange2Text
	}

	var notices []core.Notice
	mode, err := core.ParseMode(f.Mode)
	if err != nil {
		notices = append(notices, core.ModeNotice(err))
	}

	return core.Selection{
		Mode:       mode,
		Categories: nonEmpty(f.Programs),
		Credential: strings.TrimSpace(f.Credential),
		Filters: core.FilterSpec{
			Range1: core.RangeConstraint{Column: f.Range1Column, Text: f.Range1},
			Range2: core.RangeConstraint{Column: f.Range2Column, Text: f.Range2},
			Search: core.TextConstraint{Column: f.SearchColumn, Text: f.Search},
		},
		Columns:        nonEmpty(f.Columns),
		XColumn:        f.X,
		YColumn:        f.Y,
		CategoryColumn: f.Category,
		BubbleColumn:   f.Bubble,
		BubbleFactor:   f.Factor,
		PairColumns:    nonEmpty(f.Pair),
	}, notices, nil
}

// nonEmpty drops blank entries left by empty form fields.
func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
