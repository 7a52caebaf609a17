package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/CollegeExplorer/internal/core"
)

var (
	// ErrInvalidCSV wraps any parse failure of the underlying CSV.
	ErrInvalidCSV = errors.New("invalid csv")
	// ErrEmptyTable is returned for input with no header row.
	ErrEmptyTable = errors.New("empty table")
)

// ctxCheckEvery is how many records are read between context checks.
const ctxCheckEvery = 4096

// ReadCSV parses r into a typed table. The first record is the header; each
// column's kind is inferred from its cells. A leading unnamed index column, as
// written by dataframe exports, is dropped. maxBytes caps the input size when
// positive.
func ReadCSV(ctx context.Context, r io.Reader, maxBytes int64) (*core.Table, error) {
	cr := csv.NewReader(wrapInput(r, maxBytes))
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyTable
	}
	if err != nil {
		return nil, csvError(err)
	}

	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
	}
	skip := 0
	if len(names) > 0 && isIndexColumn(names[0]) {
		skip = 1
	}
	names = names[skip:]
	if len(names) == 0 {
		return nil, ErrEmptyTable
	}

	cells := make([][]string, len(names))
	for n := 0; ; n++ {
		if n%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		for i := range names {
			cells[i] = append(cells[i], rec[i+skip])
		}
	}

	b := core.NewTableBuilder()
	for i, name := range names {
		if name == "" {
			name = fmt.Sprintf("column_%d", i+skip)
		}
		b.AddColumn(core.BuildColumn(name, core.InferKind(cells[i]), cells[i]))
	}
	t, err := b.Done()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCSV, err)
	}
	return t, nil
}

func isIndexColumn(name string) bool {
	return name == "" || strings.HasPrefix(name, "Unnamed: 0")
}

// csvError wraps parse failures as ErrInvalidCSV, passing size-cap overflow
// through unchanged.
func csvError(err error) error {
	if errors.Is(err, ErrTooLarge) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidCSV, err)
}
