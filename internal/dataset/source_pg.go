package dataset

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/CollegeExplorer/internal/core"
)

// Querier is the part of *pgxpool.Pool the Postgres source needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads every row of a table. Table may be schema-qualified
// ("public.institutions"). Values are converted to text and typed the same
// way CSV cells are, so both sources produce identical tables.
type PostgresSource struct {
	DB    Querier
	Table string
}

func (s PostgresSource) Name() string { return "postgres:" + s.Table }

func (s PostgresSource) Load(ctx context.Context) (*core.Table, error) {
	ident := pgx.Identifier(strings.Split(s.Table, ".")).Sanitize()

	rows, err := s.DB.Query(ctx, "SELECT * FROM "+ident)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	if len(fields) == 0 {
		return nil, ErrEmptyTable
	}

	cells := make([][]string, len(fields))
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", s.Table, err)
		}
		for i, v := range vals {
			cells[i] = append(cells[i], cellString(v))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	b := core.NewTableBuilder()
	for i, f := range fields {
		b.AddColumn(core.BuildColumn(f.Name, core.InferKind(cells[i]), cells[i]))
	}
	return b.Done()
}

// cellString renders a decoded Postgres value as a CSV-style cell. NULL
// becomes the empty string, which reads back as missing.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
