package dataset

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/CollegeExplorer/internal/core"
)

func TestFileSource(t *testing.T) {
	path := writeFile(t, "programs.csv", programsCSV)

	tbl, err := FileSource{Path: path}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Len() != 3 || !tbl.Has(core.ColProgramTitle) {
		t.Errorf("table = %v rows %d", tbl.Names(), tbl.Len())
	}

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "missing.csv")}.Load(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/dict.csv":
			w.Write([]byte(programsCSV))
		case "/big.csv":
			w.Header().Set("Content-Length", "100000")
			w.Write(make([]byte, 100000))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	tests := []struct {
		name    string
		path    string
		max     int64
		wantErr error
	}{
		{"ok", "/dict.csv", 0, nil},
		{"not found", "/nope.csv", 0, ErrSourceUnavailable},
		{"declared too large", "/big.csv", 1000, ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := HTTPSource{URL: srv.URL + tt.path, Client: srv.Client(), MaxBytes: tt.max}
			tbl, err := src.Load(context.Background())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if tbl.Len() != 3 {
				t.Errorf("rows = %d, want 3", tbl.Len())
			}
		})
	}
}

// stubSource returns a fixed table or error and counts calls.
type stubSource struct {
	name  string
	table *core.Table
	err   error
	calls *int
}

func (s stubSource) Name() string { return s.name }

func (s stubSource) Load(ctx context.Context) (*core.Table, error) {
	if s.calls != nil {
		*s.calls++
	}
	return s.table, s.err
}

func TestLoadFirst(t *testing.T) {
	tbl := mustReadCSV(t, programsCSV)
	fail := errors.New("boom")

	t.Run("first success wins", func(t *testing.T) {
		var later int
		got, from, err := LoadFirst(context.Background(), "programs", []Source{
			stubSource{name: "a", err: fail},
			stubSource{name: "b", table: tbl},
			stubSource{name: "c", table: tbl, calls: &later},
		})
		if err != nil {
			t.Fatalf("LoadFirst: %v", err)
		}
		if got != tbl || from != "b" {
			t.Errorf("got source %q", from)
		}
		if later != 0 {
			t.Error("sources after the first success should not be tried")
		}
	})

	t.Run("all fail", func(t *testing.T) {
		_, _, err := LoadFirst(context.Background(), "programs", []Source{
			stubSource{name: "a", err: fail},
			stubSource{name: "b", err: ErrInvalidCSV},
		})
		if !errors.Is(err, ErrSourceUnavailable) || !errors.Is(err, fail) || !errors.Is(err, ErrInvalidCSV) {
			t.Errorf("err = %v, want every attempt joined", err)
		}
	})

	t.Run("no sources", func(t *testing.T) {
		if _, _, err := LoadFirst(context.Background(), "programs", nil); !errors.Is(err, ErrSourceUnavailable) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("cancelled stops the chain", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var later int
		_, _, err := LoadFirst(ctx, "programs", []Source{
			stubSource{name: "a", err: context.Canceled},
			stubSource{name: "b", table: tbl, calls: &later},
		})
		if !errors.Is(err, context.Canceled) || later != 0 {
			t.Errorf("err = %v, later calls = %d", err, later)
		}
	})
}

func TestChain(t *testing.T) {
	srcs := Chain("reportcard.csv", "https://example.com/reportcard.csv", nil, 10)
	if len(srcs) != 2 {
		t.Fatalf("len = %d, want 2", len(srcs))
	}
	if srcs[0].Name() != "file:reportcard.csv" || srcs[1].Name() != "url:https://example.com/reportcard.csv" {
		t.Errorf("names = %q, %q", srcs[0].Name(), srcs[1].Name())
	}
	if got := Chain("", "", nil, 10); len(got) != 0 {
		t.Errorf("empty locations should yield no sources, got %d", len(got))
	}
}

// fakeRows is an in-memory pgx.Rows.
type fakeRows struct {
	fields []pgconn.FieldDescription
	rows   [][]any
	i      int
	err    error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return r.fields }
func (r *fakeRows) Scan(dest ...any) error                       { return errors.New("not supported") }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.i >= len(r.rows) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Values() ([]any, error) { return r.rows[r.i-1], nil }

type fakeQuerier struct {
	rows *fakeRows
	err  error
	sql  string
}

func (q *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.sql = sql
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

func TestPostgresSource(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{
		fields: []pgconn.FieldDescription{{Name: "id"}, {Name: "name"}, {Name: "admission_rate.overall"}},
		rows: [][]any{
			{int32(100), "Alpha College", pgtype.Numeric{Int: big.NewInt(5), Exp: -1, Valid: true}},
			{int64(200), "Beta University", nil},
		},
	}}

	tbl, err := PostgresSource{DB: q, Table: "public.institutions"}.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if q.sql != `SELECT * FROM "public"."institutions"` {
		t.Errorf("sql = %q", q.sql)
	}

	schema := core.Classify(tbl)
	if !schema.IsNumeric("id") || !schema.IsText("name") || !schema.IsNumeric("admission_rate.overall") {
		t.Errorf("schema = %+v", schema)
	}
	adm, _ := tbl.Column("admission_rate.overall")
	if v, ok := adm.Float(0); !ok || v != 0.5 {
		t.Errorf("row 0 = %v, %v", v, ok)
	}
	if !adm.IsMissing(1) {
		t.Error("NULL should be missing")
	}
}

func TestPostgresSourceUnavailable(t *testing.T) {
	q := &fakeQuerier{err: errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")}
	_, err := PostgresSource{DB: q, Table: "institutions"}.Load(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("err = %v, want ErrSourceUnavailable", err)
	}
	if got := core.MapError(err).Code; got != "SRC001" {
		t.Errorf("code = %q, want SRC001", got)
	}
}

func TestCellString(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{[]byte("y"), "y"},
		{true, "true"},
		{int16(7), "7"},
		{float32(0.25), "0.25"},
		{1.5, "1.5"},
		{pgtype.Numeric{Int: big.NewInt(12345), Exp: -2, Valid: true}, "123.45"},
		{pgtype.Numeric{}, ""},
		{ts, "2024-01-02T03:04:05Z"},
	}
	for _, tt := range tests {
		if got := cellString(tt.in); got != tt.want {
			t.Errorf("cellString(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
