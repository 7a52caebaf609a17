package dataset

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/CollegeExplorer/internal/core"
	"github.com/JonMunkholm/CollegeExplorer/internal/logging"
)

// Table names used in logs and Snapshot.Sources.
const (
	TableInstitutions = "institutions"
	TablePrograms     = "programs"
	TableDictionary   = "dictionary"
)

// Sources holds the fallback chain for each table.
type Sources struct {
	Institutions []Source
	Programs     []Source
	Dictionary   []Source
}

// Snapshot is the dataset loaded once at startup. Nothing in it is modified
// afterwards, so it can be shared by concurrent requests.
type Snapshot struct {
	Institutions *core.Table
	Programs     *core.Table
	Display      *DisplayMap

	// Sources records which source served each table.
	Sources  map[string]string
	LoadedAt time.Time
}

// Load reads all three tables. The dictionary is read first because the
// institution table is renamed through it. Any table whose sources all fail
// makes Load fail.
func Load(ctx context.Context, src Sources) (*Snapshot, error) {
	start := time.Now()
	snap := &Snapshot{Sources: make(map[string]string, 3)}

	dict, from, err := LoadFirst(ctx, TableDictionary, src.Dictionary)
	if err != nil {
		return nil, err
	}
	snap.Sources[TableDictionary] = from
	if snap.Display, err = NewDisplayMap(dict); err != nil {
		return nil, err
	}

	inst, from, err := LoadFirst(ctx, TableInstitutions, src.Institutions)
	if err != nil {
		return nil, err
	}
	snap.Sources[TableInstitutions] = from
	if inst, err = snap.Display.Apply(inst); err != nil {
		return nil, fmt.Errorf("rename institutions: %w", err)
	}
	if snap.Institutions, err = Decode(inst); err != nil {
		return nil, fmt.Errorf("decode institutions: %w", err)
	}

	snap.Programs, from, err = LoadFirst(ctx, TablePrograms, src.Programs)
	if err != nil {
		return nil, err
	}
	snap.Sources[TablePrograms] = from

	snap.LoadedAt = time.Now()
	logging.FromContext(ctx).Info("dataset loaded",
		"institutions", snap.Institutions.Len(),
		"institution_columns", snap.Institutions.Width(),
		"programs", snap.Programs.Len(),
		"dictionary_entries", snap.Display.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return snap, nil
}

// Explorer returns a pipeline over the snapshot's tables.
func (s *Snapshot) Explorer() *core.Explorer {
	return core.NewExplorer(s.Institutions, s.Programs)
}
