package dataset

import (
	"fmt"
	"log/slog"
	"regexp"
	"slices"

	"github.com/JonMunkholm/CollegeExplorer/internal/core"
)

// Dictionary columns holding the raw code and its readable label.
const (
	DictCodeColumn  = "VARIABLE NAME"
	DictLabelColumn = "developer-friendly name"
)

// Allowlist names the structural columns kept even when the dictionary does
// not describe them.
var Allowlist = []string{
	core.ColName, core.ColSize, core.ColCity, core.ColState, core.ColZip,
	core.ColRegion, core.ColLocale, core.ColLon, core.ColLat,
}

// labelRewrites shorten dictionary labels. The patterns are regular
// expressions applied in order.
var labelRewrites = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`by_income_level`), "income"},
	{regexp.MustCompile(`.working_not_enrolled`), ""},
	{regexp.MustCompile(`outcome_percentage`), "perc"},
}

// locationRenames is applied after dictionary renaming.
var locationRenames = map[string]string{
	"location.lon": core.ColLon,
	"location.lat": core.ColLat,
}

// DisplayEntry is one dictionary mapping.
type DisplayEntry struct {
	Code        string `json:"code"`
	Label       string `json:"label"`
	Allowlisted bool   `json:"allowlisted"`
}

// DisplayMap maps raw column codes to readable labels. It is immutable.
type DisplayMap struct {
	labels  map[string]string
	known   map[string]bool
	entries []DisplayEntry
}

// NewDisplayMap builds the map from a dictionary table. Rows without a label
// are skipped; when a code repeats, the later label wins.
func NewDisplayMap(dict *core.Table) (*DisplayMap, error) {
	codes, err := dict.Column(DictCodeColumn)
	if err != nil {
		return nil, fmt.Errorf("dictionary: %w", err)
	}
	labels, err := dict.Column(DictLabelColumn)
	if err != nil {
		return nil, fmt.Errorf("dictionary: %w", err)
	}

	m := &DisplayMap{
		labels: make(map[string]string),
		known:  make(map[string]bool),
	}
	order := make(map[string]int)
	for i := 0; i < dict.Len(); i++ {
		code, label := codes.Format(i), labels.Format(i)
		if code == "" || label == "" {
			continue
		}
		label = rewriteLabel(label)
		if label == "" {
			continue
		}
		m.labels[code] = label
		if idx, ok := order[code]; ok {
			m.entries[idx].Label = label
			continue
		}
		order[code] = len(m.entries)
		m.entries = append(m.entries, DisplayEntry{Code: code, Label: label})
	}
	for i := range m.entries {
		m.known[m.entries[i].Label] = true
		m.entries[i].Allowlisted = slices.Contains(Allowlist, renamedLocation(m.entries[i].Label))
	}
	return m, nil
}

func rewriteLabel(s string) string {
	for _, r := range labelRewrites {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return s
}

func renamedLocation(name string) string {
	if to, ok := locationRenames[name]; ok {
		return to
	}
	return name
}

// Label returns the readable label for code, or code itself when unmapped.
func (m *DisplayMap) Label(code string) string {
	if l, ok := m.labels[code]; ok {
		return l
	}
	return code
}

// Len returns the number of mapped codes.
func (m *DisplayMap) Len() int { return len(m.entries) }

// Entries returns the mappings in dictionary order.
func (m *DisplayMap) Entries() []DisplayEntry {
	return slices.Clone(m.entries)
}

// Apply renames t's columns to their labels and drops columns that are
// neither described by the dictionary nor structural. The id column is always
// kept because the program join needs it. If two columns end up with the same
// name the first one is kept.
func (m *DisplayMap) Apply(t *core.Table) (*core.Table, error) {
	b := core.NewTableBuilder()
	var dropped, collided int
	for _, c := range t.Columns() {
		name := c.Name()
		described := false
		if l, ok := m.labels[name]; ok {
			name, described = l, true
		} else if m.known[name] {
			described = true
		}
		name = renamedLocation(name)

		if !described && name != core.ColID && !slices.Contains(Allowlist, name) {
			dropped++
			continue
		}
		if b.Has(name) {
			collided++
			continue
		}
		b.AddColumn(c.Renamed(name))
	}
	if dropped > 0 || collided > 0 {
		slog.Debug("display map applied", "dropped", dropped, "collisions", collided)
	}
	return b.Done()
}
