package core

import (
	"errors"
	"fmt"
	"strings"
)

// Region is the IPEDS region code carried in the region_id column.
type Region int

var regionNames = map[Region]string{
	0: "U.S. Service Schools",
	1: "New England",
	2: "Mid East",
	3: "Great Lakes",
	4: "Plains",
	5: "Southeast",
	6: "Southwest",
	7: "Rocky Mountains",
	8: "Far West",
	9: "Outlying",
}

// String returns the region's display name, or "Unknown" for unmapped codes.
func (r Region) String() string {
	if name, ok := regionNames[r]; ok {
		return name
	}
	return "Unknown"
}

// Locale is the urbanicity code carried in the locale column.
type Locale int

var localeNames = map[Locale]string{
	11: "Large City",
	12: "Midsize City",
	13: "Small City",
	21: "Large Suburb",
	22: "Midsize Suburb",
	23: "Small Suburb",
	31: "Fringe Town",
	32: "Distant Town",
	33: "Remote Town",
	41: "Fringe Rural",
	42: "Distant Rural",
	43: "Remote Rural",
}

// String returns the locale's display name, or "Unknown" for unmapped codes.
func (l Locale) String() string {
	if name, ok := localeNames[l]; ok {
		return name
	}
	return "Unknown"
}

// Scope identifies which table the working dataset was derived from.
type Scope int

const (
	// ScopeInstitution is the institution table as loaded.
	ScopeInstitution Scope = iota
	// ScopeJoined is institutions inner-joined with filtered program rows.
	ScopeJoined
)

func (s Scope) String() string {
	switch s {
	case ScopeInstitution:
		return "institution"
	case ScopeJoined:
		return "joined"
	default:
		return "unknown"
	}
}

// Mode is the requested visualization.
type Mode int

const (
	ModeTableScatter Mode = iota
	ModeScatter
	ModeTableMap
	ModeMap
	ModePairPlot
)

// Modes lists every mode in display order.
var Modes = []Mode{ModeTableScatter, ModeScatter, ModeTableMap, ModeMap, ModePairPlot}

var modeInfo = map[Mode]struct{ slug, label string }{
	ModeTableScatter: {"table-scatter", "Table + Scatter"},
	ModeScatter:      {"scatter", "Scatter"},
	ModeTableMap:     {"table-map", "Table + Map"},
	ModeMap:          {"map", "Map"},
	ModePairPlot:     {"pairplot", "Pair Plot"},
}

// String returns the mode's URL slug.
func (m Mode) String() string {
	if info, ok := modeInfo[m]; ok {
		return info.slug
	}
	return "unknown"
}

// Label returns the mode's display label.
func (m Mode) Label() string {
	if info, ok := modeInfo[m]; ok {
		return info.label
	}
	return "Unknown"
}

// ShowsTable reports whether the mode renders the table view.
func (m Mode) ShowsTable() bool { return m == ModeTableScatter || m == ModeTableMap }

// ShowsScatter reports whether the mode renders the scatter plot.
func (m Mode) ShowsScatter() bool { return m == ModeTableScatter || m == ModeScatter }

// ShowsMap reports whether the mode renders the map layer.
func (m Mode) ShowsMap() bool { return m == ModeTableMap || m == ModeMap }

// ErrUnknownMode is returned by ParseMode for unrecognized input.
var ErrUnknownMode = errors.New("unknown mode")

// ParseMode accepts a slug ("table-map") or a label ("Table + Map"),
// case-insensitively. An empty string is the default mode.
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ModeTableScatter, nil
	}
	for _, m := range Modes {
		info := modeInfo[m]
		if strings.EqualFold(s, info.slug) || strings.EqualFold(s, info.label) {
			return m, nil
		}
	}
	return ModeTableScatter, fmt.Errorf("%w %q", ErrUnknownMode, s)
}
