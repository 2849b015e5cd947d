// Package groups owns the persisted collection of named ticker groups shown on the dashboard.
package groups

import (
	"slices"

	"github.com/aristath/graham/internal/utils"
)

// DefaultGroupName is the name of the built-in group restored on every load.
const DefaultGroupName = "Top 20 Industrial Stocks"

// StorageKey is the well-known key the group set is persisted under.
const StorageKey = "financial-dashboard-groups"

// DefaultTickers returns the canonical symbols of the default group.
func DefaultTickers() []string {
	return []string{
		"GE", "RTX", "CAT", "BA", "GEV", "HON", "ETN", "UNP", "DE", "LMT",
		"PH", "TT", "WM", "GD", "NOC", "RELX", "CTAS", "MMM", "TRI", "ITW",
	}
}

// TickerGroup is a named, ordered list of ticker symbols.
type TickerGroup struct {
	Name      string   `json:"name" msgpack:"name"`
	Tickers   []string `json:"tickers" msgpack:"tickers"`
	IsDefault bool     `json:"isDefault,omitempty" msgpack:"isDefault,omitempty"`
}

// GroupSet is the ordered collection of groups. Exactly one group carries the default flag.
type GroupSet []TickerGroup

// DefaultGroup builds a fresh canonical default group.
func DefaultGroup() TickerGroup {
	return TickerGroup{Name: DefaultGroupName, Tickers: DefaultTickers(), IsDefault: true}
}

// DefaultGroupSet is the set used when nothing usable is persisted.
func DefaultGroupSet() GroupSet {
	return GroupSet{DefaultGroup()}
}

// Clone returns a deep copy so callers can mutate without touching the original.
func (s GroupSet) Clone() GroupSet {
	out := make(GroupSet, len(s))
	for i, g := range s {
		out[i] = TickerGroup{Name: g.Name, Tickers: slices.Clone(g.Tickers), IsDefault: g.IsDefault}
		if out[i].Tickers == nil {
			out[i].Tickers = []string{}
		}
	}
	return out
}

// DefaultIndex returns the position of the default group, or -1.
func (s GroupSet) DefaultIndex() int {
	return slices.IndexFunc(s, func(g TickerGroup) bool { return g.IsDefault })
}

// Normalize repairs a loaded group set:
//   - an empty set becomes the default set
//   - a set without a default group gets the default appended
//   - a default group missing any canonical symbol is rebuilt as the canonical list followed
//     by the non-canonical symbols it already had
//   - duplicate tickers within a group are dropped, keeping first occurrence
//   - only the first group flagged default keeps the flag
//
// Normalize is idempotent and never mutates raw.
func Normalize(raw GroupSet) GroupSet {
	if len(raw) == 0 {
		return DefaultGroupSet()
	}

	set := raw.Clone()
	seenDefault := false
	for i := range set {
		set[i].Tickers = utils.UniqueStrings(set[i].Tickers)
		if !set[i].IsDefault {
			continue
		}
		if seenDefault {
			set[i].IsDefault = false
			continue
		}
		seenDefault = true
		set[i].Tickers = repairDefaultTickers(set[i].Tickers)
	}

	if !seenDefault {
		set = append(set, DefaultGroup())
	}
	return set
}

func repairDefaultTickers(current []string) []string {
	canonical := DefaultTickers()
	complete := true
	for _, sym := range canonical {
		if !slices.Contains(current, sym) {
			complete = false
			break
		}
	}
	if complete {
		return current
	}

	repaired := canonical
	for _, sym := range current {
		if !slices.Contains(canonical, sym) {
			repaired = append(repaired, sym)
		}
	}
	return repaired
}
