package valuation

import (
	"fmt"
	"slices"
	"strings"
)

// SortMode is the display order of a valuation set.
type SortMode string

const (
	SortNone       SortMode = "none"
	SortDescending SortMode = "desc"
	SortAscending  SortMode = "asc"
)

// Next returns the mode after m in the toggle cycle none -> desc -> asc -> none.
func (m SortMode) Next() SortMode {
	switch m {
	case SortNone:
		return SortDescending
	case SortDescending:
		return SortAscending
	default:
		return SortNone
	}
}

// Label is the sort button caption.
func (m SortMode) Label() string {
	switch m {
	case SortDescending:
		return "Highest to Lowest"
	case SortAscending:
		return "Lowest to Highest"
	default:
		return "Sort by Value"
	}
}

// ParseSortMode accepts the mode names plus a few spelled-out aliases.
// The empty string is SortNone.
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "unordered":
		return SortNone, nil
	case "desc", "descending":
		return SortDescending, nil
	case "asc", "ascending":
		return SortAscending, nil
	default:
		return SortNone, fmt.Errorf("unknown sort mode %q", s)
	}
}

// Order returns valuations arranged by mode in a new slice. The input is never
// modified; equal values keep their original relative order.
func Order(valuations []TickerValuation, mode SortMode) []TickerValuation {
	ordered := slices.Clone(valuations)
	if ordered == nil {
		ordered = []TickerValuation{}
	}

	switch mode {
	case SortDescending:
		slices.SortStableFunc(ordered, func(a, b TickerValuation) int {
			return compareValues(b.MyValue, a.MyValue)
		})
	case SortAscending:
		slices.SortStableFunc(ordered, func(a, b TickerValuation) int {
			return compareValues(a.MyValue, b.MyValue)
		})
	}

	return ordered
}

func compareValues(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
