package models

import "strings"

// SortMode selects how a result list is ordered.
type SortMode string

// Supported sort modes.
const (
	SortRelevance SortMode = "relevance"
	SortNewest    SortMode = "newest"
	SortOldest    SortMode = "oldest"
)

// SortModes lists the modes in the order the browser cycles through them.
var SortModes = []SortMode{SortRelevance, SortNewest, SortOldest}

// ParseSortMode maps user input to a SortMode.
// Anything unrecognised is treated as relevance.
func ParseSortMode(s string) SortMode {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case SortNewest:
		return SortNewest
	case SortOldest:
		return SortOldest
	default:
		return SortRelevance
	}
}

// Next returns the mode after m in SortModes, wrapping around.
func (m SortMode) Next() SortMode {
	for i, mode := range SortModes {
		if mode == m {
			return SortModes[(i+1)%len(SortModes)]
		}
	}
	return SortRelevance
}
