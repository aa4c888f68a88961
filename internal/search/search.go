// Package search filters, scores and orders episodes for a free-text query.
//
// All functions are pure: the input slice and its episodes are never
// modified, and every call returns freshly built values.
package search

import (
	"slices"
	"strings"

	"github.com/raphaelgruber/showmarks/internal/models"
)

// Result is the output of Search.
type Result struct {
	Items           []models.Episode `json:"items"`
	Matches         int              `json:"matches"`
	TotalTimestamps int              `json:"total_timestamps"`
}

// Words splits query on whitespace into lower-cased, non-empty tokens.
func Words(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Search keeps the episodes whose title or any timestamp topic contains at
// least one query word.
//
// An episode kept for a topic match carries only the matching timestamps.
// An episode kept solely for its title carries its full timestamp list.
// Matches counts matching timestamps across all episodes. TotalTimestamps is
// computed over the whole input regardless of the query.
func Search(data []models.Episode, query string) Result {
	total := 0
	for _, ep := range data {
		total += ep.TimestampCount()
	}

	words := Words(query)
	if len(words) == 0 {
		return Result{Items: slices.Clone(data), TotalTimestamps: total}
	}

	items := make([]models.Episode, 0, len(data))
	matches := 0
	for _, ep := range data {
		titleHit := containsAny(strings.ToLower(ep.Title), words)

		var hits []models.Timestamp
		for _, ts := range ep.Timestamps {
			if containsAny(strings.ToLower(ts.Topic), words) {
				hits = append(hits, ts)
				matches++
			}
		}

		if !titleHit && len(hits) == 0 {
			continue
		}
		kept := ep
		if len(hits) > 0 {
			kept.Timestamps = hits
		}
		items = append(items, kept)
	}

	return Result{Items: items, Matches: matches, TotalTimestamps: total}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
