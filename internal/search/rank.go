package search

import (
	"slices"
	"strings"

	"github.com/raphaelgruber/showmarks/internal/models"
)

// Score weights.
const (
	TitleWeight = 5
	TopicWeight = 1
)

// Score rates how strongly ep matches words.
//
// Each word adds TitleWeight when the title contains it, plus TopicWeight for
// every timestamp whose topic contains it. Scoring runs over ep.Timestamps as
// given, so a filtered episode is scored on its retained timestamps only.
func Score(ep models.Episode, words []string) int {
	if len(words) == 0 {
		return 0
	}

	title := strings.ToLower(ep.Title)
	topics := make([]string, len(ep.Timestamps))
	for i, ts := range ep.Timestamps {
		topics[i] = strings.ToLower(ts.Topic)
	}

	score := 0
	for _, w := range words {
		if strings.Contains(title, w) {
			score += TitleWeight
		}
		for _, topic := range topics {
			if strings.Contains(topic, w) {
				score += TopicWeight
			}
		}
	}
	return score
}

// OrderBy returns a sorted copy of items.
//
// SortNewest and SortOldest order by date. Any other mode, including unknown
// values, orders by descending Score for query. Sorting is stable, so ties
// keep their input order.
func OrderBy(items []models.Episode, mode models.SortMode, query string) []models.Episode {
	out := slices.Clone(items)

	switch mode {
	case models.SortNewest:
		slices.SortStableFunc(out, func(a, b models.Episode) int {
			return b.Date.Compare(a.Date)
		})
	case models.SortOldest:
		slices.SortStableFunc(out, func(a, b models.Episode) int {
			return a.Date.Compare(b.Date)
		})
	default:
		words := Words(query)
		keyed := make([]scored, len(out))
		for i, ep := range out {
			keyed[i] = scored{ep: ep, score: Score(ep, words)}
		}
		slices.SortStableFunc(keyed, func(a, b scored) int {
			return b.score - a.score
		})
		for i := range keyed {
			out[i] = keyed[i].ep
		}
	}

	return out
}

type scored struct {
	ep    models.Episode
	score int
}
