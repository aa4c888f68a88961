package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/showmarks/internal/catalog"
	"github.com/raphaelgruber/showmarks/internal/metrics"
	"github.com/raphaelgruber/showmarks/internal/models"
)

func newTestService(t *testing.T) *BrowseService {
	t.Helper()
	store := catalog.NewStaticStore([]models.Episode{
		{
			EpisodeNumber: 1,
			Title:         "Intro to Rust",
			Date:          models.NewDate(2024, time.January, 1),
			YouTubeID:     "aaa",
			Timestamps: []models.Timestamp{
				{Timestamp: "00:01:00", Topic: "welcome"},
				{Timestamp: "00:10:00", Topic: "ownership"},
			},
		},
		{
			EpisodeNumber: 2,
			Title:         "Go Concurrency",
			Date:          models.NewDate(2024, time.June, 1),
			YouTubeID:     "bbb",
			Timestamps: []models.Timestamp{
				{Timestamp: "00:02:00", Topic: "goroutines"},
				{Timestamp: "00:20:00", Topic: "Rust comparison"},
				{Timestamp: "00:30:00", Topic: "channels"},
			},
		},
		{
			EpisodeNumber: 3,
			Title:         "Listener Mailbag",
			Date:          models.NewDate(2024, time.March, 15),
			YouTubeID:     "ccc",
		},
	})
	return NewBrowseService(store, metrics.NewCollector(), nil)
}

func numbers(eps []models.Episode) []int {
	out := make([]int, len(eps))
	for i, ep := range eps {
		out[i] = ep.EpisodeNumber
	}
	return out
}

func TestBrowse(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		opts        BrowseOptions
		wantNumbers []int
		wantMatches int
		wantSummary string
		truncated   bool
	}{
		{
			name:        "empty query keeps catalog order",
			opts:        BrowseOptions{},
			wantNumbers: []int{1, 2, 3},
			wantSummary: "Episodes: 3 • Timestamps: 5",
		},
		{
			name:        "empty query newest",
			opts:        BrowseOptions{Sort: models.SortNewest},
			wantNumbers: []int{2, 3, 1},
			wantSummary: "Episodes: 3 • Timestamps: 5",
		},
		{
			name:        "query by relevance",
			opts:        BrowseOptions{Query: "rust"},
			wantNumbers: []int{1, 2},
			wantMatches: 1,
			wantSummary: "Showing 2 of 3 episodes • 1 matches in 5 timestamps",
		},
		{
			name:        "query oldest",
			opts:        BrowseOptions{Query: "  Rust  ", Sort: models.SortOldest},
			wantNumbers: []int{1, 2},
			wantMatches: 1,
			wantSummary: "Showing 2 of 3 episodes • 1 matches in 5 timestamps",
		},
		{
			name:        "no results",
			opts:        BrowseOptions{Query: "zzz"},
			wantNumbers: []int{},
			wantSummary: "Showing 0 of 3 episodes • 0 matches in 5 timestamps",
		},
		{
			name:        "limit truncates but keeps counts",
			opts:        BrowseOptions{Sort: models.SortOldest, Limit: 2},
			wantNumbers: []int{1, 3},
			wantSummary: "Episodes: 3 • Timestamps: 5",
			truncated:   true,
		},
		{
			name:        "unknown sort falls back to relevance",
			opts:        BrowseOptions{Query: "rust", Sort: "bogus"},
			wantNumbers: []int{1, 2},
			wantMatches: 1,
			wantSummary: "Showing 2 of 3 episodes • 1 matches in 5 timestamps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.Browse(ctx, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantNumbers, numbers(page.Episodes))
			assert.Equal(t, tt.wantMatches, page.Matches)
			assert.Equal(t, tt.wantSummary, page.Summary)
			assert.Equal(t, tt.truncated, page.Truncated)
			assert.Equal(t, 3, page.TotalEpisodes)
			assert.Equal(t, 5, page.TotalTimestamps)
		})
	}
}

func TestBrowseRecordsMetrics(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Browse(context.Background(), BrowseOptions{Query: "rust"})
	require.NoError(t, err)

	snap := svc.Metrics().Snapshot()
	require.NotNil(t, snap.Search)
	require.NotNil(t, snap.Order)
	assert.Equal(t, int64(1), snap.Search.Count)
	assert.Equal(t, int64(2), *snap.Search.TotalResults)
}

func TestBrowseCancelledContext(t *testing.T) {
	svc := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Browse(ctx, BrowseOptions{Query: "rust"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEpisode(t *testing.T) {
	svc := newTestService(t)

	ep, err := svc.Episode(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Go Concurrency", ep.Title)
	assert.Len(t, ep.Timestamps, 3)

	_, err = svc.Episode(context.Background(), 42)
	assert.True(t, errors.Is(err, ErrEpisodeNotFound))
}

func TestStats(t *testing.T) {
	svc := newTestService(t)
	stats := svc.Stats()
	assert.Equal(t, 3, stats.Episodes)
	assert.Equal(t, 5, stats.Timestamps)
	assert.Equal(t, "memory", stats.Source)
}

func TestSummaryStable(t *testing.T) {
	p := &Page{Query: "go", Results: 1, TotalEpisodes: 10, Matches: 4, TotalTimestamps: 99}
	assert.Equal(t, "Showing 1 of 10 episodes • 4 matches in 99 timestamps", Summary(p))

	p.Query = ""
	assert.Equal(t, "Episodes: 10 • Timestamps: 99", Summary(p))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc...", truncate("abcdef", 3))
	assert.Equal(t, "größ...", truncate("größere Folge", 4))
	assert.Equal(t, "日本語", truncate("日本語", 3))
}
