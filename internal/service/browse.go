// Package service wires the catalog, the search engine and metrics into the
// operations the CLI, HTTP API and MCP tools expose.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/raphaelgruber/showmarks/internal/catalog"
	"github.com/raphaelgruber/showmarks/internal/metrics"
	"github.com/raphaelgruber/showmarks/internal/models"
	"github.com/raphaelgruber/showmarks/internal/search"
)

// ErrEpisodeNotFound indicates no episode has the requested number.
var ErrEpisodeNotFound = errors.New("episode not found")

// BrowseService answers search and browse requests against the current
// catalog snapshot.
type BrowseService struct {
	store   *catalog.Store
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewBrowseService creates a new browse service.
func NewBrowseService(store *catalog.Store, collector *metrics.Collector, logger *slog.Logger) *BrowseService {
	if collector == nil {
		collector = metrics.NewCollector()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BrowseService{
		store:   store,
		metrics: collector,
		logger:  logger,
	}
}

// BrowseOptions configures a browse operation.
type BrowseOptions struct {
	Query string
	Sort  models.SortMode
	// Limit caps the number of returned episodes. Zero means no cap.
	// Counts in the Page always describe the full result.
	Limit int
}

// Page is one rendered view of the catalog.
type Page struct {
	Query           string           `json:"query"`
	Sort            models.SortMode  `json:"sort"`
	Episodes        []models.Episode `json:"episodes"`
	Results         int              `json:"results"`
	Matches         int              `json:"matches"`
	TotalEpisodes   int              `json:"total_episodes"`
	TotalTimestamps int              `json:"total_timestamps"`
	Truncated       bool             `json:"truncated"`
	Summary         string           `json:"summary"`
	CatalogVersion  int64            `json:"catalog_version"`
}

// Browse filters the catalog by query and orders the result.
func (s *BrowseService) Browse(ctx context.Context, opts BrowseOptions) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := s.store.Current()
	query := strings.TrimSpace(opts.Query)
	mode := models.ParseSortMode(string(opts.Sort))

	start := time.Now()
	res := search.Search(snap.Episodes, query)
	s.metrics.RecordResults(metrics.OpSearch, time.Since(start), len(res.Items))

	start = time.Now()
	ordered := search.OrderBy(res.Items, mode, query)
	s.metrics.RecordResults(metrics.OpOrder, time.Since(start), len(ordered))

	page := &Page{
		Query:           query,
		Sort:            mode,
		Episodes:        ordered,
		Results:         len(ordered),
		Matches:         res.Matches,
		TotalEpisodes:   len(snap.Episodes),
		TotalTimestamps: res.TotalTimestamps,
		CatalogVersion:  snap.Version,
	}
	page.Summary = Summary(page)

	if opts.Limit > 0 && len(page.Episodes) > opts.Limit {
		page.Episodes = page.Episodes[:opts.Limit]
		page.Truncated = true
	}

	s.logger.Debug("browse completed",
		"query", truncate(query, 30),
		"sort", mode,
		"results", page.Results,
		"matches", page.Matches,
	)
	return page, nil
}

// Summary renders the one-line stats for a page.
func Summary(p *Page) string {
	if p.Query == "" {
		return fmt.Sprintf("Episodes: %d • Timestamps: %d", p.TotalEpisodes, p.TotalTimestamps)
	}
	return fmt.Sprintf("Showing %d of %d episodes • %d matches in %d timestamps",
		p.Results, p.TotalEpisodes, p.Matches, p.TotalTimestamps)
}

// Episode returns the episode with the given number from the current snapshot.
func (s *BrowseService) Episode(ctx context.Context, number int) (*models.Episode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, ep := range s.store.Current().Episodes {
		if ep.EpisodeNumber == number {
			found := ep
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrEpisodeNotFound, number)
}

// Stats describes the loaded catalog and runtime metrics.
type Stats struct {
	Episodes       int              `json:"episodes"`
	Timestamps     int              `json:"timestamps"`
	Source         string           `json:"source"`
	CatalogVersion int64            `json:"catalog_version"`
	LoadedAt       time.Time        `json:"loaded_at"`
	Runtime        metrics.Snapshot `json:"runtime"`
}

// Stats returns catalog counts and a metrics snapshot.
func (s *BrowseService) Stats() Stats {
	snap := s.store.Current()
	return Stats{
		Episodes:       len(snap.Episodes),
		Timestamps:     snap.TotalTimestamps(),
		Source:         snap.Source,
		CatalogVersion: snap.Version,
		LoadedAt:       snap.LoadedAt,
		Runtime:        s.metrics.Snapshot(),
	}
}

// Metrics returns the collector the service records into.
func (s *BrowseService) Metrics() *metrics.Collector {
	return s.metrics
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
