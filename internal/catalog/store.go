package catalog

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/raphaelgruber/showmarks/internal/models"
)

// Snapshot is one loaded version of the catalog. It must not be modified.
type Snapshot struct {
	Episodes []models.Episode
	Source   string
	LoadedAt time.Time
	Version  int64
}

// TotalTimestamps sums the timestamp counts of all episodes.
func (s *Snapshot) TotalTimestamps() int {
	n := 0
	for _, ep := range s.Episodes {
		n += ep.TimestampCount()
	}
	return n
}

// LoadFunc produces the episodes for a snapshot.
type LoadFunc func(path string) ([]models.Episode, error)

// Store holds the current snapshot. Reads never block; Reload swaps the
// snapshot atomically so readers see either the old or the new version.
type Store struct {
	path    string
	load    LoadFunc
	logger  *slog.Logger
	current atomic.Pointer[Snapshot]
	version atomic.Int64
	onLoad  func(time.Duration, error)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLoader replaces the file loader, mostly for tests.
func WithLoader(fn LoadFunc) StoreOption {
	return func(s *Store) { s.load = fn }
}

// WithLoadHook is called after every load attempt with its duration and error.
func WithLoadHook(fn func(time.Duration, error)) StoreOption {
	return func(s *Store) { s.onLoad = fn }
}

// NewStore creates a store for path and loads it once.
func NewStore(path string, logger *slog.Logger, opts ...StoreOption) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{path: path, load: Load, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStaticStore wraps an in-memory collection. Reload is a no-op.
func NewStaticStore(episodes []models.Episode) *Store {
	s := &Store{
		load:   func(string) ([]models.Episode, error) { return episodes, nil },
		logger: slog.Default(),
	}
	s.swap(episodes, "memory")
	return s
}

// Path returns the catalog file path, or "" for a static store.
func (s *Store) Path() string {
	return s.path
}

// Current returns the active snapshot.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Reload loads the catalog again. On error the previous snapshot stays active.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}

	start := time.Now()
	episodes, err := s.load(s.path)
	if s.onLoad != nil {
		s.onLoad(time.Since(start), err)
	}
	if err != nil {
		return fmt.Errorf("load catalog %s: %w", s.path, err)
	}

	snap := s.swap(episodes, s.path)
	s.logger.Info("catalog loaded",
		"path", s.path,
		"episodes", len(snap.Episodes),
		"timestamps", snap.TotalTimestamps(),
		"version", snap.Version,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *Store) swap(episodes []models.Episode, source string) *Snapshot {
	snap := &Snapshot{
		Episodes: episodes,
		Source:   source,
		LoadedAt: time.Now(),
		Version:  s.version.Add(1),
	}
	s.current.Store(snap)
	return snap
}
