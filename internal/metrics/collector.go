// Package metrics provides in-memory runtime statistics collection.
package metrics

import (
	"math"
	"sync"
	"time"
)

// OperationMetrics holds aggregated metrics for a single operation type.
type OperationMetrics struct {
	Count     int64
	Errors    int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration

	// Result counts (search and order only)
	TotalResults int64
	MaxResults   int64
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Count       int64   `json:"count"`
	Errors      int64   `json:"errors"`
	TotalTimeMs int64   `json:"total_time_ms"`
	AvgTimeMs   float64 `json:"avg_time_ms"`
	MinTimeMs   int64   `json:"min_time_ms"`
	MaxTimeMs   int64   `json:"max_time_ms"`

	// Result stats (nil if not applicable)
	TotalResults *int64   `json:"total_results,omitempty"`
	AvgResults   *float64 `json:"avg_results,omitempty"`
	MaxResults   *int64   `json:"max_results,omitempty"`
}

// Snapshot represents the full runtime statistics at a point in time.
type Snapshot struct {
	UptimeSeconds float64            `json:"uptime_seconds"`
	Search        *OperationSnapshot `json:"search,omitempty"`
	Order         *OperationSnapshot `json:"order,omitempty"`
	Render        *OperationSnapshot `json:"render,omitempty"`
	CatalogLoad   *OperationSnapshot `json:"catalog_load,omitempty"`
}

// Operation names for the collector.
const (
	OpSearch      = "search"
	OpOrder       = "order"
	OpRender      = "render"
	OpCatalogLoad = "catalog_load"
)

// Collector aggregates in-memory runtime statistics.
// All methods are thread-safe.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*OperationMetrics
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{
			MinTime: time.Duration(math.MaxInt64),
		}
		c.ops[op] = m
	}
	return m
}

// record updates timing fields. Caller must hold write lock.
func (m *OperationMetrics) record(duration time.Duration) {
	m.Count++
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// RecordTiming records timing for an operation.
func (c *Collector) RecordTiming(op string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.getOrCreate(op).record(duration)
}

// RecordError records a failed operation. It counts towards Count as well.
func (c *Collector) RecordError(op string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.record(duration)
	m.Errors++
}

// Hook returns a callback that records a timing or an error for op.
func (c *Collector) Hook(op string) func(time.Duration, error) {
	return func(d time.Duration, err error) {
		if err != nil {
			c.RecordError(op, d)
			return
		}
		c.RecordTiming(op, d)
	}
}

// RecordResults records timing and the number of results an operation produced.
func (c *Collector) RecordResults(op string, duration time.Duration, results int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.record(duration)

	n := int64(results)
	m.TotalResults += n
	if n > m.MaxResults {
		m.MaxResults = n
	}
}

// snapshotOp creates a snapshot for an operation, returning nil if no data.
func snapshotOp(m *OperationMetrics, includeResults bool) *OperationSnapshot {
	if m == nil || m.Count == 0 {
		return nil
	}

	snap := &OperationSnapshot{
		Count:       m.Count,
		Errors:      m.Errors,
		TotalTimeMs: m.TotalTime.Milliseconds(),
		AvgTimeMs:   float64(m.TotalTime.Milliseconds()) / float64(m.Count),
		MinTimeMs:   m.MinTime.Milliseconds(),
		MaxTimeMs:   m.MaxTime.Milliseconds(),
	}

	if includeResults {
		total := m.TotalResults
		avg := float64(m.TotalResults) / float64(m.Count)
		maxResults := m.MaxResults
		snap.TotalResults = &total
		snap.AvgResults = &avg
		snap.MaxResults = &maxResults
	}

	return snap
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Snapshot{
		UptimeSeconds: time.Since(c.startTime).Seconds(),
		Search:        snapshotOp(c.ops[OpSearch], true),
		Order:         snapshotOp(c.ops[OpOrder], true),
		Render:        snapshotOp(c.ops[OpRender], false),
		CatalogLoad:   snapshotOp(c.ops[OpCatalogLoad], false),
	}
}

// counts returns count, errors and total seconds for op.
func (c *Collector) counts(op string) (count, errs int64, seconds float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	m, ok := c.ops[op]
	if !ok {
		return 0, 0, 0
	}
	return m.Count, m.Errors, m.TotalTime.Seconds()
}
