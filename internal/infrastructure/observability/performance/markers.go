// Package performance provides lightweight operation timing for StackForge
// request handling and background work.
package performance

import (
	"runtime"
	"time"
)

// Marker is a single timed operation.
type Marker struct {
	Operation   string         `json:"operation"` // e.g. "page:save", "asset:sync"
	StartTime   time.Time      `json:"startTime"`
	EndTime     time.Time      `json:"endTime"`
	Duration    time.Duration  `json:"duration"`
	Success     bool           `json:"success"`
	Error       string         `json:"error,omitempty"`
	Metadata    map[string]any `json:"metadata"`
	MemoryUsage int64          `json:"memoryUsage"`
	CacheHits   int            `json:"cacheHits"`
	CacheMisses int            `json:"cacheMisses"`
	Completed   bool           `json:"completed"`
}

// Complete marks the operation as finished and records final metrics.
func (m *Marker) Complete() {
	if m.Completed {
		return
	}

	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	m.MemoryUsage = int64(memStats.Alloc)
}

func (m *Marker) SetSuccess(success bool) {
	m.Success = success
}

// SetError records an error message and marks the operation as failed.
func (m *Marker) SetError(err error) {
	if err != nil {
		m.Error = err.Error()
		m.Success = false
	}
}

func (m *Marker) AddMetadata(key string, value any) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	m.Metadata[key] = value
}

func (m *Marker) AddCacheHit() {
	m.CacheHits++
}

func (m *Marker) AddCacheMiss() {
	m.CacheMisses++
}

// GetCacheHitRatio returns the cache hit ratio (0.0 to 1.0).
func (m *Marker) GetCacheHitRatio() float64 {
	total := m.CacheHits + m.CacheMisses
	if total == 0 {
		return 0.0
	}
	return float64(m.CacheHits) / float64(total)
}

// HealthStatus summarizes how recent operations are performing.
type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthDegraded  HealthStatus = "degraded"
	HealthUnhealthy HealthStatus = "unhealthy"
	HealthUnknown   HealthStatus = "unknown"
)

// Snapshot is a point-in-time view of recent performance.
type Snapshot struct {
	Timestamp           time.Time    `json:"timestamp"`
	OverallHealth       HealthStatus `json:"overallHealth"`
	ActiveOperations    int          `json:"activeOperations"`
	CompletedOperations int          `json:"completedOperations"`
	SlowOperations      int          `json:"slowOperations"`
	FailedOperations    int          `json:"failedOperations"`
}

// Alert records a threshold violation on a completed operation.
type Alert struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Severity  AlertSeverity  `json:"severity"`
	Operation string         `json:"operation"`
	Actual    time.Duration  `json:"actual"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata"`
}

// AlertSeverity is the severity level of a performance alert.
type AlertSeverity string

const (
	AlertWarning  AlertSeverity = "warning"
	AlertCritical AlertSeverity = "critical"
)
