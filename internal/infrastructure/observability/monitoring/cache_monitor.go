// Package monitoring tracks hit/miss statistics for the content cache,
// broken down by section, for the admin status endpoint.
package monitoring

import (
	"sync"
	"time"
)

// SectionMetrics holds hit/miss counters for one cache section.
type SectionMetrics struct {
	Section       string    `json:"section"`
	TotalRequests int64     `json:"totalRequests"`
	CacheHits     int64     `json:"cacheHits"`
	CacheMisses   int64     `json:"cacheMisses"`
	HitRatio      float64   `json:"hitRatio"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// CacheMonitor aggregates cache access statistics across sections.
type CacheMonitor struct {
	sections map[string]*SectionMetrics
	mu       sync.RWMutex
	started  time.Time
}

func NewCacheMonitor() *CacheMonitor {
	return &CacheMonitor{
		sections: make(map[string]*SectionMetrics),
		started:  time.Now(),
	}
}

// RecordAccess records one cache lookup against the named section.
func (m *CacheMonitor) RecordAccess(section string, hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	metrics, ok := m.sections[section]
	if !ok {
		metrics = &SectionMetrics{Section: section}
		m.sections[section] = metrics
	}

	metrics.TotalRequests++
	if hit {
		metrics.CacheHits++
	} else {
		metrics.CacheMisses++
	}
	metrics.HitRatio = float64(metrics.CacheHits) / float64(metrics.TotalRequests)
	metrics.LastUpdated = time.Now()
}

// GetSectionMetrics returns a copy of the metrics for one section, or nil
// if the section has never been accessed.
func (m *CacheMonitor) GetSectionMetrics(section string) *SectionMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	metrics, ok := m.sections[section]
	if !ok {
		return nil
	}
	copied := *metrics
	return &copied
}

// GetStats returns all section metrics plus overall totals.
func (m *CacheMonitor) GetStats() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var totalRequests, totalHits int64
	sections := make(map[string]SectionMetrics, len(m.sections))
	for name, metrics := range m.sections {
		sections[name] = *metrics
		totalRequests += metrics.TotalRequests
		totalHits += metrics.CacheHits
	}

	overallRatio := 0.0
	if totalRequests > 0 {
		overallRatio = float64(totalHits) / float64(totalRequests)
	}

	return map[string]any{
		"uptime":          time.Since(m.started).String(),
		"totalRequests":   totalRequests,
		"totalHits":       totalHits,
		"overallHitRatio": overallRatio,
		"sections":        sections,
	}
}
