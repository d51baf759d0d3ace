package performance

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Tracker collects markers and evaluates completed operations against
// alert thresholds.
type Tracker struct {
	markers    map[string]*Marker
	alerts     []*Alert
	thresholds *Thresholds
	mu         sync.RWMutex
	started    time.Time
	maxMarkers int
	maxAlerts  int
}

// Thresholds defines limits that trigger performance alerts.
type Thresholds struct {
	SlowResponse     time.Duration `json:"slowResponse"`
	CriticalResponse time.Duration `json:"criticalResponse"`
	SaveOperation    time.Duration `json:"saveOperation"`
	AuthOperation    time.Duration `json:"authOperation"`
	LowCacheHitRatio float64       `json:"lowCacheHitRatio"`
}

func DefaultThresholds() *Thresholds {
	return &Thresholds{
		SlowResponse:     500 * time.Millisecond,
		CriticalResponse: 5 * time.Second,
		SaveOperation:    time.Second,
		AuthOperation:    200 * time.Millisecond,
		LowCacheHitRatio: 0.70,
	}
}

func NewTracker() *Tracker {
	return &Tracker{
		markers:    make(map[string]*Marker),
		alerts:     make([]*Alert, 0),
		thresholds: DefaultThresholds(),
		started:    time.Now(),
		maxMarkers: 10000,
		maxAlerts:  500,
	}
}

// StartOperation creates and tracks a new marker for an operation.
func (t *Tracker) StartOperation(operation string) *Marker {
	marker := &Marker{
		Operation: operation,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true,
	}

	markerID := fmt.Sprintf("%s_%d", operation, time.Now().UnixNano())

	t.mu.Lock()
	t.markers[markerID] = marker
	t.mu.Unlock()

	return marker
}

// CompleteOperation completes a marker and checks it against thresholds.
func (t *Tracker) CompleteOperation(marker *Marker) {
	if marker == nil || marker.Completed {
		return
	}

	marker.Complete()
	t.checkForAlerts(marker)
}

func (t *Tracker) checkForAlerts(marker *Marker) {
	alerts := t.evaluateThresholds(marker)
	if len(alerts) == 0 {
		return
	}

	t.mu.Lock()
	t.alerts = append(t.alerts, alerts...)
	if len(t.alerts) > t.maxAlerts {
		t.alerts = t.alerts[len(t.alerts)-t.maxAlerts:]
	}
	t.mu.Unlock()
}

func (t *Tracker) evaluateThresholds(marker *Marker) []*Alert {
	var alerts []*Alert

	if marker.Duration > t.thresholds.CriticalResponse {
		alerts = append(alerts, t.createAlert(marker, AlertCritical,
			"operation exceeded critical response threshold"))
	} else if marker.Duration > t.thresholds.SlowResponse {
		alerts = append(alerts, t.createAlert(marker, AlertWarning,
			"operation exceeded slow response threshold"))
	}

	switch {
	case strings.Contains(marker.Operation, "auth"):
		if marker.Duration > t.thresholds.AuthOperation {
			alerts = append(alerts, t.createAlert(marker, AlertWarning,
				"auth operation exceeded threshold"))
		}
	case strings.Contains(marker.Operation, "save"):
		if marker.Duration > t.thresholds.SaveOperation {
			alerts = append(alerts, t.createAlert(marker, AlertWarning,
				"save pipeline exceeded threshold"))
		}
	}

	if marker.CacheHits+marker.CacheMisses > 0 {
		if marker.GetCacheHitRatio() < t.thresholds.LowCacheHitRatio {
			alerts = append(alerts, t.createAlert(marker, AlertWarning,
				"cache hit ratio below optimal"))
		}
	}

	return alerts
}

func (t *Tracker) createAlert(marker *Marker, severity AlertSeverity, message string) *Alert {
	return &Alert{
		ID:        fmt.Sprintf("alert_%d", time.Now().UnixNano()),
		Timestamp: time.Now(),
		Severity:  severity,
		Operation: marker.Operation,
		Actual:    marker.Duration,
		Message:   message,
		Metadata: map[string]any{
			"cacheHitRatio": marker.GetCacheHitRatio(),
			"success":       marker.Success,
		},
	}
}

// GetRecentMetrics returns markers completed within the given duration.
func (t *Tracker) GetRecentMetrics(within time.Duration) []Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cutoff := time.Now().Add(-within)
	var metrics []Marker
	for _, marker := range t.markers {
		if marker.Completed && marker.EndTime.After(cutoff) {
			metrics = append(metrics, *marker)
		}
	}
	return metrics
}

// GetActiveOperations returns currently running operations with their
// elapsed time so far.
func (t *Tracker) GetActiveOperations() []Marker {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var active []Marker
	for _, marker := range t.markers {
		if !marker.Completed {
			m := *marker
			m.Duration = time.Since(marker.StartTime)
			active = append(active, m)
		}
	}
	return active
}

// GetAlerts returns the retained alerts, newest last.
func (t *Tracker) GetAlerts() []*Alert {
	t.mu.RLock()
	defer t.mu.RUnlock()

	alerts := make([]*Alert, len(t.alerts))
	copy(alerts, t.alerts)
	return alerts
}

// TakeSnapshot summarizes the last five minutes of activity.
func (t *Tracker) TakeSnapshot() *Snapshot {
	metrics := t.GetRecentMetrics(5 * time.Minute)
	active := t.GetActiveOperations()

	snapshot := &Snapshot{
		Timestamp:           time.Now(),
		ActiveOperations:    len(active),
		CompletedOperations: len(metrics),
	}

	for _, m := range metrics {
		if !m.Success {
			snapshot.FailedOperations++
		}
		if m.Duration > t.thresholds.SlowResponse {
			snapshot.SlowOperations++
		}
	}

	snapshot.OverallHealth = t.calculateHealth(metrics, active)
	return snapshot
}

func (t *Tracker) calculateHealth(metrics, active []Marker) HealthStatus {
	totalOps := len(metrics) + len(active)
	if totalOps == 0 {
		return HealthUnknown
	}

	criticalIssues := 0
	warningIssues := 0
	for _, op := range append(metrics, active...) {
		duration := op.Duration
		if !op.Completed {
			duration = time.Since(op.StartTime)
		}
		if duration > t.thresholds.CriticalResponse || !op.Success {
			criticalIssues++
		} else if duration > t.thresholds.SlowResponse {
			warningIssues++
		}
	}

	criticalRatio := float64(criticalIssues) / float64(totalOps)
	warningRatio := float64(warningIssues) / float64(totalOps)

	if criticalRatio > 0.1 {
		return HealthUnhealthy
	}
	if criticalRatio > 0.05 || warningRatio > 0.2 {
		return HealthDegraded
	}
	return HealthHealthy
}

// Cleanup drops completed markers older than an hour and caps retention.
func (t *Tracker) Cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := time.Now().Add(-time.Hour)
	for id, marker := range t.markers {
		if marker.Completed && marker.EndTime.Before(cutoff) {
			delete(t.markers, id)
		}
	}

	if len(t.markers) > t.maxMarkers {
		count := 0
		for id := range t.markers {
			if count > t.maxMarkers/2 {
				delete(t.markers, id)
			}
			count++
		}
	}
}

// GetOverallStats returns tracker-wide statistics for the status endpoint.
func (t *Tracker) GetOverallStats() map[string]any {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	activeCount := 0
	completedCount := 0
	for _, marker := range t.markers {
		if marker.Completed {
			completedCount++
		} else {
			activeCount++
		}
	}

	return map[string]any{
		"trackerUptime":       time.Since(t.started).String(),
		"totalMarkers":        len(t.markers),
		"activeOperations":    activeCount,
		"completedOperations": completedCount,
		"totalAlerts":         len(t.alerts),
		"memoryUsageMB":       memStats.Alloc / (1024 * 1024),
		"systemMemoryMB":      memStats.Sys / (1024 * 1024),
	}
}
