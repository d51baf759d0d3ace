package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/caching/manager"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/performance"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/persistence/database"
)

// HealthHandlers serves the health/status endpoint.
type HealthHandlers struct {
	db           *database.DB
	cacheManager *manager.Manager
	perfTracker  *performance.Tracker
	started      time.Time
}

func NewHealthHandlers(db *database.DB, cacheManager *manager.Manager, perfTracker *performance.Tracker) *HealthHandlers {
	return &HealthHandlers{
		db:           db,
		cacheManager: cacheManager,
		perfTracker:  perfTracker,
		started:      time.Now(),
	}
}

// Health reports database reachability, cache statistics and the recent
// performance snapshot.
func (h *HealthHandlers) Health(c *gin.Context) {
	status := "ok"
	dbStatus := "ok"
	if err := h.db.Ping(); err != nil {
		status = "degraded"
		dbStatus = err.Error()
	}

	snapshot := h.perfTracker.TakeSnapshot()

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":      status,
		"uptime":      time.Since(h.started).String(),
		"database":    dbStatus,
		"cache":       h.cacheManager.Monitor().GetStats(),
		"performance": snapshot,
	})
}
