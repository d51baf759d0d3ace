package content

import (
	"time"

	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/persistence/database"
)

// timeQuery reports a finished statement against the slow-query threshold.
// Deferred at the top of each database-touching method so scan time counts
// toward the total.
func timeQuery(logger *logging.ChanneledLogger, query string, start time.Time) {
	database.CheckAndLogSlowQuery(logger, query, time.Since(start))
}
