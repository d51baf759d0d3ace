// Package database provides database helper functions
package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
	"github.com/StackForgeHQ/stackforge-go/pkg/config"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// ConnString assembles the driver DSN, attaching the auth token for remote
// libsql databases. Local sqlite paths pass through untouched.
func ConnString(driver, path, authToken string) string {
	if driver == "libsql" && authToken != "" {
		return fmt.Sprintf("%s?authToken=%s", path, authToken)
	}
	return path
}

// TestLibsqlConnection tests a remote libsql database connection before the
// application commits to it as its primary store.
func TestLibsqlConnection(databaseURL, authToken string) error {
	db, err := sql.Open("libsql", ConnString("libsql", databaseURL, authToken))
	if err != nil {
		return fmt.Errorf("failed to open connection: %w", err)
	}
	defer db.Close()

	var result int
	err = db.QueryRow("SELECT 1").Scan(&result)
	if err != nil {
		return fmt.Errorf("connection test query failed: %w", err)
	}

	if result != 1 {
		return fmt.Errorf("unexpected query result: %d", result)
	}

	return nil
}

// GetSlowQueryThreshold returns the configured slow query threshold
func GetSlowQueryThreshold() time.Duration {
	return config.SlowQueryThreshold
}

// CheckAndLogSlowQuery checks if a query duration exceeds threshold
// and logs it using the slow query channel if it does
func CheckAndLogSlowQuery(logger *logging.ChanneledLogger, query string, duration time.Duration) {
	threshold := GetSlowQueryThreshold()

	// Known long-running bulk operations get extra headroom.
	if strings.HasPrefix(query, "BULK_") {
		threshold *= 3
	}

	if duration > threshold {
		logger.LogSlowQuery(query, duration)
	}
}
