// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/StackForgeHQ/stackforge-go/internal/application/container"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/caching/cleanup"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/caching/manager"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/email"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/persistence/database"
	"github.com/StackForgeHQ/stackforge-go/internal/presentation/http/server"
	"github.com/StackForgeHQ/stackforge-go/pkg/config"
)

// Initialize performs the complete startup sequence and blocks until a
// shutdown signal arrives.
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Startup().Info("StackForge starting", "port", config.Port)

	// Database
	if config.DBDriver == "libsql" {
		if err := database.TestLibsqlConnection(config.DBPath, config.DBAuthToken); err != nil {
			return fmt.Errorf("libsql connection check failed: %w", err)
		}
	}
	dsn := database.ConnString(config.DBDriver, config.DBPath, config.DBAuthToken)
	db, err := database.NewConnectionWithLogger(config.DBDriver, dsn, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	tableCreator := database.NewTableCreator()
	if err := tableCreator.CreateSchema(db.DB); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := tableCreator.SeedInitialContent(db.DB); err != nil {
		return fmt.Errorf("failed to seed initial content: %w", err)
	}
	logger.Startup().Info("Database ready", "driver", config.DBDriver)

	// Cache
	cacheManager := manager.NewManager(logger)
	cleanupWorker := cleanup.NewWorker(cacheManager, logger)
	go cleanupWorker.Start(ctx)

	// Email (optional)
	var mailer email.Service
	if config.ResendAPIKey != "" {
		mailer, err = email.NewService()
		if err != nil {
			logger.Startup().Warn("Email service unavailable", "error", err.Error())
			mailer = nil
		}
	} else {
		logger.Startup().Warn("No Resend API key configured, welcome emails disabled")
	}

	// Wiring
	appContainer := container.NewContainer(db, cacheManager, logger, mailer)
	logger.Startup().Info("Dependency container initialized")

	if config.JWTSecret == "" {
		logger.Startup().Warn("JWT_SECRET is empty, issued tokens are not secure")
	}
	if config.AdminPasswordHash == "" {
		logger.Startup().Warn("ADMIN_PASSWORD_HASH is empty, admin login disabled")
	}

	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
			gracefulShutdown <- syscall.SIGTERM
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown")

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures framework logging before the channeled logger exists.
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
