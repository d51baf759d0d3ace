// Package config provides centralized default values for StackForge
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Database
	DBDriver                 string
	DBPath                   string
	DBAuthToken              string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	DBConnMaxIdleMinutes     int
	SlowQueryThreshold       time.Duration

	// Cache TTLs
	ContentCacheTTL time.Duration
	FileCacheTTL    time.Duration
	CleanupInterval time.Duration

	// Media
	MediaBasePath     string
	MaxUploadBytes    int
	ThumbnailQuality  int
	ThumbnailWidths   []int
	UploadAllowedExts []string

	// Editor sync engine
	LoaderSettleDelay   time.Duration
	SurfaceWriteTimeout time.Duration
	SurfaceCallTimeout  time.Duration
	SurfacePingInterval time.Duration

	// Auth
	JWTSecret         string
	AdminPasswordHash string
	TokenLifetime     time.Duration

	// Email
	ResendAPIKey   string
	EmailFrom      string
	EmailFromName  string
	WelcomeEmailOn bool

	// Site identity
	SiteName string
	SiteURL  string

	// CORS
	CORSAllowedOrigins []string
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Database
	DBDriver = getEnvString("DB_DRIVER", "sqlite3")
	DBPath = getEnvString("DB_PATH", "stackforge.db")
	DBAuthToken = getEnvString("DB_AUTH_TOKEN", "")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	DBConnMaxIdleMinutes = getEnvInt("DB_CONN_MAX_IDLE_MINUTES", 3)
	SlowQueryThreshold = getEnvDuration("SLOW_QUERY_THRESHOLD", 250*time.Millisecond)

	// Cache TTLs
	ContentCacheTTL = time.Duration(getEnvInt("CONTENT_CACHE_TTL_HOURS", 24)) * time.Hour
	FileCacheTTL = time.Duration(getEnvInt("FILE_CACHE_TTL_HOURS", 24)) * time.Hour
	CleanupInterval = time.Duration(getEnvInt("CACHE_CLEANUP_INTERVAL_MINUTES", 30)) * time.Minute

	// Media
	MediaBasePath = getEnvString("MEDIA_BASE_PATH", "media")
	MaxUploadBytes = getEnvInt("MAX_UPLOAD_BYTES", 4*1024*1024)
	ThumbnailQuality = getEnvInt("THUMBNAIL_QUALITY", 85)
	ThumbnailWidths = []int{1200, 600, 300}
	UploadAllowedExts = []string{"png", "jpg", "gif", "webp", "svg"}

	// Editor sync engine
	LoaderSettleDelay = getEnvDuration("LOADER_SETTLE_DELAY", 100*time.Millisecond)
	SurfaceWriteTimeout = getEnvDuration("SURFACE_WRITE_TIMEOUT", 10*time.Second)
	SurfaceCallTimeout = getEnvDuration("SURFACE_CALL_TIMEOUT", 15*time.Second)
	SurfacePingInterval = getEnvDuration("SURFACE_PING_INTERVAL", 30*time.Second)

	// Auth
	JWTSecret = getEnvString("JWT_SECRET", "")
	AdminPasswordHash = getEnvString("ADMIN_PASSWORD_HASH", "")
	TokenLifetime = getEnvDuration("TOKEN_LIFETIME", 24*time.Hour)

	// Email
	ResendAPIKey = getEnvString("RESEND_API_KEY", "")
	EmailFrom = getEnvString("EMAIL_FROM", "noreply@stackforge.dev")
	EmailFromName = getEnvString("EMAIL_FROM_NAME", "StackForge")
	WelcomeEmailOn = getEnvString("WELCOME_EMAIL", "true") == "true"

	// Site identity
	SiteName = getEnvString("SITE_NAME", "StackForge")
	SiteURL = getEnvString("SITE_URL", "")

	// CORS
	if raw := getEnvString("CORS_ALLOWED_ORIGINS", ""); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				CORSAllowedOrigins = append(CORSAllowedOrigins, origin)
			}
		}
	}
}
