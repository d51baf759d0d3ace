package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/StackForgeHQ/stackforge-go/pkg/config"
)

// CORSMiddleware allows the admin UI dev servers plus any origins
// configured via CORS_ALLOWED_ORIGINS.
func CORSMiddleware() gin.HandlerFunc {
	allowOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	allowOrigins = append(allowOrigins, config.CORSAllowedOrigins...)

	return cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{
			"GET", "POST", "PUT", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"X-Requested-With", "Cache-Control",
		},
		AllowCredentials: true,
		ExposeHeaders: []string{
			"Content-Type", "Cache-Control",
		},
	})
}
