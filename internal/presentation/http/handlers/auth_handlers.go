// Package handlers provides the HTTP handlers for the admin API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/logging"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/observability/performance"
	"github.com/StackForgeHQ/stackforge-go/internal/infrastructure/security"
	"github.com/StackForgeHQ/stackforge-go/pkg/config"
)

// LoginRequest is the admin login body.
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// AuthHandlers contains the authentication endpoints.
type AuthHandlers struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

func NewAuthHandlers(logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AuthHandlers {
	return &AuthHandlers{
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// Login checks the admin password and issues a JWT.
func (h *AuthHandlers) Login(c *gin.Context) {
	marker := h.perfTracker.StartOperation("auth_login_request")
	defer marker.Complete()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if !security.VerifyAdminPassword(req.Password, config.AdminPasswordHash) {
		h.logger.Auth().Warn("Failed admin login attempt", "remoteAddr", c.ClientIP())
		marker.SetSuccess(false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := security.GenerateAdminToken(config.JWTSecret, config.TokenLifetime)
	if err != nil {
		h.logger.Auth().Error("Failed to generate admin token", "error", err.Error())
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	h.logger.Auth().Info("Admin login", "remoteAddr", c.ClientIP())
	marker.SetSuccess(true)
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresIn": config.TokenLifetime.Seconds(),
	})
}

// Status reports whether the presented token is a valid admin token.
func (h *AuthHandlers) Status(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && header[:7] == "Bearer " {
		claims, err := security.ValidateJWT(header[7:], config.JWTSecret)
		if err == nil && security.IsAdminClaims(claims) {
			c.JSON(http.StatusOK, gin.H{"authenticated": true, "role": "admin"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": false})
}
