// api/handlers/auth_handlers.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio/api/logging"
	"portfolio/api/middleware"
	"portfolio/api/models"
	"portfolio/api/store"
	"portfolio/api/utils"
	"portfolio/api/validation"
)

type AuthHandlers struct {
	AdminStore   *store.AdminStore
	JWTSecret    []byte
	SessionTTL   time.Duration
	SecureCookie bool
	Now          func() time.Time
}

func NewAuthHandlers(adminStore *store.AdminStore, jwtSecret []byte, sessionTTL time.Duration, secureCookie bool) *AuthHandlers {
	return &AuthHandlers{
		AdminStore:   adminStore,
		JWTSecret:    jwtSecret,
		SessionTTL:   sessionTTL,
		SecureCookie: secureCookie,
		Now:          time.Now,
	}
}

// Login checks the dashboard password and issues a session token.
func (h *AuthHandlers) Login(c *gin.Context) {
	log := logging.Ctx(c.Request.Context())

	if !h.AdminStore.Enabled() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Admin login is not configured"})
		return
	}

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": validation.Details(err)})
		return
	}

	if err := h.AdminStore.VerifyPassword(req.Password); err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			log.Warn().Str("ip", c.ClientIP()).Msg("admin login failed: password mismatch")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		log.Error().Err(err).Msg("admin login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify credentials"})
		return
	}

	token, expiresAt, err := utils.GenerateJWT(h.JWTSecret, h.Now(), h.SessionTTL)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate admin token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate authentication token"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AdminCookieName, token, int(h.SessionTTL/time.Second), "/", "", h.SecureCookie, true)

	log.Info().Time("expires_at", expiresAt).Msg("admin logged in")
	c.JSON(http.StatusOK, models.AdminSession{Token: token, ExpiresAt: expiresAt.Unix()})
}

func (h *AuthHandlers) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AdminCookieName, "", -1, "/", "", h.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
