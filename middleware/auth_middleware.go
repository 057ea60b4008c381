package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"portfolio/api/logging"
	"portfolio/api/store"
	"portfolio/api/utils"

	"github.com/gin-gonic/gin"
)

// AdminCookieName must match the cookie set by the login handler.
const AdminCookieName = "admin_token"

// AdminRequired gates the report endpoints. A request passes with a matching
// X-API-KEY, or with a valid admin token in the admin_token cookie or a Bearer
// Authorization header. When no admin password is configured the gate is open.
func AdminRequired(adminStore *store.AdminStore, jwtSecret []byte, apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !adminStore.Enabled() {
			c.Next()
			return
		}

		if apiKey != "" {
			if got := c.GetHeader("X-API-KEY"); got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) == 1 {
				c.Next()
				return
			}
		}

		log := logging.Ctx(c.Request.Context())

		tokenString, err := c.Cookie(AdminCookieName)
		if err != nil || tokenString == "" {
			tokenString = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
			if tokenString == "" {
				log.Debug().Msg("AdminRequired: no token in cookie or header")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: No token provided"})
				return
			}
		}

		claims, err := utils.ValidateJWT(jwtSecret, tokenString)
		if err != nil {
			log.Debug().Err(err).Msg("AdminRequired: invalid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid or expired token"})
			return
		}

		c.Set("admin_subject", claims.Subject)
		c.Next()
	}
}
