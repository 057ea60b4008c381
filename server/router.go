// Package server assembles the HTTP surface of the analytics API.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"portfolio/api/handlers"
	"portfolio/api/logging"
	"portfolio/api/middleware"
	"portfolio/api/store"
	"portfolio/api/validation"
)

// Deps are the collaborators the router wires into routes.
type Deps struct {
	AnalyticsStore *store.AnalyticsStore
	AdminStore     *store.AdminStore
	Analytics      *handlers.AnalyticsHandlers
	Auth           *handlers.AuthHandlers
	Email          *handlers.EmailHandlers
	RateLimiter    *middleware.IPRateLimiter
	CORSOrigins    []string
	JWTSecret      []byte
	AdminAPIKey    string
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(d Deps) (*gin.Engine, error) {
	if err := validation.Setup(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			logging.Ctx(c.Request.Context()).Error().Interface("panic", recovered).Msg("recovered from panic")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}),
		middleware.Metrics(),
		middleware.CORSMiddleware(d.CORSOrigins),
	)

	r.GET("/healthz", handlers.Health(d.AnalyticsStore))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		limited := api.Group("/")
		if d.RateLimiter != nil {
			limited.Use(middleware.RateLimit(d.RateLimiter))
		}
		limited.POST("/analytics/track", d.Analytics.TrackVisit)
		limited.POST("/analytics/contact", d.Analytics.TrackContact)
		limited.POST("/send-email", d.Email.SendEmail)
		limited.POST("/admin/login", d.Auth.Login)

		api.POST("/admin/logout", d.Auth.Logout)

		protected := api.Group("/")
		protected.Use(middleware.AdminRequired(d.AdminStore, d.JWTSecret, d.AdminAPIKey))
		{
			protected.GET("/analytics/track", d.Analytics.GetVisitReport)
			protected.GET("/analytics/contact", d.Analytics.GetContactReport)
		}
	}

	return r, nil
}
