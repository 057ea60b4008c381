package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/api/store"
)

// Health reports liveness and the current store sizes.
func Health(s *store.AnalyticsStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		visits, contacts := s.Sizes()
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"visits":   visits,
			"contacts": contacts,
		})
	}
}
