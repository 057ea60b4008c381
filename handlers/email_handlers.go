package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio/api/logging"
	"portfolio/api/mailer"
	"portfolio/api/metrics"
	"portfolio/api/models"
	"portfolio/api/validation"
)

// ContactMailer delivers a contact message and returns the provider's id.
type ContactMailer interface {
	SendContact(ctx context.Context, req models.EmailRequest) (string, error)
}

type EmailHandlers struct {
	// Mailer is nil when no provider credentials are configured.
	Mailer  ContactMailer
	Timeout time.Duration
}

func NewEmailHandlers(m ContactMailer, timeout time.Duration) *EmailHandlers {
	return &EmailHandlers{Mailer: m, Timeout: timeout}
}

// SendEmail relays a contact-form message to the site owner.
func (h *EmailHandlers) SendEmail(c *gin.Context) {
	log := logging.Ctx(c.Request.Context())

	var req models.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.EmailsSent.WithLabelValues("rejected").Inc()
		switch {
		case validation.HasTag(err, "required"):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		case validation.HasTag(err, "email"):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": validation.Details(err)})
		}
		return
	}

	if h.Mailer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Email service is not configured"})
		return
	}

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	id, err := h.Mailer.SendContact(ctx, req)
	if err != nil {
		metrics.EmailsSent.WithLabelValues("failed").Inc()
		if errors.Is(err, mailer.ErrUnavailable) {
			log.Warn().Err(err).Msg("email relay short-circuited")
		} else {
			log.Error().Err(err).Msg("email relay failed")
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send email"})
		return
	}

	metrics.EmailsSent.WithLabelValues("sent").Inc()
	log.Info().Str("email_id", id).Msg("contact email sent")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Email sent successfully",
		"id":      id,
	})
}
