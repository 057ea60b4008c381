// api/handlers/track_handlers.go
package handlers

import (
	"net/http"
	"time"

	"portfolio/api/logging"
	"portfolio/api/metrics"
	"portfolio/api/models"
	"portfolio/api/report"
	"portfolio/api/store"
	"portfolio/api/utils"
	"portfolio/api/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DefaultContactSource labels contacts that arrive without a source.
const DefaultContactSource = "contact-form"

type AnalyticsHandlers struct {
	AnalyticsStore *store.AnalyticsStore
	Options        report.Options
	// Now is the report and record clock; tests replace it.
	Now func() time.Time
}

func NewAnalyticsHandlers(s *store.AnalyticsStore, opts report.Options) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		AnalyticsStore: s,
		Options:        opts,
		Now:            time.Now,
	}
}

// TrackVisit records one page view.
func (h *AnalyticsHandlers) TrackVisit(c *gin.Context) {
	var in models.VisitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		rejectEvent(c, store.KindVisit, err)
		return
	}

	now := h.Now()
	event := models.VisitEvent{
		ID:               in.ID,
		Timestamp:        in.Timestamp,
		Page:             in.Page,
		Referrer:         in.Referrer,
		UserAgent:        in.UserAgent,
		IP:               c.ClientIP(),
		Country:          in.Country,
		City:             in.City,
		Device:           in.Device,
		Browser:          in.Browser,
		OS:               in.OS,
		ScreenResolution: in.ScreenResolution,
		TimeOnSite:       in.TimeOnSite,
		ScrollDepth:      in.ScrollDepth,
		SessionID:        in.SessionID,
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp == 0 {
		event.Timestamp = now.UnixMilli()
	}
	if event.Referrer == "" {
		event.Referrer = models.DirectReferrer
	}
	if event.UserAgent == "" {
		event.UserAgent = c.Request.UserAgent()
	}
	if event.Device == "" {
		event.Device = utils.DeviceType(event.UserAgent)
	}
	if event.Browser == "" {
		event.Browser = utils.Browser(event.UserAgent)
	}
	if event.OS == "" {
		event.OS = utils.OS(event.UserAgent)
	}

	h.AnalyticsStore.InsertVisit(event)

	logging.Ctx(c.Request.Context()).Debug().
		Str("event_id", event.ID).
		Str("page", event.Page).
		Str("session_id", event.SessionID).
		Msg("visit recorded")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TrackContact records one contact-form submission.
func (h *AnalyticsHandlers) TrackContact(c *gin.Context) {
	var in models.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		rejectEvent(c, store.KindContact, err)
		return
	}

	now := h.Now()
	event := models.ContactEvent{
		ID:             in.ID,
		Timestamp:      in.Timestamp,
		Name:           in.Name,
		Email:          in.Email,
		Message:        in.Message,
		Source:         in.Source,
		UserAgent:      in.UserAgent,
		SessionID:      in.SessionID,
		ConversionTime: in.ConversionTime,
	}
	if event.ID == "" {
		event.ID = utils.GenerateEventID("contact", now)
	}
	if event.Timestamp == 0 {
		event.Timestamp = now.UnixMilli()
	}
	if event.Source == "" {
		event.Source = DefaultContactSource
	}
	if event.UserAgent == "" {
		event.UserAgent = c.Request.UserAgent()
	}
	if event.SessionID == "" {
		event.SessionID = utils.GenerateSessionID(now)
	}

	h.AnalyticsStore.InsertContact(event)

	logging.Ctx(c.Request.Context()).Info().
		Str("event_id", event.ID).
		Str("source", event.Source).
		Int("conversion_time", event.ConversionTime).
		Msg("contact recorded")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetVisitReport serves the visitor rollup.
func (h *AnalyticsHandlers) GetVisitReport(c *gin.Context) {
	defer metrics.ObserveReport("visit")()

	visits := h.AnalyticsStore.Visits()
	contacts := h.AnalyticsStore.Contacts()
	c.JSON(http.StatusOK, report.Visits(visits, contacts, h.Now(), h.Options))
}

// GetContactReport serves the contact-form rollup.
func (h *AnalyticsHandlers) GetContactReport(c *gin.Context) {
	defer metrics.ObserveReport("contact")()

	contacts := h.AnalyticsStore.Contacts()
	c.JSON(http.StatusOK, report.Contacts(contacts, h.Now(), h.Options))
}

func rejectEvent(c *gin.Context, kind string, err error) {
	metrics.EventsRejected.WithLabelValues(kind).Inc()
	logging.Ctx(c.Request.Context()).Debug().Err(err).Str("kind", kind).Msg("rejected analytics payload")
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": validation.Details(err)})
}
