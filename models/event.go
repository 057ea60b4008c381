// api/models/event.go
package models

// Device categories derived from a user agent.
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
)

// DirectReferrer is the sentinel the tracker sends when document.referrer is empty.
const DirectReferrer = "direct"

// VisitEvent is one recorded page load (or a later scroll/unload update of it).
type VisitEvent struct {
	ID               string `json:"id"`
	Timestamp        int64  `json:"timestamp"` // ms since epoch
	Page             string `json:"page"`
	Referrer         string `json:"referrer"`
	UserAgent        string `json:"userAgent"`
	IP               string `json:"ip,omitempty"`
	Country          string `json:"country,omitempty"`
	City             string `json:"city,omitempty"`
	Device           string `json:"device"`
	Browser          string `json:"browser"`
	OS               string `json:"os"`
	ScreenResolution string `json:"screenResolution"`
	TimeOnSite       int    `json:"timeOnSite"`  // seconds
	ScrollDepth      int    `json:"scrollDepth"` // percent
	SessionID        string `json:"sessionId"`
}

// ContactEvent is one contact-form submission.
type ContactEvent struct {
	ID             string `json:"id"`
	Timestamp      int64  `json:"timestamp"` // ms since epoch
	Name           string `json:"name"`
	Email          string `json:"email"`
	Message        string `json:"message"`
	Source         string `json:"source"`
	UserAgent      string `json:"userAgent"`
	SessionID      string `json:"sessionId"`
	ConversionTime int    `json:"conversionTime"` // seconds since session start
}

// VisitInput is the accepted body of POST /api/analytics/track.
type VisitInput struct {
	ID               string `json:"id" binding:"omitempty,max=128"`
	Timestamp        int64  `json:"timestamp" binding:"min=0"`
	Page             string `json:"page" binding:"required,max=2048"`
	Referrer         string `json:"referrer" binding:"max=2048"`
	UserAgent        string `json:"userAgent" binding:"max=1024"`
	Country          string `json:"country" binding:"max=128"`
	City             string `json:"city" binding:"max=128"`
	Device           string `json:"device" binding:"omitempty,oneof=mobile tablet desktop"`
	Browser          string `json:"browser" binding:"max=64"`
	OS               string `json:"os" binding:"max=64"`
	ScreenResolution string `json:"screenResolution" binding:"omitempty,resolution"`
	TimeOnSite       int    `json:"timeOnSite" binding:"min=0"`
	ScrollDepth      int    `json:"scrollDepth" binding:"min=0,max=100"`
	SessionID        string `json:"sessionId" binding:"required,max=128"`
}

// ContactInput is the accepted body of POST /api/analytics/contact.
// The email is not format-checked here.
type ContactInput struct {
	ID             string `json:"id" binding:"omitempty,max=128"`
	Timestamp      int64  `json:"timestamp" binding:"min=0"`
	Name           string `json:"name" binding:"required,max=256"`
	Email          string `json:"email" binding:"required,max=320"`
	Message        string `json:"message" binding:"required,max=10000"`
	Source         string `json:"source" binding:"max=128"`
	UserAgent      string `json:"userAgent" binding:"max=1024"`
	SessionID      string `json:"sessionId" binding:"max=128"`
	ConversionTime int    `json:"conversionTime" binding:"min=0"`
}

// EmailRequest is the body of POST /api/send-email.
type EmailRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}
