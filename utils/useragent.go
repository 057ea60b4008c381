package utils

import (
	"regexp"
	"strings"

	"portfolio/api/models"
)

var (
	tabletUA = regexp.MustCompile(`(?i)iPad|Android(?:.*Mobile)`)
	mobileUA = regexp.MustCompile(`(?i)Android|webOS|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)
)

// DeviceType classifies a user agent as mobile, tablet or desktop.
// The tablet test runs first, so an Android UA that also says Mobile is
// reported as tablet, same as the browser tracker.
func DeviceType(userAgent string) string {
	if tabletUA.MatchString(userAgent) {
		return models.DeviceTablet
	}
	if mobileUA.MatchString(userAgent) {
		return models.DeviceMobile
	}
	return models.DeviceDesktop
}

// Browser returns a coarse browser family. Order matters: Chrome and Edge
// both advertise Safari.
func Browser(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "Chrome"):
		return "Chrome"
	case strings.Contains(userAgent, "Firefox"):
		return "Firefox"
	case strings.Contains(userAgent, "Safari"):
		return "Safari"
	case strings.Contains(userAgent, "Edge"):
		return "Edge"
	case strings.Contains(userAgent, "Opera"):
		return "Opera"
	default:
		return "Other"
	}
}

// OS returns a coarse operating system family.
func OS(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "Windows"):
		return "Windows"
	case strings.Contains(userAgent, "Mac"):
		return "macOS"
	case strings.Contains(userAgent, "Linux"):
		return "Linux"
	case strings.Contains(userAgent, "Android"):
		return "Android"
	case strings.Contains(userAgent, "iOS"):
		return "iOS"
	default:
		return "Other"
	}
}
