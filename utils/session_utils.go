package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GenerateSessionID returns an id in the tracker's "session_<ms>_<random>" shape.
func GenerateSessionID(now time.Time) string {
	return fmt.Sprintf("session_%d_%s", now.UnixMilli(), uuid.New().String()[:9])
}

// GenerateEventID returns a server-side event id with the given prefix
// ("visitor", "contact").
func GenerateEventID(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", prefix, now.UnixMilli(), uuid.New().String()[:9])
}
