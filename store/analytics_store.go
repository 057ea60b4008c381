// api/store/analytics_store.go
package store

import (
	"portfolio/api/metrics"
	"portfolio/api/models"
)

const (
	KindVisit   = "visit"
	KindContact = "contact"
)

// AnalyticsStore owns the process-lifetime visit and contact stores. Contents
// are lost on restart.
type AnalyticsStore struct {
	visits   *Ring[models.VisitEvent]
	contacts *Ring[models.ContactEvent]
}

func NewAnalyticsStore(visitCapacity, contactCapacity int) *AnalyticsStore {
	return &AnalyticsStore{
		visits:   NewRing[models.VisitEvent](visitCapacity),
		contacts: NewRing[models.ContactEvent](contactCapacity),
	}
}

// InsertVisit appends a visit, evicting the oldest one when at capacity.
func (s *AnalyticsStore) InsertVisit(event models.VisitEvent) {
	evicted, size := s.visits.Append(event)
	metrics.RecordAppend(KindVisit, evicted, size)
}

// InsertContact appends a contact submission, evicting the oldest one when at capacity.
func (s *AnalyticsStore) InsertContact(event models.ContactEvent) {
	evicted, size := s.contacts.Append(event)
	metrics.RecordAppend(KindContact, evicted, size)
}

// Visits returns a point-in-time copy of the visit store, oldest first.
func (s *AnalyticsStore) Visits() []models.VisitEvent {
	return s.visits.Snapshot()
}

// Contacts returns a point-in-time copy of the contact store, oldest first.
func (s *AnalyticsStore) Contacts() []models.ContactEvent {
	return s.contacts.Snapshot()
}

// Sizes reports the current number of visits and contacts held.
func (s *AnalyticsStore) Sizes() (visits, contacts int) {
	return s.visits.Len(), s.contacts.Len()
}
