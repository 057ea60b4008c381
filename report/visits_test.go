package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio/api/models"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func visit(session, page string, timeOnSite int, age time.Duration) models.VisitEvent {
	return models.VisitEvent{
		ID:         session + page,
		Timestamp:  testNow.Add(-age).UnixMilli(),
		Page:       page,
		Referrer:   models.DirectReferrer,
		Device:     models.DeviceDesktop,
		Browser:    "Chrome",
		OS:         "Linux",
		TimeOnSite: timeOnSite,
		SessionID:  session,
	}
}

func TestVisitsEmptyStore(t *testing.T) {
	r := Visits(nil, nil, testNow, DefaultOptions())

	assert.Equal(t, 0, r.TotalVisitors)
	assert.Equal(t, 0, r.UniqueVisitors)
	assert.Equal(t, 0, r.AverageTimeOnSite)
	assert.Equal(t, 0.0, r.BounceRate)
	assert.Equal(t, 0.0, r.ContactFormConversionRate)
	assert.NotNil(t, r.TopPages)
	assert.Empty(t, r.TopPages)
	assert.NotNil(t, r.TopReferrers)
	assert.NotNil(t, r.DeviceBreakdown)
	assert.NotNil(t, r.BrowserBreakdown)
	assert.NotNil(t, r.RecentVisitors)
	assert.NotNil(t, r.RecentContacts)
}

func TestVisitsAverageAndBounce(t *testing.T) {
	visits := []models.VisitEvent{
		visit("s1", "/home", 5, time.Minute),
		visit("s2", "/home", 15, time.Minute),
		visit("s3", "/home", 8, time.Minute),
	}
	r := Visits(visits, nil, testNow, DefaultOptions())

	assert.Equal(t, 3, r.TotalVisitors)
	assert.Equal(t, 3, r.PageViews)
	assert.Equal(t, 9, r.AverageTimeOnSite)
	assert.Equal(t, 66.67, r.BounceRate)
	require.Len(t, r.TopPages, 1)
	assert.Equal(t, models.PageCount{Page: "/home", Views: 3}, r.TopPages[0])
}

func TestVisitsBounceThresholdIsStrict(t *testing.T) {
	visits := []models.VisitEvent{
		visit("s1", "/", 10, time.Minute),
		visit("s2", "/", 9, time.Minute),
	}
	r := Visits(visits, nil, testNow, DefaultOptions())
	assert.Equal(t, 50.0, r.BounceRate)
}

func TestVisitsUniqueSessions(t *testing.T) {
	visits := []models.VisitEvent{
		visit("s1", "/", 0, time.Minute),
		visit("s1", "/about", 30, time.Minute),
		visit("s2", "/", 0, time.Minute),
	}
	r := Visits(visits, nil, testNow, DefaultOptions())
	assert.Equal(t, 3, r.TotalVisitors)
	assert.Equal(t, 2, r.UniqueVisitors)
	assert.LessOrEqual(t, r.UniqueVisitors, r.TotalVisitors)
}

func TestVisitsTopPagesStableOrder(t *testing.T) {
	visits := []models.VisitEvent{
		visit("s1", "/a", 0, time.Minute),
		visit("s2", "/b", 0, time.Minute),
		visit("s3", "/c", 0, time.Minute),
		visit("s4", "/b", 0, time.Minute),
		visit("s5", "/c", 0, time.Minute),
	}
	r := Visits(visits, nil, testNow, DefaultOptions())

	require.Len(t, r.TopPages, 3)
	assert.Equal(t, "/b", r.TopPages[0].Page)
	assert.Equal(t, "/c", r.TopPages[1].Page)
	assert.Equal(t, "/a", r.TopPages[2].Page)

	sum := 0
	for _, p := range r.TopPages {
		sum += p.Views
	}
	assert.Equal(t, len(visits), sum)
}

func TestVisitsTopNTruncates(t *testing.T) {
	var visits []models.VisitEvent
	for i := 0; i < 15; i++ {
		visits = append(visits, visit("s", "/p"+string(rune('a'+i)), 0, time.Minute))
	}
	r := Visits(visits, nil, testNow, DefaultOptions())
	assert.Len(t, r.TopPages, 10)
	assert.Equal(t, "/pa", r.TopPages[0].Page)
}

func TestVisitsReferrerGrouping(t *testing.T) {
	withRef := func(ref string) models.VisitEvent {
		v := visit("s", "/", 0, time.Minute)
		v.Referrer = ref
		return v
	}
	visits := []models.VisitEvent{
		withRef("direct"),
		withRef("https://www.google.com/search?q=go"),
		withRef("https://www.google.com/"),
		withRef("http://github.com:8080/x"),
		withRef("not a url"),
		withRef("%zz"),
	}
	r := Visits(visits, nil, testNow, DefaultOptions())

	assert.Equal(t, []models.ReferrerCount{
		{Referrer: "www.google.com", Count: 2},
		{Referrer: "Direct", Count: 1},
		{Referrer: "github.com", Count: 1},
		{Referrer: "not a url", Count: 1},
		{Referrer: "%zz", Count: 1},
	}, r.TopReferrers)
}

func TestVisitsBreakdownsKeepFirstSeenOrder(t *testing.T) {
	a := visit("s1", "/", 0, time.Minute)
	a.Device, a.Browser = models.DeviceMobile, "Safari"
	b := visit("s2", "/", 0, time.Minute)
	c := visit("s3", "/", 0, time.Minute)

	r := Visits([]models.VisitEvent{a, b, c}, nil, testNow, DefaultOptions())
	assert.Equal(t, []models.DeviceCount{
		{Device: models.DeviceMobile, Count: 1},
		{Device: models.DeviceDesktop, Count: 2},
	}, r.DeviceBreakdown)
	assert.Equal(t, []models.BrowserCount{
		{Browser: "Safari", Count: 1},
		{Browser: "Chrome", Count: 2},
	}, r.BrowserBreakdown)
}

func TestVisitsContactConversion(t *testing.T) {
	visits := []models.VisitEvent{
		visit("s1", "/", 0, time.Minute),
		visit("s2", "/", 0, time.Minute),
		visit("s3", "/", 0, time.Minute),
	}
	contacts := []models.ContactEvent{
		{ID: "c1", Timestamp: testNow.Add(-time.Hour).UnixMilli()},
	}
	r := Visits(visits, contacts, testNow, DefaultOptions())
	assert.Equal(t, 1, r.ContactFormSubmissions)
	assert.Equal(t, 33.33, r.ContactFormConversionRate)
	assert.GreaterOrEqual(t, r.BounceRate, 0.0)
	assert.LessOrEqual(t, r.BounceRate, 100.0)
}

func TestVisitsRecentWindowAndOrder(t *testing.T) {
	visits := []models.VisitEvent{
		visit("old", "/", 0, 25*time.Hour),
		visit("edge", "/", 0, 24*time.Hour),
		visit("b", "/", 0, 2*time.Hour),
		visit("a", "/", 0, time.Hour),
	}
	contacts := []models.ContactEvent{
		{ID: "c-old", Timestamp: testNow.Add(-48 * time.Hour).UnixMilli()},
		{ID: "c-new", Timestamp: testNow.Add(-time.Minute).UnixMilli()},
	}
	r := Visits(visits, contacts, testNow, DefaultOptions())

	require.Len(t, r.RecentVisitors, 2)
	assert.Equal(t, "a", r.RecentVisitors[0].SessionID)
	assert.Equal(t, "b", r.RecentVisitors[1].SessionID)

	require.Len(t, r.RecentContacts, 1)
	assert.Equal(t, "c-new", r.RecentContacts[0].ID)
}

func TestVisitsRecentLimit(t *testing.T) {
	var visits []models.VisitEvent
	for i := 0; i < 60; i++ {
		visits = append(visits, visit("s", "/", 0, time.Duration(i)*time.Second))
	}
	r := Visits(visits, nil, testNow, DefaultOptions())
	require.Len(t, r.RecentVisitors, 50)
	assert.Equal(t, testNow.UnixMilli(), r.RecentVisitors[0].Timestamp)
}

func TestVisitsDoesNotMutateInput(t *testing.T) {
	visits := []models.VisitEvent{
		visit("a", "/", 0, 3*time.Hour),
		visit("b", "/", 0, time.Hour),
		visit("c", "/", 0, 2*time.Hour),
	}
	before := append([]models.VisitEvent(nil), visits...)

	first := Visits(visits, nil, testNow, DefaultOptions())
	second := Visits(visits, nil, testNow, DefaultOptions())

	assert.Equal(t, before, visits)
	assert.Equal(t, first, second)
}
