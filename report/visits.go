package report

import (
	"fmt"
	"net/url"
	"time"

	"portfolio/api/logging"
	"portfolio/api/models"
	"portfolio/api/utils"
)

// DirectLabel is the referrer key reported for visits without a referrer.
const DirectLabel = "Direct"

// Visits computes the visitor rollup. contacts is read only for the
// submission count and the recent-contacts list.
func Visits(visits []models.VisitEvent, contacts []models.ContactEvent, now time.Time, opts Options) models.VisitReport {
	total := len(visits)

	sessions := make(map[string]struct{}, total)
	pages := newTally()
	referrers := newTally()
	devices := newTally()
	browsers := newTally()

	var timeOnSite int64
	bounced := 0
	bounceSeconds := int(opts.BounceThreshold / time.Second)

	for _, v := range visits {
		sessions[v.SessionID] = struct{}{}
		timeOnSite += int64(v.TimeOnSite)
		if v.TimeOnSite < bounceSeconds {
			bounced++
		}
		pages.add(v.Page)

		key, err := referrerKey(v.Referrer)
		if err != nil {
			logging.Debug().Err(err).Str("event_id", v.ID).Msg("referrer not parseable, grouping by raw value")
		}
		referrers.add(key)

		devices.add(v.Device)
		browsers.add(v.Browser)
	}

	avg := 0
	if total > 0 {
		avg = utils.RoundHalfUp(float64(timeOnSite) / float64(total))
	}

	return models.VisitReport{
		TotalVisitors:     total,
		UniqueVisitors:    len(sessions),
		PageViews:         total,
		AverageTimeOnSite: avg,
		BounceRate:        utils.Percent(bounced, total),
		TopPages: project(pages.byCount(), opts.TopN, func(k string, n int) models.PageCount {
			return models.PageCount{Page: k, Views: n}
		}),
		TopReferrers: project(referrers.byCount(), opts.TopN, func(k string, n int) models.ReferrerCount {
			return models.ReferrerCount{Referrer: k, Count: n}
		}),
		DeviceBreakdown: project(devices.firstSeen(), 0, func(k string, n int) models.DeviceCount {
			return models.DeviceCount{Device: k, Count: n}
		}),
		BrowserBreakdown: project(browsers.firstSeen(), 0, func(k string, n int) models.BrowserCount {
			return models.BrowserCount{Browser: k, Count: n}
		}),
		ContactFormSubmissions:    len(contacts),
		ContactFormConversionRate: utils.Percent(len(contacts), total),
		RecentVisitors:            recent(visits, visitTime, now, opts.VisitRecentWindow, opts.RecentVisitLimit),
		RecentContacts:            recent(contacts, contactTime, now, opts.VisitRecentWindow, opts.RecentContactLimit),
	}
}

// referrerKey maps a referrer to its grouping key: "Direct" for the direct
// sentinel, otherwise the URL hostname. When no hostname can be extracted the
// raw referrer is returned together with the reason.
func referrerKey(referrer string) (string, error) {
	if referrer == models.DirectReferrer {
		return DirectLabel, nil
	}
	u, err := url.Parse(referrer)
	if err != nil {
		return referrer, fmt.Errorf("parse referrer: %w", err)
	}
	if host := u.Hostname(); host != "" {
		return host, nil
	}
	return referrer, fmt.Errorf("referrer %q has no host", referrer)
}

func visitTime(v models.VisitEvent) int64     { return v.Timestamp }
func contactTime(c models.ContactEvent) int64 { return c.Timestamp }
