package report

import (
	"fmt"
	"time"

	"portfolio/api/models"
	"portfolio/api/utils"
)

// Contacts computes the contact-form rollup.
func Contacts(contacts []models.ContactEvent, now time.Time, opts Options) models.ContactReport {
	total := len(contacts)
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	sources := newTally()
	var hourly [24]int
	var conversion int64
	fast := 0
	fastSeconds := int(opts.FastConversion / time.Second)

	for _, c := range contacts {
		sources.add(c.Source)
		hourly[time.UnixMilli(c.Timestamp).In(loc).Hour()]++
		conversion += int64(c.ConversionTime)
		if c.ConversionTime < fastSeconds {
			fast++
		}
	}

	avg := 0
	if total > 0 {
		avg = utils.RoundHalfUp(float64(conversion) / float64(total))
	}

	hours := make([]models.HourCount, 24)
	for h, n := range hourly {
		hours[h] = models.HourCount{Hour: fmt.Sprintf("%02d:00", h), Count: n}
	}

	return models.ContactReport{
		TotalContacts:         total,
		RecentContacts:        recent(contacts, contactTime, now, opts.ContactRecentWindow, opts.RecentContactLimit),
		AverageConversionTime: avg,
		SourceBreakdown: project(sources.byCount(), 0, func(k string, n int) models.SourceCount {
			return models.SourceCount{Source: k, Count: n}
		}),
		HourlyBreakdown: hours,
		ConversionRate:  utils.Percent(fast, total),
	}
}
