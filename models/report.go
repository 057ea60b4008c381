package models

type PageCount struct {
	Page  string `json:"page"`
	Views int    `json:"views"`
}

type ReferrerCount struct {
	Referrer string `json:"referrer"`
	Count    int    `json:"count"`
}

type DeviceCount struct {
	Device string `json:"device"`
	Count  int    `json:"count"`
}

type BrowserCount struct {
	Browser string `json:"browser"`
	Count   int    `json:"count"`
}

type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// HourCount is one bucket of the contact hourly histogram; Hour is "HH:00".
type HourCount struct {
	Hour  string `json:"hour"`
	Count int    `json:"count"`
}

// VisitReport is the rollup served by GET /api/analytics/track.
type VisitReport struct {
	TotalVisitors             int             `json:"totalVisitors"`
	UniqueVisitors            int             `json:"uniqueVisitors"`
	PageViews                 int             `json:"pageViews"`
	AverageTimeOnSite         int             `json:"averageTimeOnSite"`
	BounceRate                float64         `json:"bounceRate"`
	TopPages                  []PageCount     `json:"topPages"`
	TopReferrers              []ReferrerCount `json:"topReferrers"`
	DeviceBreakdown           []DeviceCount   `json:"deviceBreakdown"`
	BrowserBreakdown          []BrowserCount  `json:"browserBreakdown"`
	ContactFormSubmissions    int             `json:"contactFormSubmissions"`
	ContactFormConversionRate float64         `json:"contactFormConversionRate"`
	RecentVisitors            []VisitEvent    `json:"recentVisitors"`
	RecentContacts            []ContactEvent  `json:"recentContacts"`
}

// ContactReport is the rollup served by GET /api/analytics/contact.
type ContactReport struct {
	TotalContacts         int            `json:"totalContacts"`
	RecentContacts        []ContactEvent `json:"recentContacts"`
	AverageConversionTime int            `json:"averageConversionTime"`
	SourceBreakdown       []SourceCount  `json:"sourceBreakdown"`
	HourlyBreakdown       []HourCount    `json:"hourlyBreakdown"`
	ConversionRate        float64        `json:"conversionRate"`
}
