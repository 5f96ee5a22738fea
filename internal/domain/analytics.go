package domain

import "time"

type CountryStat struct {
	Country    string `json:"country"`
	Clicks     int    `json:"clicks"`
	Percentage string `json:"percentage"`
}

type DailyActivity struct {
	Date   string `json:"date"`
	Clicks int    `json:"clicks"`
}

// TopLink.CTR is clicks divided by visitors, formatted to two decimals, or "0"
// when the link has no visitors.
type TopLink struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	URL      string `json:"url"`
	Clicks   int64  `json:"clicks"`
	Visitors int64  `json:"visitors"`
	CTR      string `json:"ctr"`
}

type RecentActivity struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Country   *string   `json:"country"`
	LinkName  string    `json:"link_name"`
	LinkSlug  string    `json:"link_slug"`
}

type OverviewSummary struct {
	TotalLinks    int   `json:"total_links"`
	ActiveLinks   int   `json:"active_links"`
	InactiveLinks int   `json:"inactive_links"`
	ExpiredLinks  int   `json:"expired_links"`
	PendingLinks  int   `json:"pending_links"`
	TotalClicks   int64 `json:"total_clicks"`
	TotalVisitors int64 `json:"total_visitors"`
}

type Overview struct {
	Summary        OverviewSummary  `json:"summary"`
	TopLinks       []TopLink        `json:"top_links"`
	TopCountries   []CountryStat    `json:"top_countries"`
	DailyActivity  []DailyActivity  `json:"daily_activity"`
	RecentActivity []RecentActivity `json:"recent_activity"`
}

type LinkCounts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Expired  int `json:"expired"`
	Disabled int `json:"disabled"`
}
