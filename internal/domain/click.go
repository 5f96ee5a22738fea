package domain

import "time"

type Click struct {
	ID        int64     `json:"id"`
	LinkID    string    `json:"link_id"`
	Timestamp time.Time `json:"timestamp"`
	IPAddress string    `json:"-"`
	UserAgent string    `json:"user_agent"`
	Referer   string    `json:"referer,omitempty"`
	Device    string    `json:"device_type"`
	Country   *string   `json:"country"`

	// Populated by joins for the recent activity feed.
	LinkName string `json:"link_name,omitempty"`
	LinkSlug string `json:"link_slug,omitempty"`
}

type ClickRequest struct {
	LinkID     string
	IPAddress  string
	UserAgent  string
	Referer    string
	DeviceType string
}

type ClickHistory struct {
	Clicks     []Click `json:"clicks"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalPages int     `json:"total_pages"`
}
