package domain

import "time"

type LinkStatus string

const (
	StatusActive   LinkStatus = "active"
	StatusInactive LinkStatus = "inactive"
	StatusExpired  LinkStatus = "expired"
	StatusDisabled LinkStatus = "disabled"
)

const MaxLinkNameLength = 28

type Link struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Slug          string     `json:"slug"`
	URL           string     `json:"url"`
	NormalizedURL string     `json:"-"`
	Name          string     `json:"name,omitempty"`
	Password      string     `json:"-"`
	Enabled       bool       `json:"enabled"`
	ClickCount    int64      `json:"click_count"`
	VisitorCount  int64      `json:"visitor_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	StartsAt      *time.Time `json:"starts_at"`
	ExpiresAt     *time.Time `json:"expires_at"`
}

// ClassifyStatus derives the effective status of a link. The first matching
// rule wins: disabled, expired, not yet started, active.
func ClassifyStatus(enabled bool, startsAt, expiresAt *time.Time, now time.Time) LinkStatus {
	if !enabled {
		return StatusDisabled
	}
	if expiresAt != nil && expiresAt.Before(now) {
		return StatusExpired
	}
	if startsAt != nil && startsAt.After(now) {
		return StatusInactive
	}
	return StatusActive
}

func (l *Link) Status(now time.Time) LinkStatus {
	return ClassifyStatus(l.Enabled, l.StartsAt, l.ExpiresAt, now)
}

func (l *Link) HasPassword() bool {
	return l.Password != ""
}

type LinkOrder int

const (
	OrderByCreatedAt LinkOrder = iota
	OrderByClickCount
)

type LinkList struct {
	Links  []Link     `json:"links"`
	Counts LinkCounts `json:"counts"`
}
