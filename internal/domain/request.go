package domain

const (
	MaxBulkToggle = 100
	MaxBulkDelete = 100
	MaxBulkCreate = 1000
)

type ExpiryOption string

const (
	ExpiryOneHour   ExpiryOption = "1h"
	ExpiryOneDay    ExpiryOption = "24h"
	ExpirySevenDays ExpiryOption = "7d"
	ExpiryThirtyDay ExpiryOption = "30d"
	ExpiryNever     ExpiryOption = "never"
)

type CreateLinkRequest struct {
	URL       string       `json:"url" validate:"required,max=2048"`
	Slug      string       `json:"slug,omitempty" validate:"omitempty,min=3,max=50,slug"`
	Name      string       `json:"name,omitempty" validate:"omitempty,max=28"`
	Password  string       `json:"password,omitempty" validate:"omitempty,max=128"`
	ExpiresIn ExpiryOption `json:"expires_in,omitempty" validate:"omitempty,oneof=1h 24h 7d 30d never"`
	StartsAt  string       `json:"starts_at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type BulkCreateRequest struct {
	Links []CreateLinkRequest `json:"links" binding:"required"`
}

type RenameLinkRequest struct {
	Name string `json:"name" validate:"max=28"`
}

type BulkToggleRequest struct {
	IDs     []string `json:"ids" binding:"required"`
	Enabled bool     `json:"enabled"`
}

type BulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

type UnlockRequest struct {
	Password string `json:"password" binding:"required"`
}

type BulkItemResult struct {
	Index   int    `json:"index"`
	ID      string `json:"id,omitempty"`
	Success bool   `json:"success"`
	Link    *Link  `json:"link,omitempty"`
	Error   string `json:"error,omitempty"`
}

type BulkResult struct {
	Success         bool             `json:"success"`
	SuccessfulCount int              `json:"successful_count"`
	FailedCount     int              `json:"failed_count"`
	Results         []BulkItemResult `json:"results"`
}

// NewBulkResult tallies per-item outcomes. The batch counts as successful when
// at least one item succeeded.
func NewBulkResult(results []BulkItemResult) *BulkResult {
	br := &BulkResult{Results: results}
	for _, r := range results {
		if r.Success {
			br.SuccessfulCount++
		} else {
			br.FailedCount++
		}
	}
	br.Success = br.SuccessfulCount > 0
	return br
}
