package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name      string
		enabled   bool
		startsAt  *time.Time
		expiresAt *time.Time
		want      LinkStatus
	}{
		{"no constraints", true, nil, nil, StatusActive},
		{"started and not expired", true, &past, &future, StatusActive},
		{"expired yesterday", true, nil, &past, StatusExpired},
		{"starts tomorrow", true, &future, nil, StatusInactive},
		{"disabled", false, nil, nil, StatusDisabled},
		{"disabled wins over expired", false, nil, &past, StatusDisabled},
		{"disabled wins over pending", false, &future, nil, StatusDisabled},
		{"expired checked before pending", true, &future, &past, StatusExpired},
		{"expiry exactly now is still active", true, nil, &now, StatusActive},
		{"start exactly now is active", true, &now, nil, StatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStatus(tt.enabled, tt.startsAt, tt.expiresAt, now))
		})
	}
}

func TestLink_Status(t *testing.T) {
	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)

	link := &Link{Enabled: true, ExpiresAt: &yesterday}
	assert.Equal(t, StatusExpired, link.Status(now))

	link.Enabled = false
	assert.Equal(t, StatusDisabled, link.Status(now))
}

func TestNewBulkResult(t *testing.T) {
	result := NewBulkResult([]BulkItemResult{
		{Index: 0, Success: true},
		{Index: 1, Success: false, Error: "boom"},
		{Index: 2, Success: true},
	})

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.SuccessfulCount)
	assert.Equal(t, 1, result.FailedCount)

	result = NewBulkResult([]BulkItemResult{{Index: 0, Success: false}})
	assert.False(t, result.Success)
}
