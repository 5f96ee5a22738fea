package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gamassss/linkdash/internal/domain"
	"github.com/gamassss/linkdash/tests/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAnalyticsService() (*AnalyticsService, *mocks.MockLinkRepository, *mocks.MockClickRepository) {
	links := new(mocks.MockLinkRepository)
	clicks := new(mocks.MockClickRepository)
	svc := NewAnalyticsService(links, clicks, 0).WithClock(func() time.Time { return fixedNow })
	return svc, links, clicks
}

func strPtr(s string) *string { return &s }

func TestOverview_Success(t *testing.T) {
	svc, links, clicks := newAnalyticsService()
	ctx := context.Background()

	links.On("ListByUser", mock.Anything, "user-1", domain.OrderByClickCount).Return([]domain.Link{
		{ID: "a", Slug: "a", Enabled: true, ClickCount: 10, VisitorCount: 4},
		{ID: "b", Slug: "b", Enabled: false, ClickCount: 2, VisitorCount: 2},
	}, nil).Once()
	clicks.On("RecentByUser", mock.Anything, "user-1", defaultClickSample).Return([]domain.Click{
		{LinkID: "a", Timestamp: fixedNow.Add(-time.Hour), Country: strPtr("US")},
		{LinkID: "a", Timestamp: fixedNow.Add(-2 * time.Hour), Country: strPtr("US")},
		{LinkID: "b", Timestamp: fixedNow.Add(-26 * time.Hour), Country: strPtr("DE")},
	}, nil).Once()

	overview, err := svc.Overview(ctx, "user-1")

	require.NoError(t, err)
	assert.EqualValues(t, 2, overview.Summary.TotalLinks)
	assert.EqualValues(t, 1, overview.Summary.ActiveLinks)
	assert.EqualValues(t, 12, overview.Summary.TotalClicks)
	assert.EqualValues(t, 6, overview.Summary.TotalVisitors)
	require.Len(t, overview.TopLinks, 2)
	assert.Equal(t, "2.50", overview.TopLinks[0].CTR)
	require.Len(t, overview.TopCountries, 2)
	assert.Equal(t, "US", overview.TopCountries[0].Country)
	assert.Len(t, overview.DailyActivity, 30)
	assert.Len(t, overview.RecentActivity, 3)
}

func TestOverview_FetchFailureFailsWhole(t *testing.T) {
	svc, links, clicks := newAnalyticsService()
	ctx := context.Background()

	links.On("ListByUser", mock.Anything, "user-1", domain.OrderByClickCount).Return(nil, errors.New("db timeout")).Once()
	clicks.On("RecentByUser", mock.Anything, "user-1", defaultClickSample).Return([]domain.Click{}, nil).Maybe()

	overview, err := svc.Overview(ctx, "user-1")

	assert.Nil(t, overview)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load analytics")
}

func TestLinkClicks(t *testing.T) {
	svc, links, clicks := newAnalyticsService()
	ctx := context.Background()

	history := &domain.ClickHistory{Clicks: []domain.Click{{ID: 1, LinkID: "a"}}, Total: 1, Page: 1, PageSize: 20, TotalPages: 1}
	links.On("GetByID", ctx, "a").Return(&domain.Link{ID: "a", UserID: "user-1"}, nil).Once()
	clicks.On("History", ctx, "a", 1, 20).Return(history, nil).Once()

	got, err := svc.LinkClicks(ctx, "user-1", "a", 1, 20)

	require.NoError(t, err)
	assert.Equal(t, history, got)
}

func TestLinkClicks_OtherUsersLinkIsNotFound(t *testing.T) {
	svc, links, clicks := newAnalyticsService()
	ctx := context.Background()

	links.On("GetByID", ctx, "a").Return(&domain.Link{ID: "a", UserID: "user-2"}, nil).Once()

	_, err := svc.LinkClicks(ctx, "user-1", "a", 1, 20)

	assert.ErrorIs(t, err, domain.ErrLinkNotFound)
	clicks.AssertNotCalled(t, "History", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
