package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gamassss/linkdash/internal/analytics"
	"github.com/gamassss/linkdash/internal/domain"
	"golang.org/x/sync/errgroup"
)

const defaultClickSample = 1000

type ClickReader interface {
	RecentByUser(ctx context.Context, userID string, limit int) ([]domain.Click, error)
	History(ctx context.Context, linkID string, page, pageSize int) (*domain.ClickHistory, error)
}

type AnalyticsService struct {
	links       LinkRepository
	clicks      ClickReader
	clickSample int
	now         func() time.Time
}

func NewAnalyticsService(links LinkRepository, clicks ClickReader, clickSample int) *AnalyticsService {
	if clickSample <= 0 {
		clickSample = defaultClickSample
	}
	return &AnalyticsService{
		links:       links,
		clicks:      clicks,
		clickSample: clickSample,
		now:         time.Now,
	}
}

func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

// Overview loads the user's links and recent clicks concurrently. Any fetch
// failure fails the whole overview.
func (s *AnalyticsService) Overview(ctx context.Context, userID string) (*domain.Overview, error) {
	var (
		links  []domain.Link
		clicks []domain.Click
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		links, err = s.links.ListByUser(gctx, userID, domain.OrderByClickCount)
		return err
	})
	g.Go(func() error {
		var err error
		clicks, err = s.clicks.RecentByUser(gctx, userID, s.clickSample)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load analytics: %w", err)
	}

	return analytics.BuildOverview(links, clicks, s.now()), nil
}

func (s *AnalyticsService) LinkClicks(ctx context.Context, userID, linkID string, page, pageSize int) (*domain.ClickHistory, error) {
	link, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	if link.UserID != userID {
		return nil, domain.ErrLinkNotFound
	}

	return s.clicks.History(ctx, linkID, page, pageSize)
}
