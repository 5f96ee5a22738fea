package mocks

import (
	"context"

	"github.com/gamassss/linkdash/internal/analytics"
	"github.com/gamassss/linkdash/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockLinkService struct {
	mock.Mock
}

func (m *MockLinkService) CreateLink(ctx context.Context, userID string, req *domain.CreateLinkRequest) (*domain.Link, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockLinkService) BulkCreate(ctx context.Context, userID string, reqs []domain.CreateLinkRequest) (*domain.BulkResult, error) {
	args := m.Called(ctx, userID, reqs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BulkResult), args.Error(1)
}

func (m *MockLinkService) ListLinks(ctx context.Context, userID string, q analytics.Query) (*domain.LinkList, error) {
	args := m.Called(ctx, userID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LinkList), args.Error(1)
}

func (m *MockLinkService) ToggleLink(ctx context.Context, userID, id string) (*domain.Link, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockLinkService) RenameLink(ctx context.Context, userID, id, name string) (*domain.Link, error) {
	args := m.Called(ctx, userID, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockLinkService) DeleteLink(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockLinkService) BulkToggle(ctx context.Context, userID string, ids []string, enabled bool) (*domain.BulkResult, error) {
	args := m.Called(ctx, userID, ids, enabled)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BulkResult), args.Error(1)
}

func (m *MockLinkService) BulkDelete(ctx context.Context, userID string, ids []string) (*domain.BulkResult, error) {
	args := m.Called(ctx, userID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BulkResult), args.Error(1)
}

type MockRedirectService struct {
	mock.Mock
}

func (m *MockRedirectService) Resolve(ctx context.Context, slug, password string) (*domain.Link, error) {
	args := m.Called(ctx, slug, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockRedirectService) TrackClick(ctx context.Context, link *domain.Link, req domain.ClickRequest) {
	m.Called(ctx, link, req)
}

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) Overview(ctx context.Context, userID string) (*domain.Overview, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Overview), args.Error(1)
}

func (m *MockAnalyticsService) LinkClicks(ctx context.Context, userID, linkID string, page, pageSize int) (*domain.ClickHistory, error) {
	args := m.Called(ctx, userID, linkID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClickHistory), args.Error(1)
}
