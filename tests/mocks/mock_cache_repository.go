package mocks

import (
	"context"
	"time"

	"github.com/gamassss/linkdash/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) GetLink(ctx context.Context, slug string) (*domain.Link, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Link), args.Error(1)
}

func (m *MockCacheRepository) SetLink(ctx context.Context, link *domain.Link, ttl time.Duration) error {
	args := m.Called(ctx, link, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) DeleteLink(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

type MockVisitorTracker struct {
	mock.Mock
}

func (m *MockVisitorTracker) AddVisitor(ctx context.Context, linkID, visitorKey string) (bool, error) {
	args := m.Called(ctx, linkID, visitorKey)
	return args.Bool(0), args.Error(1)
}

func (m *MockVisitorTracker) ForgetVisitors(ctx context.Context, linkID string) error {
	args := m.Called(ctx, linkID)
	return args.Error(0)
}
