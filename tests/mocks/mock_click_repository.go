package mocks

import (
	"context"

	"github.com/gamassss/linkdash/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockClickRepository struct {
	mock.Mock
}

func (m *MockClickRepository) RecordClick(ctx context.Context, click *domain.Click, newVisitor bool) error {
	args := m.Called(ctx, click, newVisitor)
	return args.Error(0)
}

func (m *MockClickRepository) RecentByUser(ctx context.Context, userID string, limit int) ([]domain.Click, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Click), args.Error(1)
}

func (m *MockClickRepository) History(ctx context.Context, linkID string, page, pageSize int) (*domain.ClickHistory, error) {
	args := m.Called(ctx, linkID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClickHistory), args.Error(1)
}

type MockCountryResolver struct {
	mock.Mock
}

func (m *MockCountryResolver) Country(ctx context.Context, ip string) (string, error) {
	args := m.Called(ctx, ip)
	return args.String(0), args.Error(1)
}
