package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"salesreg/internal/store"
)

// MockRunStore is a mock for the RunStore interface
type MockRunStore struct {
	mock.Mock
}

func (m *MockRunStore) Save(ctx context.Context, run *store.Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRunStore) Get(ctx context.Context, id string) (*store.Run, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Run), args.Error(1)
}

func (m *MockRunStore) List(ctx context.Context, limit int) ([]store.Summary, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Summary), args.Error(1)
}

// MockPinger is a mock for the Pinger interface
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// MockEventPublisher is a mock for the EventPublisher interface
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, eventType, runID string, data interface{}) {
	m.Called(ctx, eventType, runID, data)
}
