package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Download(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockObjectStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

type MockStatusPublisher struct {
	mock.Mock
}

func (m *MockStatusPublisher) Publish(sessionID string, update map[string]any) error {
	args := m.Called(sessionID, update)
	return args.Error(0)
}
