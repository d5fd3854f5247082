package mocks

import (
	"context"

	"github.com/careersynchrony/careerworker/internal/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) GetArtifactsBySession(ctx context.Context, sessionID uuid.UUID) ([]database.Artifact, error) {
	args := m.Called(ctx, sessionID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.Artifact), args.Error(1)
}

func (m *MockTaskStore) UpdateSessionStatus(ctx context.Context, arg database.UpdateSessionStatusParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}

func (m *MockTaskStore) CreateOrUpdateTaskResult(ctx context.Context, arg database.CreateOrUpdateTaskResultParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}
