package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Transcribe(ctx context.Context, image []byte, mediaType string) (string, error) {
	args := m.Called(ctx, image, mediaType)
	return args.String(0), args.Error(1)
}
