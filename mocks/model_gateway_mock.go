package mocks

import (
	"context"

	"github.com/careersynchrony/careerworker/internal/gateway"
	"github.com/stretchr/testify/mock"
)

type MockModelGateway struct {
	mock.Mock
}

func (m *MockModelGateway) CompleteChat(ctx context.Context, model string, msgs []gateway.Message) (string, error) {
	args := m.Called(ctx, model, msgs)
	return args.String(0), args.Error(1)
}

func (m *MockModelGateway) StreamChat(ctx context.Context, model string, msgs []gateway.Message) gateway.Stream {
	args := m.Called(ctx, model, msgs)
	return args.Get(0).(gateway.Stream)
}

func (m *MockModelGateway) TranscribeAudio(ctx context.Context, audio []byte, language string) (string, error) {
	args := m.Called(ctx, audio, language)
	return args.String(0), args.Error(1)
}

func (m *MockModelGateway) SynthesizeSpeech(ctx context.Context, text string, voice gateway.Voice) ([]byte, error) {
	args := m.Called(ctx, text, voice)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// FragmentStream builds a finite stream that yields the given fragments in
// order, then the trailing error if it is non-nil.
func FragmentStream(fragments []string, err error) gateway.Stream {
	return func(yield func(string, error) bool) {
		for _, f := range fragments {
			if !yield(f, nil) {
				return
			}
		}
		if err != nil {
			yield("", err)
		}
	}
}
