package tasks

import (
	"context"
	"fmt"
	"testing"

	"github.com/careersynchrony/careerworker/internal/gateway"
	"github.com/careersynchrony/careerworker/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSpeechSynthesisPassesVoiceAndTextThrough(t *testing.T) {
	gw := new(mocks.MockModelGateway)
	gw.On("SynthesizeSpeech", mock.Anything, "Today is a wonderful day", gateway.VoiceNova).
		Return([]byte{0x49, 0x44, 0x33}, nil)
	task := SpeechSynthesisTask{Text: "Today is a wonderful day", Voice: gateway.VoiceNova}

	res, err := task.Run(context.Background(), gw)

	require.NoError(t, err)
	assert.Equal(t, KindSpeechSynthesis, res.Kind)
	assert.NotEmpty(t, res.Audio)
	gw.AssertExpectations(t)
}

func TestSpeechSynthesisRejectsUnknownVoice(t *testing.T) {
	gw := new(mocks.MockModelGateway)
	task := SpeechSynthesisTask{Text: "hello", Voice: "robot"}

	_, err := task.Run(context.Background(), gw)

	require.Error(t, err)
	gw.AssertNotCalled(t, "SynthesizeSpeech", mock.Anything, mock.Anything, mock.Anything)
}

func TestSpeechSynthesisRequiresText(t *testing.T) {
	gw := new(mocks.MockModelGateway)
	task := SpeechSynthesisTask{Text: "  ", Voice: gateway.VoiceAlloy}

	_, err := task.Run(context.Background(), gw)

	require.Error(t, err)
	gw.AssertNotCalled(t, "SynthesizeSpeech", mock.Anything, mock.Anything, mock.Anything)
}

func TestSpeechTranscriptionProducesTranscriptAndSuggestions(t *testing.T) {
	audio := []byte{0x52, 0x49, 0x46, 0x46}
	gw := new(mocks.MockModelGateway)
	gw.On("TranscribeAudio", mock.Anything, audio, "en").Return("I handled the escalation", nil)
	gw.On("CompleteChat", mock.Anything, ChatModel, mock.Anything).Return("Speak slower", nil)
	task := SpeechTranscriptionTask{Audio: audio}

	res, err := task.Run(context.Background(), gw)

	require.NoError(t, err)
	assert.Equal(t, "I handled the escalation", res.Transcript)
	assert.Equal(t, "Speak slower", res.Suggestions)

	// the transcript is fed verbatim as the follow-up user content
	msgs := gw.Calls[1].Arguments.Get(2).([]gateway.Message)
	require.Len(t, msgs, 2)
	assert.Equal(t, gateway.RoleUser, msgs[1].Role)
	assert.Equal(t, "I handled the escalation", msgs[1].Content)
}

func TestSpeechTranscriptionFaultSurfacesNoPartialTranscript(t *testing.T) {
	gw := new(mocks.MockModelGateway)
	gw.On("TranscribeAudio", mock.Anything, mock.Anything, "en").
		Return("", fmt.Errorf("%w: whisper unavailable", gateway.ErrModelCallFailed))
	task := SpeechTranscriptionTask{Audio: []byte{0x01}}

	res, err := task.Run(context.Background(), gw)

	require.ErrorIs(t, err, gateway.ErrModelCallFailed)
	assert.Empty(t, res.Transcript)
	assert.Empty(t, res.Suggestions)
	gw.AssertNotCalled(t, "CompleteChat", mock.Anything, mock.Anything, mock.Anything)
}

func TestSpeechTranscriptionSuggestionsFault(t *testing.T) {
	gw := new(mocks.MockModelGateway)
	gw.On("TranscribeAudio", mock.Anything, mock.Anything, "en").Return("transcript", nil)
	gw.On("CompleteChat", mock.Anything, mock.Anything, mock.Anything).
		Return("", fmt.Errorf("%w: server error", gateway.ErrModelCallFailed))
	task := SpeechTranscriptionTask{Audio: []byte{0x01}}

	res, err := task.Run(context.Background(), gw)

	require.ErrorIs(t, err, gateway.ErrModelCallFailed)
	assert.Empty(t, res.Transcript)
}
