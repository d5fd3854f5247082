package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/careersynchrony/careerworker/internal/gateway"
)

const transcriptionLanguage = "en"

const transcriptionFeedbackPrompt = "You are an AI that can analyze user audio transcription and give a final summary to the student on where to improve and how to improve. Give your summary in english"

// SpeechSynthesisTask passes text and a voice straight to the gateway and
// returns the rendered audio.
type SpeechSynthesisTask struct {
	Text  string
	Voice gateway.Voice
}

func (t SpeechSynthesisTask) Run(ctx context.Context, gw gateway.Gateway) (Result, error) {
	if strings.TrimSpace(t.Text) == "" {
		return Result{}, fmt.Errorf("speech synthesis requires text input")
	}
	if !t.Voice.Valid() {
		return Result{}, fmt.Errorf("unknown voice %q", t.Voice)
	}
	audio, err := gw.SynthesizeSpeech(ctx, t.Text, t.Voice)
	if err != nil {
		return Result{}, err
	}
	return Result{Kind: KindSpeechSynthesis, Audio: audio}, nil
}

// SpeechTranscriptionTask transcribes spoken audio, then feeds the transcript
// verbatim into a second completion asking for improvement suggestions. If
// either call fails, no partial transcript is surfaced.
type SpeechTranscriptionTask struct {
	Audio []byte
	Model string // completion model for the feedback step; ChatModel when empty
}

func (t SpeechTranscriptionTask) Run(ctx context.Context, gw gateway.Gateway) (Result, error) {
	transcript, err := gw.TranscribeAudio(ctx, t.Audio, transcriptionLanguage)
	if err != nil {
		return Result{}, err
	}
	model := t.Model
	if model == "" {
		model = ChatModel
	}
	suggestions, err := gw.CompleteChat(ctx, model, []gateway.Message{
		{Role: gateway.RoleSystem, Content: transcriptionFeedbackPrompt},
		{Role: gateway.RoleUser, Content: transcript},
	})
	if err != nil {
		return Result{}, err
	}
	return Result{
		Kind:        KindSpeechTranscription,
		Transcript:  transcript,
		Suggestions: suggestions,
	}, nil
}
