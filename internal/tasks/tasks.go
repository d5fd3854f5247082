// Package tasks composes normalized text plus task parameters into model
// requests, one builder per career-assistance task, and turns model output
// into typed results.
package tasks

import (
	"context"

	"github.com/careersynchrony/careerworker/internal/gateway"
)

// Kind names one career-assistance task.
type Kind string

const (
	KindChatTurn            Kind = "chat_turn"
	KindAtsAnalysis         Kind = "ats_analysis"
	KindCoverLetter         Kind = "cover_letter"
	KindDayToDayAnalysis    Kind = "day_to_day_analysis"
	KindSpeechSynthesis     Kind = "speech_synthesis"
	KindSpeechTranscription Kind = "speech_transcription"
)

// Default models per capability. The gpt-* names only exist on the openai
// provider; gemini deployments use the Gemini* defaults instead. Either set
// can be overridden at startup.
const (
	ChatModel   = "gpt-4o-mini"
	VisionModel = "gpt-4o"

	GeminiChatModel   = "gemini-2.5-flash"
	GeminiVisionModel = "gemini-2.5-flash"
)

// Request is a fully composed completion request for one task.
type Request struct {
	Kind     Kind
	Model    string
	Messages []gateway.Message
}

// Download describes a result offered to the user as a downloadable file.
type Download struct {
	Filename string
	MIME     string
	Data     []byte
}

// Result is the typed outcome of a task run. Exactly the fields for the
// task's output shape are set.
type Result struct {
	Kind        Kind
	Text        string
	Audio       []byte
	AudioKey    string
	Transcript  string
	Suggestions string
	Download    *Download
}

// CoverLetterFilename is the download name for generated cover letters.
const CoverLetterFilename = "cover_letter.txt"

// Run executes a composed completion request and returns its text result.
// Gateway faults surface to the caller untouched; nothing is retried here.
func Run(ctx context.Context, gw gateway.Gateway, req Request) (Result, error) {
	text, err := gw.CompleteChat(ctx, req.Model, req.Messages)
	if err != nil {
		return Result{}, err
	}
	res := Result{Kind: req.Kind, Text: text}
	if req.Kind == KindCoverLetter {
		res.Download = &Download{
			Filename: CoverLetterFilename,
			MIME:     "text/plain",
			Data:     []byte(text),
		}
	}
	return res, nil
}
