// Package gateway is the boundary to the remote language/speech model
// provider. The rest of the pipeline depends on the Gateway interface only;
// the concrete provider is selected at wiring time.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"iter"
)

// Provider constants for gateway selection.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrModelCallFailed marks a remote provider fault: transport error, provider
// error, or an empty result. The gateway never retries; callers decide.
var ErrModelCallFailed = errors.New("model call failed")

// ErrUnsupportedCapability is returned by providers that do not implement an
// audio capability.
var ErrUnsupportedCapability = errors.New("capability not supported by provider")

// Message is one conversation entry. ImageURL optionally attaches an image
// (as a data URI) to a user message for multimodal requests.
type Message struct {
	Role     string
	Content  string
	ImageURL string
}

// Stream is a lazy, ordered, finite sequence of text fragments with a single
// consumer. A non-nil error is the final element.
type Stream = iter.Seq2[string, error]

// Gateway exposes the remote model capabilities the pipeline needs.
type Gateway interface {
	// CompleteChat issues a non-streaming chat completion and returns the
	// full response text.
	CompleteChat(ctx context.Context, model string, msgs []Message) (string, error)
	// StreamChat issues a streaming chat completion. Fragments arrive in
	// order; iteration ends on completion or on the first error.
	StreamChat(ctx context.Context, model string, msgs []Message) Stream
	// TranscribeAudio converts spoken audio to text.
	TranscribeAudio(ctx context.Context, audio []byte, language string) (string, error)
	// SynthesizeSpeech renders text as spoken audio bytes.
	SynthesizeSpeech(ctx context.Context, text string, voice Voice) ([]byte, error)
}

// Voice identifies one of the provider's fixed synthesis voices.
type Voice string

const (
	VoiceAlloy   Voice = "alloy"
	VoiceAsh     Voice = "ash"
	VoiceCoral   Voice = "coral"
	VoiceEcho    Voice = "echo"
	VoiceFable   Voice = "fable"
	VoiceOnyx    Voice = "onyx"
	VoiceNova    Voice = "nova"
	VoiceSage    Voice = "sage"
	VoiceShimmer Voice = "shimmer"
)

// Voices is the full synthesis voice set.
var Voices = []Voice{
	VoiceAlloy, VoiceAsh, VoiceCoral, VoiceEcho, VoiceFable,
	VoiceOnyx, VoiceNova, VoiceSage, VoiceShimmer,
}

// Valid reports whether v is a member of the fixed voice set.
func (v Voice) Valid() bool {
	for _, known := range Voices {
		if v == known {
			return true
		}
	}
	return false
}

// Config holds gateway configuration.
type Config struct {
	Provider        string // "openai" or "gemini", defaults to openai
	APIKey          string
	BaseURL         string // optional custom endpoint (openai only)
	SpeechModel     string // defaults to tts-1
	TranscribeModel string // defaults to whisper-1
}

// New builds a Gateway for the configured provider.
func New(ctx context.Context, cfg Config) (Gateway, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	provider := cfg.Provider
	if provider == "" {
		provider = ProviderOpenAI
	}

	switch provider {
	case ProviderOpenAI:
		return newOpenAIGateway(cfg)
	case ProviderGemini:
		return newGeminiGateway(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported gateway provider: %s", provider)
	}
}
