package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type openaiGateway struct {
	client          openai.Client
	speechModel     string
	transcribeModel string
}

// newOpenAIGateway creates a Gateway backed by the OpenAI API. This is the
// only provider with the full audio surface.
func newOpenAIGateway(cfg Config) (Gateway, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	speechModel := cfg.SpeechModel
	if speechModel == "" {
		speechModel = "tts-1"
	}
	transcribeModel := cfg.TranscribeModel
	if transcribeModel == "" {
		transcribeModel = "whisper-1"
	}

	return &openaiGateway{
		client:          openai.NewClient(opts...),
		speechModel:     speechModel,
		transcribeModel: transcribeModel,
	}, nil
}

func (g *openaiGateway) CompleteChat(ctx context.Context, model string, msgs []Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: convertMessages(msgs),
	}

	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: openai chat: %v", ErrModelCallFailed, err)
	}

	slog.DebugContext(ctx, "chat completed",
		"model", model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrModelCallFailed)
	}
	return resp.Choices[0].Message.Content, nil
}

func (g *openaiGateway) StreamChat(ctx context.Context, model string, msgs []Message) Stream {
	return func(yield func(string, error) bool) {
		stream := g.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
			Model:    model,
			Messages: convertMessages(msgs),
		})
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			if !yield(delta, nil) {
				return
			}
		}
		if err := stream.Err(); err != nil {
			yield("", fmt.Errorf("%w: openai stream: %v", ErrModelCallFailed, err))
		}
	}
}

func (g *openaiGateway) TranscribeAudio(ctx context.Context, audio []byte, language string) (string, error) {
	resp, err := g.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model:    openai.AudioModel(g.transcribeModel),
		File:     bytes.NewReader(audio),
		Language: openai.String(language),
	})
	if err != nil {
		return "", fmt.Errorf("%w: openai transcription: %v", ErrModelCallFailed, err)
	}
	if resp.Text == "" {
		return "", fmt.Errorf("%w: empty transcription result", ErrModelCallFailed)
	}
	return resp.Text, nil
}

func (g *openaiGateway) SynthesizeSpeech(ctx context.Context, text string, voice Voice) ([]byte, error) {
	resp, err := g.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model: openai.SpeechModel(g.speechModel),
		Voice: openai.AudioSpeechNewParamsVoice(voice),
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: openai speech: %v", ErrModelCallFailed, err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read speech audio: %v", ErrModelCallFailed, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: empty speech audio", ErrModelCallFailed)
	}
	return audio, nil
}

func convertMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))

	for _, msg := range msgs {
		switch msg.Role {
		case RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		default:
			if msg.ImageURL != "" {
				result = append(result, openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
					openai.TextContentPart(msg.Content),
					openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
						URL: msg.ImageURL,
					}),
				}))
				continue
			}
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}
