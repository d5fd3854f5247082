package gateway

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type geminiGateway struct {
	client *genai.Client
}

// newGeminiGateway creates a Gateway backed by the Gemini API. Speech
// synthesis stays on the openai provider; this one covers the text and
// transcription capabilities.
func newGeminiGateway(ctx context.Context, cfg Config) (Gateway, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %v", err)
	}
	return &geminiGateway{client: client}, nil
}

func (g *geminiGateway) CompleteChat(ctx context.Context, model string, msgs []Message) (string, error) {
	contents, config, err := convertContents(msgs)
	if err != nil {
		return "", err
	}
	resp, err := g.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", fmt.Errorf("%w: gemini chat: %v", ErrModelCallFailed, err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty gemini response", ErrModelCallFailed)
	}
	return text, nil
}

func (g *geminiGateway) StreamChat(ctx context.Context, model string, msgs []Message) Stream {
	return func(yield func(string, error) bool) {
		contents, config, err := convertContents(msgs)
		if err != nil {
			yield("", err)
			return
		}
		for resp, err := range g.client.Models.GenerateContentStream(ctx, model, contents, config) {
			if err != nil {
				yield("", fmt.Errorf("%w: gemini stream: %v", ErrModelCallFailed, err))
				return
			}
			text := resp.Text()
			if text == "" {
				continue
			}
			if !yield(text, nil) {
				return
			}
		}
	}
}

func (g *geminiGateway) TranscribeAudio(ctx context.Context, audio []byte, language string) (string, error) {
	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{Text: "Transcribe this audio verbatim. The spoken language is " + language + "."},
			{InlineData: &genai.Blob{MIMEType: "audio/mpeg", Data: audio}},
		},
	}}
	resp, err := g.client.Models.GenerateContent(ctx, "gemini-2.5-flash", contents, nil)
	if err != nil {
		return "", fmt.Errorf("%w: gemini transcription: %v", ErrModelCallFailed, err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty transcription result", ErrModelCallFailed)
	}
	return text, nil
}

func (g *geminiGateway) SynthesizeSpeech(ctx context.Context, text string, voice Voice) ([]byte, error) {
	return nil, fmt.Errorf("%w: speech synthesis requires the openai provider", ErrUnsupportedCapability)
}

func convertContents(msgs []Message) ([]*genai.Content, *genai.GenerateContentConfig, error) {
	var config *genai.GenerateContentConfig
	contents := make([]*genai.Content, 0, len(msgs))

	for _, msg := range msgs {
		switch msg.Role {
		case RoleSystem:
			config = &genai.GenerateContentConfig{
				SystemInstruction: &genai.Content{
					Parts: []*genai.Part{{Text: msg.Content}},
				},
			}
		case RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		default:
			parts := []*genai.Part{{Text: msg.Content}}
			if msg.ImageURL != "" {
				blob, err := decodeDataURI(msg.ImageURL)
				if err != nil {
					return nil, nil, err
				}
				parts = append(parts, &genai.Part{InlineData: blob})
			}
			contents = append(contents, &genai.Content{Role: "user", Parts: parts})
		}
	}
	return contents, config, nil
}

// decodeDataURI unpacks a base64 data URI back into mime type and raw bytes.
func decodeDataURI(uri string) (*genai.Blob, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, fmt.Errorf("%w: image attachment is not a data uri", ErrModelCallFailed)
	}
	mimeType, payload, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return nil, fmt.Errorf("%w: image attachment is not base64 encoded", ErrModelCallFailed)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: decode image attachment: %v", ErrModelCallFailed, err)
	}
	return &genai.Blob{MIMEType: mimeType, Data: data}, nil
}
