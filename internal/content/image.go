package content

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/careersynchrony/careerworker/internal/gateway"
)

const transcribeInstruction = "Extract all text from this image, including any job description details. Provide a complete and accurate transcription."

// ImageTranscriber extracts text from an image via a single multimodal model
// call. This is the only extraction path with a network dependency: it can be
// slow, it can fail, and it makes exactly one attempt.
type ImageTranscriber struct {
	gw    gateway.Gateway
	model string
}

func NewImageTranscriber(gw gateway.Gateway, model string) *ImageTranscriber {
	return &ImageTranscriber{gw: gw, model: model}
}

// Transcribe encodes the image as a base64 data URI and asks the vision model
// for a verbatim transcription. The returned content is taken as-is.
func (t *ImageTranscriber) Transcribe(ctx context.Context, image []byte, mediaType string) (string, error) {
	staged, cleanup, err := stageTemp(image)
	if err != nil {
		return "", fmt.Errorf("%w: stage image: %v", ErrTranscriptionFailed, err)
	}
	defer cleanup()

	data, err := os.ReadFile(staged)
	if err != nil {
		return "", fmt.Errorf("%w: read staged image: %v", ErrTranscriptionFailed, err)
	}

	uri := "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
	text, err := t.gw.CompleteChat(ctx, t.model, []gateway.Message{{
		Role:     gateway.RoleUser,
		Content:  transcribeInstruction,
		ImageURL: uri,
	}})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: model returned no content", ErrTranscriptionFailed)
	}
	return text, nil
}

// stageTemp writes the image to scratch storage and hands back the staged
// path together with a cleanup that removes it. The cleanup must run on every
// path out of the caller.
func stageTemp(data []byte) (string, func(), error) {
	f, err := os.CreateTemp("", "careerworker-image-*")
	if err != nil {
		return "", nil, err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nil, err
	}
	return f.Name(), func() { os.Remove(f.Name()) }, nil
}
