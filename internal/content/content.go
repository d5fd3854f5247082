// Package content converts uploaded artifacts into canonical UTF-8 text.
// Plain text, PDF and docx go through the pure readers in internal/extract;
// images fall back to a vision-model transcription.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/careersynchrony/careerworker/internal/extract"
)

// DocxMediaType is the structured-document container MIME type.
const DocxMediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// ErrUnsupportedFormat marks an artifact whose media type is unrecognized and
// whose bytes are not valid UTF-8 text.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ErrTranscriptionFailed marks a failed or empty image transcription.
var ErrTranscriptionFailed = errors.New("transcription failed")

// UploadedArtifact is a user-supplied file, not yet converted to text.
// Created at the upload boundary, processed once, never persisted here.
type UploadedArtifact struct {
	Data      []byte
	MediaType string
	Name      string
}

// Source records which extraction path produced a piece of text.
type Source string

const (
	SourcePlainText Source = "text"
	SourcePDF       Source = "pdf"
	SourceDocx      Source = "docx"
	SourceImage     Source = "image"
)

// NormalizedText is canonical UTF-8 text plus its provenance. Image-sourced
// text is a best-effort model transcription and may be lossy.
type NormalizedText struct {
	Text   string
	Source Source
}

// Format is the closed set of supported artifact formats.
type Format int

const (
	FormatText Format = iota
	FormatPDF
	FormatDocx
	FormatImage
)

// DetectFormat maps a declared media type onto a Format. Anything
// unrecognized falls through to FormatText for a raw UTF-8 decode.
func DetectFormat(mediaType string) Format {
	switch {
	case mediaType == "application/pdf":
		return FormatPDF
	case mediaType == DocxMediaType:
		return FormatDocx
	case strings.HasPrefix(mediaType, "image/"):
		return FormatImage
	default:
		return FormatText
	}
}

// Transcriber converts an image artifact into a text transcription.
type Transcriber interface {
	Transcribe(ctx context.Context, image []byte, mediaType string) (string, error)
}

type handlerFunc func(ctx context.Context, artifact UploadedArtifact) (NormalizedText, error)

// Normalizer dispatches an uploaded artifact, by declared media type, to the
// matching extraction path. Adding a format is a table edit.
type Normalizer struct {
	transcriber Transcriber
	handlers    map[Format]handlerFunc
}

func NewNormalizer(transcriber Transcriber) *Normalizer {
	n := &Normalizer{transcriber: transcriber}
	n.handlers = map[Format]handlerFunc{
		FormatText:  n.fromRawText,
		FormatPDF:   n.fromPDF,
		FormatDocx:  n.fromDocx,
		FormatImage: n.fromImage,
	}
	return n
}

// Normalize produces canonical text for the artifact or fails. Extraction is
// all-or-nothing: a fault never yields partial text downstream.
func (n *Normalizer) Normalize(ctx context.Context, artifact UploadedArtifact) (NormalizedText, error) {
	return n.handlers[DetectFormat(artifact.MediaType)](ctx, artifact)
}

func (n *Normalizer) fromRawText(ctx context.Context, artifact UploadedArtifact) (NormalizedText, error) {
	if !utf8.Valid(artifact.Data) {
		return NormalizedText{}, fmt.Errorf("%w: media type %q is not a supported document and its bytes are not valid UTF-8", ErrUnsupportedFormat, artifact.MediaType)
	}
	return NormalizedText{Text: string(artifact.Data), Source: SourcePlainText}, nil
}

func (n *Normalizer) fromPDF(ctx context.Context, artifact UploadedArtifact) (NormalizedText, error) {
	text, err := extract.FromPDF(artifact.Data)
	if err != nil {
		return NormalizedText{}, err
	}
	return NormalizedText{Text: text, Source: SourcePDF}, nil
}

func (n *Normalizer) fromDocx(ctx context.Context, artifact UploadedArtifact) (NormalizedText, error) {
	text, err := extract.FromDocx(artifact.Data)
	if err != nil {
		return NormalizedText{}, err
	}
	return NormalizedText{Text: text, Source: SourceDocx}, nil
}

func (n *Normalizer) fromImage(ctx context.Context, artifact UploadedArtifact) (NormalizedText, error) {
	text, err := n.transcriber.Transcribe(ctx, artifact.Data, artifact.MediaType)
	if err != nil {
		return NormalizedText{}, err
	}
	return NormalizedText{Text: text, Source: SourceImage}, nil
}
