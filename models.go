package main

import (
	"context"
	"sync"

	"github.com/careersynchrony/careerworker/internal/content"
	"github.com/careersynchrony/careerworker/internal/database"
	"github.com/careersynchrony/careerworker/internal/gateway"
	"github.com/careersynchrony/careerworker/internal/tasks"
	"github.com/google/uuid"
)

type R2Config struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
}

// TaskStore is the persistence surface the worker needs.
type TaskStore interface {
	GetArtifactsBySession(ctx context.Context, sessionID uuid.UUID) ([]database.Artifact, error)
	UpdateSessionStatus(ctx context.Context, arg database.UpdateSessionStatusParams) error
	CreateOrUpdateTaskResult(ctx context.Context, arg database.CreateOrUpdateTaskResultParams) error
}

// ObjectStore moves artifact bytes in and out of object storage.
type ObjectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}

// StatusPublisher fans session progress updates out to listeners.
type StatusPublisher interface {
	Publish(sessionID string, update map[string]any) error
}

type WorkerConfig struct {
	DB          TaskStore
	Objects     ObjectStore
	Publisher   StatusPublisher
	Gateway     gateway.Gateway
	Normalizer  *content.Normalizer
	RABBITMQUrl string
	// ChatModel is the completion model for every text task; tasks.ChatModel
	// when empty. Must name a model the configured provider serves.
	ChatModel string

	mu           sync.Mutex
	chatSessions map[uuid.UUID]*tasks.ChatSession
}

// TaskMessage is the queue envelope for one requested task. Document inputs
// are referenced indirectly through the session's uploaded artifacts; small
// direct inputs (pasted text, chat prompts, synthesis text) travel inline.
type TaskMessage struct {
	SessionID     uuid.UUID  `json:"session_id"`
	Task          tasks.Kind `json:"task"`
	CompanyName   string     `json:"company_name,omitempty"`
	HiringManager string     `json:"hiring_manager,omitempty"`
	Voice         string     `json:"voice,omitempty"`
	Text          string     `json:"text,omitempty"`
}

// Artifact roles assigned at the upload boundary.
const (
	roleResume         = "resume"
	roleJobDescription = "job_description"
	roleAudio          = "audio"
)

// taskResultRecord is the persisted view of a task result. Synthesized audio
// stays in object storage; only its key is recorded.
type taskResultRecord struct {
	Kind             tasks.Kind `json:"kind"`
	Text             string     `json:"text,omitempty"`
	AudioKey         string     `json:"audio_key,omitempty"`
	Transcript       string     `json:"transcript,omitempty"`
	Suggestions      string     `json:"suggestions,omitempty"`
	DownloadFilename string     `json:"download_filename,omitempty"`
	DownloadMime     string     `json:"download_mime,omitempty"`
}

func recordFor(res tasks.Result) taskResultRecord {
	rec := taskResultRecord{
		Kind:        res.Kind,
		Text:        res.Text,
		AudioKey:    res.AudioKey,
		Transcript:  res.Transcript,
		Suggestions: res.Suggestions,
	}
	if res.Download != nil {
		rec.DownloadFilename = res.Download.Filename
		rec.DownloadMime = res.Download.MIME
	}
	return rec
}
