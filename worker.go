package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/careersynchrony/careerworker/internal/content"
	"github.com/careersynchrony/careerworker/internal/database"
	"github.com/careersynchrony/careerworker/internal/gateway"
	"github.com/careersynchrony/careerworker/internal/tasks"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/streadway/amqp"
)

// runTask dispatches one queued task message. The bool is false when the
// task's required inputs are not all present yet: not an error, the session
// just stays in a waiting state until the missing upload arrives.
func (workerConfig *WorkerConfig) runTask(ctx context.Context, msg TaskMessage) (tasks.Result, bool, error) {
	switch msg.Task {
	case tasks.KindChatTurn:
		return workerConfig.runChatTurn(ctx, msg)

	case tasks.KindAtsAnalysis:
		var builder tasks.AtsAnalysisBuilder
		ok, err := workerConfig.fillDocumentPair(ctx, msg.SessionID, builder.SetResume, builder.SetJobDescription)
		if err != nil || !ok {
			return tasks.Result{}, false, err
		}
		req, ok := builder.Build()
		if !ok {
			return tasks.Result{}, false, nil
		}
		req.Model = workerConfig.chatModel()
		res, err := tasks.Run(ctx, workerConfig.Gateway, req)
		return res, true, err

	case tasks.KindCoverLetter:
		builder := tasks.CoverLetterBuilder{
			CompanyName:   msg.CompanyName,
			HiringManager: msg.HiringManager,
		}
		ok, err := workerConfig.fillDocumentPair(ctx, msg.SessionID, builder.SetResume, builder.SetJobDescription)
		if err != nil || !ok {
			return tasks.Result{}, false, err
		}
		req, ok := builder.Build()
		if !ok {
			return tasks.Result{}, false, nil
		}
		req.Model = workerConfig.chatModel()
		res, err := tasks.Run(ctx, workerConfig.Gateway, req)
		return res, true, err

	case tasks.KindDayToDayAnalysis:
		var builder tasks.DayToDayBuilder
		if msg.Text != "" {
			builder.SetPastedText(msg.Text)
		} else {
			jd, ok, err := workerConfig.document(ctx, msg.SessionID, roleJobDescription)
			if err != nil {
				return tasks.Result{}, false, err
			}
			if ok {
				builder.SetJobDescription(jd)
			}
		}
		req, ok := builder.Build()
		if !ok {
			return tasks.Result{}, false, nil
		}
		req.Model = workerConfig.chatModel()
		res, err := tasks.Run(ctx, workerConfig.Gateway, req)
		return res, true, err

	case tasks.KindSpeechSynthesis:
		task := tasks.SpeechSynthesisTask{Text: msg.Text, Voice: gateway.Voice(msg.Voice)}
		res, err := task.Run(ctx, workerConfig.Gateway)
		if err != nil {
			return tasks.Result{}, true, err
		}
		key := fmt.Sprintf("speech/%s/%s.mp3", msg.SessionID, uuid.New())
		_, err = retry(3, func() (any, error) {
			return nil, workerConfig.Objects.Upload(ctx, key, res.Audio, "audio/mpeg")
		})
		if err != nil {
			return tasks.Result{}, true, fmt.Errorf("failed to store synthesized audio: %w", err)
		}
		res.AudioKey = key
		return res, true, nil

	case tasks.KindSpeechTranscription:
		audio, ok, err := workerConfig.audioArtifact(ctx, msg.SessionID)
		if err != nil || !ok {
			return tasks.Result{}, false, err
		}
		task := tasks.SpeechTranscriptionTask{Audio: audio, Model: workerConfig.chatModel()}
		res, err := task.Run(ctx, workerConfig.Gateway)
		return res, true, err

	default:
		return tasks.Result{}, true, fmt.Errorf("unknown task kind: %s", msg.Task)
	}
}

// runChatTurn streams the assistant reply, publishing each fragment as a
// session update as it arrives, and returns the assembled reply text.
func (workerConfig *WorkerConfig) runChatTurn(ctx context.Context, msg TaskMessage) (tasks.Result, bool, error) {
	if strings.TrimSpace(msg.Text) == "" {
		return tasks.Result{}, false, nil
	}
	session := workerConfig.chatSession(msg.SessionID)

	var reply strings.Builder
	for fragment, err := range session.Send(ctx, workerConfig.Gateway, msg.Text) {
		if err != nil {
			return tasks.Result{}, true, err
		}
		reply.WriteString(fragment)
		pubErr := workerConfig.Publisher.Publish(msg.SessionID.String(), map[string]any{
			"session_id": msg.SessionID,
			"status":     "streaming",
			"fragment":   fragment,
			"timestamp":  time.Now(),
		})
		if pubErr != nil {
			slog.Warn("failed to publish chat fragment", "error", pubErr)
		}
	}
	return tasks.Result{Kind: tasks.KindChatTurn, Text: reply.String()}, true, nil
}

// chatSession returns the session's conversation, creating it on first use.
// Each ConversationState is owned by its session; the lock only guards the
// registry map.
func (workerConfig *WorkerConfig) chatSession(id uuid.UUID) *tasks.ChatSession {
	workerConfig.mu.Lock()
	defer workerConfig.mu.Unlock()
	if workerConfig.chatSessions == nil {
		workerConfig.chatSessions = make(map[uuid.UUID]*tasks.ChatSession)
	}
	session, ok := workerConfig.chatSessions[id]
	if !ok {
		session = tasks.NewChatSession(workerConfig.chatModel())
		workerConfig.chatSessions[id] = session
	}
	return session
}

func (workerConfig *WorkerConfig) chatModel() string {
	if workerConfig.ChatModel != "" {
		return workerConfig.ChatModel
	}
	return tasks.ChatModel
}

// fillDocumentPair loads and normalizes the session's resume and job
// description uploads into the two setters. ok=false when either is missing.
func (workerConfig *WorkerConfig) fillDocumentPair(ctx context.Context, sessionID uuid.UUID, setResume, setJobDescription func(content.NormalizedText)) (bool, error) {
	resume, ok, err := workerConfig.document(ctx, sessionID, roleResume)
	if err != nil || !ok {
		return false, err
	}
	jd, ok, err := workerConfig.document(ctx, sessionID, roleJobDescription)
	if err != nil || !ok {
		return false, err
	}
	setResume(resume)
	setJobDescription(jd)
	return true, nil
}

// document downloads and normalizes the session's artifact with the given
// role. ok=false when no such artifact is uploaded yet.
func (workerConfig *WorkerConfig) document(ctx context.Context, sessionID uuid.UUID, role string) (content.NormalizedText, bool, error) {
	artifact, ok, err := workerConfig.artifact(ctx, sessionID, role)
	if err != nil || !ok {
		return content.NormalizedText{}, false, err
	}

	data, err := retry(3, func() ([]byte, error) {
		return workerConfig.Objects.Download(ctx, artifact.ObjectKey)
	})
	if err != nil {
		return content.NormalizedText{}, false, fmt.Errorf("file download error: %w", err)
	}

	normalized, err := workerConfig.Normalizer.Normalize(ctx, content.UploadedArtifact{
		Data:      data,
		MediaType: artifact.Mime,
		Name:      artifact.OriginalFilename,
	})
	if err != nil {
		return content.NormalizedText{}, false, err
	}
	return normalized, true, nil
}

// audioArtifact downloads the session's uploaded audio as raw bytes.
func (workerConfig *WorkerConfig) audioArtifact(ctx context.Context, sessionID uuid.UUID) ([]byte, bool, error) {
	artifact, ok, err := workerConfig.artifact(ctx, sessionID, roleAudio)
	if err != nil || !ok {
		return nil, false, err
	}
	data, err := retry(3, func() ([]byte, error) {
		return workerConfig.Objects.Download(ctx, artifact.ObjectKey)
	})
	if err != nil {
		return nil, false, fmt.Errorf("file download error: %w", err)
	}
	return data, true, nil
}

func (workerConfig *WorkerConfig) artifact(ctx context.Context, sessionID uuid.UUID, role string) (database.Artifact, bool, error) {
	artifacts, err := workerConfig.DB.GetArtifactsBySession(ctx, sessionID)
	if err != nil {
		return database.Artifact{}, false, fmt.Errorf("error getting artifacts for session %v: %w", sessionID, err)
	}
	for _, a := range artifacts {
		if a.Role == role {
			return a, true, nil
		}
	}
	return database.Artifact{}, false, nil
}

func (workerConfig *WorkerConfig) publishStatus(sessionID uuid.UUID, status, message string) {
	err := workerConfig.Publisher.Publish(sessionID.String(), map[string]any{
		"session_id": sessionID,
		"status":     status,
		"message":    message,
		"timestamp":  time.Now(),
	})
	if err != nil {
		slog.Warn("failed to publish update", "error", err)
	}
}

func (workerConfig *WorkerConfig) setStatus(ctx context.Context, sessionID uuid.UUID, status, message string) {
	if err := workerConfig.DB.UpdateSessionStatus(ctx, database.UpdateSessionStatusParams{
		Status: status,
		ID:     sessionID,
	}); err != nil {
		slog.Warn("failed to update session status", "session_id", sessionID, "status", status, "error", err)
	}
	workerConfig.publishStatus(sessionID, status, message)
}

func worker(id int, workerConfig *WorkerConfig, wg *sync.WaitGroup) {
	defer wg.Done()
	conn, err := amqp.Dial(workerConfig.RABBITMQUrl)
	if err != nil {
		slog.Error("error dialling rabbitmq", "error", err)
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		slog.Error("error opening rabbitmq channel", "error", err)
		return
	}
	defer ch.Close()
	_, err = ch.QueueDeclare(
		"tasks", // queue name
		true,    // durable (survives broker restarts)
		false,   // auto-delete when unused
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		slog.Error("failed to declare queue", "error", err)
		return
	}

	msgs, err := ch.Consume(
		"tasks", // queue name
		"",      // consumer tag
		true,    // auto-ack
		false,   // exclusive
		false,   // no-local
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		slog.Error("error consuming rabbitmq messages", "error", err)
		return
	}

	ctx := context.Background()
	for msg := range msgs {
		task := TaskMessage{}
		if err := json.Unmarshal(msg.Body, &task); err != nil {
			slog.Error("error unmarshalling task message", "error", err)
			workerConfig.setStatus(ctx, task.SessionID, "failed", "task failed")
			continue
		}
		slog.Info("processing task",
			"worker", id+1,
			"session_id", task.SessionID,
			"task", task.Task)
		workerConfig.setStatus(ctx, task.SessionID, "processing", "task started")

		result, fired, err := workerConfig.runTask(ctx, task)
		if err != nil {
			slog.Error("error running task",
				"session_id", task.SessionID,
				"task", task.Task,
				"error", err)
			workerConfig.setStatus(ctx, task.SessionID, "failed", "task failed")
			continue
		}
		if !fired {
			workerConfig.setStatus(ctx, task.SessionID, "waiting", "task waiting for inputs")
			continue
		}

		record, err := json.Marshal(recordFor(result))
		if err != nil {
			slog.Error("failed to marshal task result", "session_id", task.SessionID, "error", err)
			workerConfig.setStatus(ctx, task.SessionID, "failed", "task failed")
			continue
		}
		_, err = retry(3, func() (any, error) {
			return nil, workerConfig.DB.CreateOrUpdateTaskResult(ctx, database.CreateOrUpdateTaskResultParams{
				Task:      string(task.Task),
				Result:    record,
				SessionID: task.SessionID,
			})
		})
		if err != nil {
			slog.Error("failed to save task result after retries", "session_id", task.SessionID, "error", err)
			workerConfig.setStatus(ctx, task.SessionID, "failed", "task failed")
			continue
		}

		workerConfig.setStatus(ctx, task.SessionID, "completed", "task completed")
	}
}

func (workerConfig *WorkerConfig) StartConsumerWorkerPool(numWorkers int) {
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for i := range numWorkers {
		slog.Info("worker started", "worker", i+1)
		go worker(i, workerConfig, &wg)
	}
	wg.Wait() // block until all workers finish
}
