package tasks

import (
	"context"
	"strings"
	"sync"

	"github.com/careersynchrony/careerworker/internal/gateway"
)

// chatPreamble is the platform identity prepended to every outbound chat
// turn.
const chatPreamble = `You are developed by the devs of careersynchrony and you are a chatbot that can help users with our website.
here is what the features of our website are:
careersynchrony is an AI-powered career development platform designed to help students, job seekers, and organizations optimize resumes and prepare for interviews. It offers an AI-driven resume builder with ATS compliance checking, job description parsing, and skill gap analysis. The platform features customizable mock interview sessions with real-time feedback, transcription, and video analysis to enhance interview performance. Progress tracking tools allow users and management teams to monitor career development milestones, while customizable dashboards provide insights into performance and progress. Built with a multi-tenant, white-label architecture, careersynchrony can be tailored for institutions or enterprises, offering seamless integrations and scalable solutions.`

// ChatState is the per-session request lifecycle.
type ChatState int

const (
	StateIdle ChatState = iota
	StateAwaitingResponse
	StateStreaming
)

// Turn is one conversation entry. prompt holds the user text that produced
// the turn; assistant turns carry the prompt that elicited them, because the
// full history is replayed with every turn rewrapped around its prompt.
type Turn struct {
	Role    string
	Content string

	prompt string
}

// ChatSession owns one conversation. History is append-only: the latest user
// turn and the latest assistant turn are appended, nothing is rewritten. The
// whole preamble-wrapped history is resubmitted on every turn, so request
// size grows linearly with the conversation.
//
// Sessions are safe for concurrent use: sendMu serializes whole turns, so two
// sends for the same session run back to back and cannot interleave their
// history appends.
type ChatSession struct {
	sendMu sync.Mutex // held across a full send, append to append
	mu     sync.Mutex // guards state and turns
	state  ChatState
	turns  []Turn
	model  string
}

func NewChatSession(model string) *ChatSession {
	return &ChatSession{model: model}
}

// State returns the current lifecycle state.
func (s *ChatSession) State() ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// History returns a copy of the conversation turns in order.
func (s *ChatSession) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Turn(nil), s.turns...)
}

func (s *ChatSession) setState(state ChatState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *ChatSession) appendTurn(turn Turn) {
	s.mu.Lock()
	s.turns = append(s.turns, turn)
	s.mu.Unlock()
}

func wrapPrompt(userText string) string {
	return chatPreamble + "\n" + "USER QUERY: " + userText
}

// OutboundMessages is the message list resubmitted to the model: every
// historical turn, assistant replies included, wrapped as
// preamble + "\nUSER QUERY: " + its originating user prompt.
func (s *ChatSession) OutboundMessages() []gateway.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := make([]gateway.Message, 0, len(s.turns))
	for _, t := range s.turns {
		msgs = append(msgs, gateway.Message{Role: t.Role, Content: wrapPrompt(t.prompt)})
	}
	return msgs
}

// Send returns the reply to userText as a fragment stream. Nothing happens
// until the stream is pulled: the first pull appends the user turn, replays
// the full history to the model, and starts streaming, so a dropped stream
// leaves the session idle and untouched. The assistant turn is appended as
// the stream completes; on a gateway fault the session returns to idle and
// the error is the stream's final element.
func (s *ChatSession) Send(ctx context.Context, gw gateway.Gateway, userText string) gateway.Stream {
	return func(yield func(string, error) bool) {
		s.sendMu.Lock()
		defer s.sendMu.Unlock()

		s.setState(StateAwaitingResponse)
		s.appendTurn(Turn{Role: gateway.RoleUser, Content: userText, prompt: userText})
		stream := gw.StreamChat(ctx, s.model, s.OutboundMessages())

		var reply strings.Builder
		for fragment, err := range stream {
			if err != nil {
				s.setState(StateIdle)
				yield("", err)
				return
			}
			s.setState(StateStreaming)
			reply.WriteString(fragment)
			if !yield(fragment, nil) {
				break
			}
		}
		s.appendTurn(Turn{Role: gateway.RoleAssistant, Content: reply.String(), prompt: userText})
		s.setState(StateIdle)
	}
}
