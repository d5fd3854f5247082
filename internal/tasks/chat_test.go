package tasks

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/careersynchrony/careerworker/internal/gateway"
	"github.com/careersynchrony/careerworker/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func consume(t *testing.T, stream gateway.Stream) string {
	t.Helper()
	var out string
	for fragment, err := range stream {
		require.NoError(t, err)
		out += fragment
	}
	return out
}

func TestChatSessionStreamsAndAppendsHistory(t *testing.T) {
	gw := new(mocks.MockModelGateway)
	gw.On("StreamChat", mock.Anything, ChatModel, mock.Anything).
		Return(mocks.FragmentStream([]string{"Hello ", "there"}, nil))
	session := NewChatSession(ChatModel)

	reply := consume(t, session.Send(context.Background(), gw, "what can you do?"))

	assert.Equal(t, "Hello there", reply)
	history := session.History()
	require.Len(t, history, 2)
	assert.Equal(t, gateway.RoleUser, history[0].Role)
	assert.Equal(t, "what can you do?", history[0].Content)
	assert.Equal(t, gateway.RoleAssistant, history[1].Role)
	assert.Equal(t, "Hello there", history[1].Content)
}

func TestChatSessionReplaysFullWrappedHistory(t *testing.T) {
	gw := new(mocks.MockModelGateway)
	gw.On("StreamChat", mock.Anything, ChatModel, mock.Anything).
		Return(mocks.FragmentStream([]string{"A1"}, nil)).Once()
	gw.On("StreamChat", mock.Anything, ChatModel, mock.Anything).
		Return(mocks.FragmentStream([]string{"A2"}, nil)).Once()
	session := NewChatSession(ChatModel)

	consume(t, session.Send(context.Background(), gw, "U1"))
	consume(t, session.Send(context.Background(), gw, "U2"))

	// second outbound request replays all three turns, each rewrapped with
	// the preamble and its originating user prompt
	msgs := gw.Calls[1].Arguments.Get(2).([]gateway.Message)
	require.Len(t, msgs, 3)

	assert.Equal(t, gateway.RoleUser, msgs[0].Role)
	assert.Equal(t, wrapPrompt("U1"), msgs[0].Content)
	assert.Equal(t, gateway.RoleAssistant, msgs[1].Role)
	assert.Equal(t, wrapPrompt("U1"), msgs[1].Content)
	assert.Equal(t, gateway.RoleUser, msgs[2].Role)
	assert.Equal(t, wrapPrompt("U2"), msgs[2].Content)

	for _, m := range msgs {
		assert.Contains(t, m.Content, "careersynchrony")
		assert.Contains(t, m.Content, "USER QUERY: ")
	}
}

func TestChatSessionStateMachine(t *testing.T) {
	gw := new(mocks.MockModelGateway)
	session := NewChatSession(ChatModel)

	var stateAtDispatch ChatState
	gw.On("StreamChat", mock.Anything, ChatModel, mock.Anything).
		Run(func(mock.Arguments) { stateAtDispatch = session.State() }).
		Return(mocks.FragmentStream([]string{"one", "two"}, nil))
	assert.Equal(t, StateIdle, session.State())

	stream := session.Send(context.Background(), gw, "hi")
	// nothing runs until the stream is pulled
	assert.Equal(t, StateIdle, session.State())
	require.Empty(t, session.History())

	for _, err := range stream {
		require.NoError(t, err)
		assert.Equal(t, StateStreaming, session.State())
	}
	assert.Equal(t, StateAwaitingResponse, stateAtDispatch)
	assert.Equal(t, StateIdle, session.State())
}

func TestChatSessionConcurrentSendsSerialize(t *testing.T) {
	gw := new(mocks.MockModelGateway)
	gw.On("StreamChat", mock.Anything, ChatModel, mock.Anything).
		Return(mocks.FragmentStream([]string{"reply"}, nil))
	session := NewChatSession(ChatModel)

	var wg sync.WaitGroup
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, err := range session.Send(context.Background(), gw, fmt.Sprintf("turn %d", i)) {
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	// the two turns ran back to back, never interleaved
	history := session.History()
	require.Len(t, history, 4)
	for i, turn := range history {
		want := gateway.RoleUser
		if i%2 == 1 {
			want = gateway.RoleAssistant
		}
		assert.Equal(t, want, turn.Role)
	}
	assert.Equal(t, StateIdle, session.State())
}

func TestChatSessionGatewayFault(t *testing.T) {
	streamErr := fmt.Errorf("%w: boom", gateway.ErrModelCallFailed)
	gw := new(mocks.MockModelGateway)
	gw.On("StreamChat", mock.Anything, ChatModel, mock.Anything).
		Return(mocks.FragmentStream(nil, streamErr))
	session := NewChatSession(ChatModel)

	var got error
	for _, err := range session.Send(context.Background(), gw, "hi") {
		got = err
	}

	require.ErrorIs(t, got, gateway.ErrModelCallFailed)
	assert.Equal(t, StateIdle, session.State())
	// no assistant turn is recorded for a failed reply
	require.Len(t, session.History(), 1)
	assert.Equal(t, gateway.RoleUser, session.History()[0].Role)
}
