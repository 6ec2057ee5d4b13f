package email

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (s *captureSender) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.err
}

func (s *captureSender) messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.sent))
	copy(out, s.sent)
	return out
}

func TestLocalQueueDeliversInOrder(t *testing.T) {
	sender := &captureSender{}
	queue := NewLocalQueue(sender)

	require.NoError(t, queue.Dispatch(Message{Subject: "first"}, 0))
	require.NoError(t, queue.Dispatch(Message{Subject: "second"}, 30*time.Second))

	queue.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, queue.Stop(ctx))

	sent := sender.messages()
	require.Len(t, sent, 2)
	assert.Equal(t, "first", sent[0].Subject)
	assert.Equal(t, "second", sent[1].Subject)
}

func TestLocalQueueDropsWhenFull(t *testing.T) {
	queue := NewLocalQueue(&captureSender{})

	var dropErr error
	for i := 0; i <= queueCapacity; i++ {
		dropErr = queue.Dispatch(Message{Subject: "overflow"}, 0)
	}
	assert.Error(t, dropErr)
}

func TestLocalQueueKeepsGoingAfterSendFailure(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp down")}
	queue := NewLocalQueue(sender)

	require.NoError(t, queue.Dispatch(Message{Subject: "doomed"}, 0))
	require.NoError(t, queue.Dispatch(Message{Subject: "also doomed"}, 0))

	queue.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, queue.Stop(ctx))

	// Failures are logged, not fatal; both jobs were attempted
	assert.Len(t, sender.messages(), 2)
}

func TestLocalQueueStopTwice(t *testing.T) {
	queue := NewLocalQueue(&captureSender{})
	queue.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, queue.Stop(ctx))
	require.NoError(t, queue.Stop(ctx))
}
