package email

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/zachm/hooprun/internal/pkg/logger"
)

const queueCapacity = 256

// LocalQueue delivers email jobs from an in-process FIFO, paced to one
// message per second. Used outside production where no external queue
// exists. Delays passed to Dispatch are ignored; the pacing alone keeps
// the provider happy.
type LocalQueue struct {
	sender  Sender
	jobs    chan Message
	limiter *rate.Limiter

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

// NewLocalQueue creates a stopped queue around the given sender
func NewLocalQueue(sender Sender) *LocalQueue {
	return &LocalQueue{
		sender:  sender,
		jobs:    make(chan Message, queueCapacity),
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		done:    make(chan struct{}),
	}
}

// Start launches the worker goroutine. Safe to call more than once.
func (q *LocalQueue) Start() {
	q.startOnce.Do(func() {
		go q.run()
	})
}

// Stop closes the queue and waits for queued jobs to drain, bounded by ctx
func (q *LocalQueue) Stop(ctx context.Context) error {
	q.stopOnce.Do(func() {
		close(q.jobs)
	})
	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispatch enqueues a job without blocking. A full queue drops the job
// with an error rather than stalling the request path.
func (q *LocalQueue) Dispatch(msg Message, _ time.Duration) error {
	select {
	case q.jobs <- msg:
		return nil
	default:
		return fmt.Errorf("email queue full, dropping message %q", msg.Subject)
	}
}

func (q *LocalQueue) run() {
	defer close(q.done)
	for msg := range q.jobs {
		if err := q.limiter.Wait(context.Background()); err != nil {
			return
		}
		if err := q.sender.Send(context.Background(), msg); err != nil {
			logger.Error().Err(err).Str("subject", msg.Subject).Msg("Failed to send queued email")
		}
	}
}
