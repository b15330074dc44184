// Package audit writes every answered exchange to a durable log off the
// request path. Appends go into a bounded queue drained by one goroutine;
// when the queue is full the oldest pending entry is dropped.
package audit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/saboothailand/support-bot/internal/domain"
	"github.com/saboothailand/support-bot/internal/observability"
)

// ErrClosed is returned by Close when called twice.
var ErrClosed = errors.New("audit: logger closed")

const DefaultQueueSize = 256

// Sink persists one record.
type Sink interface {
	Write(ctx context.Context, rec *domain.AuditRecord) error
}

// Logger is the asynchronous front of a Sink.
type Logger struct {
	sink  Sink
	log   zerolog.Logger
	queue chan *domain.AuditRecord
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

// New starts the drain goroutine. size <= 0 uses DefaultQueueSize.
func New(sink Sink, size int, lg zerolog.Logger) *Logger {
	if size <= 0 {
		size = DefaultQueueSize
	}
	l := &Logger{
		sink:  sink,
		log:   lg.With().Str("component", "audit").Logger(),
		queue: make(chan *domain.AuditRecord, size),
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

// Append queues rec without blocking. Records appended after Close are
// discarded.
func (l *Logger) Append(rec domain.AuditRecord) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return
	}
	for {
		select {
		case l.queue <- &rec:
			return
		default:
		}
		select {
		case <-l.queue:
			observability.AuditDropped.Inc()
		default:
		}
	}
}

func (l *Logger) run() {
	defer close(l.done)
	for rec := range l.queue {
		if err := l.sink.Write(context.Background(), rec); err != nil {
			l.log.Error().Err(err).Str("user_id", rec.UserID).Msg("audit write failed")
		}
	}
}

// Close stops accepting records and waits until the queue is drained or ctx
// is done.
func (l *Logger) Close(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.closed = true
	close(l.queue)
	l.mu.Unlock()

	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
