package audit

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// AsyncPublisher queues events in memory and appends them to the store from a
// background worker, so a slow sink never delays a screening response. When
// the queue is full new events are dropped and counted.
type AsyncPublisher struct {
	store   Store
	inbox   chan Event
	logger  *slog.Logger
	dropped atomic.Int64
	done    chan struct{}
}

func NewAsyncPublisher(store Store, capacity int, logger *slog.Logger) *AsyncPublisher {
	if capacity <= 0 {
		capacity = 1024
	}
	return &AsyncPublisher{
		store:  store,
		inbox:  make(chan Event, capacity),
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Emit enriches and enqueues the event. It never blocks.
func (p *AsyncPublisher) Emit(ctx context.Context, event Event) error {
	select {
	case p.inbox <- Enrich(ctx, event):
	default:
		p.dropped.Add(1)
		p.logger.WarnContext(ctx, "audit queue full, dropping event",
			"action", event.Action,
			"report_id", event.ReportID,
		)
	}
	return nil
}

// Dropped returns how many events were dropped on a full queue.
func (p *AsyncPublisher) Dropped() int64 {
	return p.dropped.Load()
}

// Run drains the queue until ctx is cancelled, then flushes what is left using
// a detached context. Sink errors are logged and the event is skipped.
func (p *AsyncPublisher) Run(ctx context.Context) error {
	defer close(p.done)
	for {
		select {
		case <-ctx.Done():
			p.flush(context.WithoutCancel(ctx))
			return ctx.Err()
		case event := <-p.inbox:
			p.append(ctx, event)
		}
	}
}

// Wait blocks until Run has returned.
func (p *AsyncPublisher) Wait() {
	<-p.done
}

func (p *AsyncPublisher) flush(ctx context.Context) {
	for {
		select {
		case event := <-p.inbox:
			p.append(ctx, event)
		default:
			return
		}
	}
}

func (p *AsyncPublisher) append(ctx context.Context, event Event) {
	if err := p.store.Append(ctx, event); err != nil {
		p.logger.ErrorContext(ctx, "failed to append audit event",
			"error", err,
			"action", event.Action,
			"report_id", event.ReportID,
		)
	}
}
