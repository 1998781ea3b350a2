package audit

import (
	"context"
	"time"

	"fraudscreen/pkg/requestcontext"
)

// Publisher enriches events with request metadata and appends them to a store.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	return p.store.Append(ctx, Enrich(ctx, event))
}

// Enrich fills request-scoped fields the caller left empty.
func Enrich(ctx context.Context, event Event) Event {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.AuditorID == "" {
		event.AuditorID = requestcontext.AuditorID(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.Client == "" {
		event.Client = DescribeClient(requestcontext.UserAgent(ctx))
	}
	return event
}
