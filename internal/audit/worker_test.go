package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type failingStore struct {
	mu    sync.Mutex
	calls int
}

func (s *failingStore) Append(context.Context, Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return errors.New("sink down")
}

func TestAsyncPublisherDeliversAndFlushes(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewAsyncPublisher(store, 8, discardLogger)

	for i := range 5 {
		require.NoError(t, pub.Emit(context.Background(), Event{Action: ActionBatchScreened, Total: i}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = pub.Run(ctx) }()
	cancel()
	pub.Wait()

	events, err := store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 5)
	assert.Zero(t, pub.Dropped())
}

func TestAsyncPublisherDropsWhenFull(t *testing.T) {
	pub := NewAsyncPublisher(NewInMemoryStore(), 2, discardLogger)
	for range 5 {
		require.NoError(t, pub.Emit(context.Background(), Event{Action: ActionBatchScreened}))
	}
	assert.Equal(t, int64(3), pub.Dropped())
}

func TestAsyncPublisherSurvivesSinkErrors(t *testing.T) {
	store := &failingStore{}
	pub := NewAsyncPublisher(store, 4, discardLogger)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = pub.Run(ctx) }()

	require.NoError(t, pub.Emit(ctx, Event{Action: ActionBatchScreened}))
	require.NoError(t, pub.Emit(ctx, Event{Action: ActionBatchScreened}))

	assert.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.calls == 2
	}, time.Second, 5*time.Millisecond)
	cancel()
	pub.Wait()
}
