// Package eventbus provides an in-memory, asynchronous event bus.
// Events are dispatched through a buffered channel and processed by a worker pool.
package eventbus

import (
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultWorkers    = 2
	defaultBufferSize = 100
)

// EventBus publishes events to every subscribed listener.
type EventBus interface {
	// Publish enqueues an event with the given type and payload.
	// It never blocks: if the buffer is full, the event is dropped and a warning is logged.
	Publish(eventType string, payload map[string]string)

	// Subscribe registers a listener that will be called for every published event.
	// Subscribe must be called before the first Publish.
	Subscribe(listener Listener)

	// Close stops accepting new events and waits for all pending events to be processed.
	Close()
}

type inMemoryBus struct {
	ch        chan Event
	listeners []Listener
	mu        sync.RWMutex
	wg        sync.WaitGroup
	closeOnce sync.Once
	closed    chan struct{}
	workers   int
	logger    *slog.Logger
}

// New creates an in-memory EventBus with the given number of workers.
// If workers is <= 0, defaultWorkers is used. A nil logger falls back to slog.Default().
func New(workers int, logger *slog.Logger) EventBus {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	b := &inMemoryBus{
		ch:      make(chan Event, defaultBufferSize),
		closed:  make(chan struct{}),
		workers: workers,
		logger:  logger,
	}
	b.startWorkers()
	return b
}

func (b *inMemoryBus) startWorkers() {
	for i := 0; i < b.workers; i++ {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			for e := range b.ch {
				b.dispatch(e)
			}
		}()
	}
}

// dispatch calls every listener with panic recovery so one bad listener
// does not affect the others.
func (b *inMemoryBus) dispatch(e Event) {
	b.mu.RLock()
	listeners := make([]Listener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.RUnlock()

	for _, l := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("eventbus: listener panicked",
						slog.String("event", e.Type),
						slog.Any("panic", r),
					)
				}
			}()
			l(e)
		}()
	}
}

func (b *inMemoryBus) Publish(eventType string, payload map[string]string) {
	// Listeners run later on other goroutines; the caller may reuse payload.
	e := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   maps.Clone(payload),
	}

	// Holding the read lock keeps Close from closing the channel mid-send.
	b.mu.RLock()
	defer b.mu.RUnlock()

	select {
	case <-b.closed:
		b.logger.Warn("eventbus: publish after close, dropping event", slog.String("event", eventType))
		return
	default:
	}

	select {
	case b.ch <- e:
	default:
		b.logger.Warn("eventbus: buffer full, dropping event", slog.String("event", eventType))
	}
}

func (b *inMemoryBus) Subscribe(listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, listener)
}

// Close drains and closes the event channel, then waits for all workers to
// finish. Calling it more than once is safe.
func (b *inMemoryBus) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		close(b.closed)
		close(b.ch)
		b.mu.Unlock()
	})
	b.wg.Wait()
}
