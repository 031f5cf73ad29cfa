// Package events carries pipeline lifecycle events from the
// orchestrator to whoever wants to watch: the verbose CLI output, or
// tests asserting on run shape. Publishing never blocks; a subscriber
// that stops draining loses events, not the publisher.
package events

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const defaultBufferSize = 64

// Bus distributes events to subscribers.
type Bus interface {
	// Publish sends event to all matching subscribers without
	// blocking. It errors only when the bus is closed.
	Publish(ctx context.Context, event Event) error

	// Subscribe registers a subscriber. The cleanup function must be
	// called to release the subscription; bufferSize <= 0 uses the
	// default.
	Subscribe(ctx context.Context, filter Filter, bufferSize int) (<-chan Event, func())

	// Close shuts the bus down and closes all subscriber channels.
	Close() error
}

type subscription struct {
	id      uint64
	ch      chan Event
	filter  Filter
	ctx     context.Context
	cancel  context.CancelFunc
	dropped atomic.Int64
}

// DefaultBus is the channel-backed Bus implementation.
type DefaultBus struct {
	mu          sync.RWMutex
	subscribers map[uint64]*subscription
	nextID      uint64
	closed      bool
}

// NewBus creates an empty DefaultBus.
func NewBus() *DefaultBus {
	return &DefaultBus{subscribers: make(map[uint64]*subscription)}
}

func (b *DefaultBus) Publish(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return fmt.Errorf("event bus is closed")
	}

	for _, sub := range b.subscribers {
		select {
		case <-sub.ctx.Done():
			continue
		default:
		}

		if !sub.filter.Matches(event) {
			continue
		}

		select {
		case sub.ch <- event:
		default:
			sub.dropped.Add(1)
		}
	}
	return nil
}

func (b *DefaultBus) Subscribe(ctx context.Context, filter Filter, bufferSize int) (<-chan Event, func()) {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{
		id:     b.nextID,
		ch:     make(chan Event, bufferSize),
		filter: filter,
		ctx:    subCtx,
		cancel: cancel,
	}
	b.subscribers[sub.id] = sub

	return sub.ch, func() { b.unsubscribe(sub.id) }
}

func (b *DefaultBus) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subscribers[id]
	if !ok {
		return
	}
	sub.cancel()
	close(sub.ch)
	delete(b.subscribers, id)
}

// Close is idempotent.
func (b *DefaultBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for id, sub := range b.subscribers {
		sub.cancel()
		close(sub.ch)
		delete(b.subscribers, id)
	}
	return nil
}

// SubscriberCount reports active subscriptions.
func (b *DefaultBus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

var _ Bus = (*DefaultBus)(nil)
