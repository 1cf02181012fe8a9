package queue

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kuroneko-hornet/homeworks/internal/api/metrics"
	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
	"github.com/kuroneko-hornet/homeworks/internal/core/ports"
)

const channelBuffer = 256

// Broker fans change events out to subscribers. Every subscription owns one
// buffered channel and one goroutine, so its callback sees events in publish
// order and is never invoked concurrently with itself.
type Broker struct {
	mu     sync.RWMutex
	subs   map[uint64]*subscription
	nextID uint64
	closed bool
	log    zerolog.Logger
}

type subscription struct {
	filter ports.EventFilter
	fn     func(domain.ChangeEvent)
	ch     chan domain.ChangeEvent
	done   chan struct{}
	once   sync.Once
}

// NewBroker returns an empty Broker ready for use.
func NewBroker(log zerolog.Logger) *Broker {
	return &Broker{
		subs: make(map[uint64]*subscription),
		log:  log,
	}
}

// Subscribe registers fn for events accepted by filter (nil accepts all).
// The returned func cancels the subscription; it is safe to call more than
// once and from inside fn.
func (b *Broker) Subscribe(filter ports.EventFilter, fn func(domain.ChangeEvent)) func() {
	sub := &subscription{
		filter: filter,
		fn:     fn,
		ch:     make(chan domain.ChangeEvent, channelBuffer),
		done:   make(chan struct{}),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.mu.Unlock()

	go b.run(sub)

	return func() { b.unsubscribe(id) }
}

// Publish enqueues ev for every matching subscriber without blocking. A
// subscriber whose queue is full misses the event.
func (b *Broker) Publish(ev domain.ChangeEvent) {
	metrics.EventsPublishedTotal.WithLabelValues(string(ev.Type)).Inc()

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs {
		if sub.filter != nil && !sub.filter(ev) {
			continue
		}
		select {
		case sub.ch <- ev:
			metrics.EventsQueueDepth.Inc()
		default:
			metrics.EventsDroppedTotal.Inc()
			b.log.Warn().Str("type", string(ev.Type)).Msg("subscriber queue full, event dropped")
		}
	}
}

// Run blocks until ctx is cancelled, then closes every subscription.
func (b *Broker) Run(ctx context.Context) error {
	<-ctx.Done()
	b.Close()
	return nil
}

// Close cancels all subscriptions. Later Subscribe calls return a no-op.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		sub.stop()
	}
}

func (b *Broker) unsubscribe(id uint64) {
	b.mu.Lock()
	sub, ok := b.subs[id]
	delete(b.subs, id)
	b.mu.Unlock()
	if ok {
		sub.stop()
	}
}

func (s *subscription) stop() {
	s.once.Do(func() { close(s.done) })
}

func (b *Broker) run(sub *subscription) {
	for {
		select {
		case <-sub.done:
			b.drain(sub)
			return
		case ev := <-sub.ch:
			metrics.EventsQueueDepth.Dec()
			select {
			case <-sub.done:
				b.drain(sub)
				return
			default:
			}
			b.deliver(sub, ev)
		}
	}
}

func (b *Broker) deliver(sub *subscription, ev domain.ChangeEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Str("type", string(ev.Type)).Msg("subscriber panicked")
		}
	}()
	sub.fn(ev)
}

// drain discards events still buffered for a cancelled subscription.
func (b *Broker) drain(sub *subscription) {
	for {
		select {
		case <-sub.ch:
			metrics.EventsQueueDepth.Dec()
		default:
			return
		}
	}
}
