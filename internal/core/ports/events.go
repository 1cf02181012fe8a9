package ports

import "github.com/kuroneko-hornet/homeworks/internal/core/domain"

// EventPublisher fans change events out to live subscribers. Publish never blocks.
type EventPublisher interface {
	Publish(ev domain.ChangeEvent)
}

// EventFilter selects which events a subscription receives. Nil means all.
type EventFilter func(domain.ChangeEvent) bool

// EventBus is an EventPublisher that also accepts subscriptions.
type EventBus interface {
	EventPublisher
	Subscribe(filter EventFilter, fn func(domain.ChangeEvent)) (unsubscribe func())
}
