package events

import (
	"fmt"
	"log/slog"
)

// Emitter is the sink services publish domain events to.
type Emitter interface {
	Publish(event *DomainEvent)
}

// Subscriber receives events from the dispatcher. Delivery guarantees beyond
// "synchronous, in order, once per publish" are the subscriber's own concern.
type Subscriber interface {
	HandleEvent(event *DomainEvent)
}

// Dispatcher fans events out to subscribers in registration order. A failing
// subscriber never prevents the remaining subscribers from seeing the event.
type Dispatcher struct {
	subscribers []Subscriber
	logger      *slog.Logger
}

func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		logger: logger,
	}
}

// Subscribe registers a subscriber. Subscribers are registered during
// startup wiring, before any publish happens; no locking is needed.
func (d *Dispatcher) Subscribe(subscriber Subscriber) {
	d.subscribers = append(d.subscribers, subscriber)
}

func (d *Dispatcher) Publish(event *DomainEvent) {
	for _, subscriber := range d.subscribers {
		d.deliver(subscriber, event)
	}
}

func (d *Dispatcher) deliver(subscriber Subscriber, event *DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("event subscriber panicked",
				"kind", event.Kind,
				"eventId", event.ID,
				"panic", fmt.Sprintf("%v", r),
			)
		}
	}()

	subscriber.HandleEvent(event)
}
