package events

import "log/slog"

// Handler receives every published event.
type Handler func(Event)

// Bus is a synchronous publish/subscribe hub. Publish runs every handler
// to completion, in subscription order, before returning. The engine is
// single-threaded and cooperative, so no locking is needed beyond that
// discipline.
type Bus struct {
	handlers []Handler
	logger   *slog.Logger
}

// NewBus creates an event bus.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{logger: logger}
}

// Subscribe registers a handler for all events.
func (b *Bus) Subscribe(h Handler) {
	b.handlers = append(b.handlers, h)
}

// Publish delivers an event to every subscriber.
func (b *Bus) Publish(e Event) {
	if b.logger != nil {
		b.logger.Debug("event published", "type", string(e.EventType()))
	}
	for _, h := range b.handlers {
		h(e)
	}
}
