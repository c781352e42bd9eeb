package broker

import (
	"sync"

	"conveyor/pkg/events"
	"conveyor/pkg/util/context"
)

const (
	// InMemoryType Broker type in-memory, for local runs and tests.
	InMemoryType Type = "inmemory"
)

func init() {
	f := func(ctx context.Context, c interface{}) (Broker, error) {
		return NewInMemoryBroker(), nil
	}
	register(InMemoryType, f, &struct{}{})
}

// InMemory is a Broker keeping published events in memory.
type InMemory struct {
	mu     sync.Mutex
	events []events.Event
}

// NewInMemoryBroker returns a new in-memory broker.
func NewInMemoryBroker() *InMemory {
	return &InMemory{}
}

// Publish records the event.
func (b *InMemory) Publish(ctx context.Context, evt events.Event, qname string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, evt)
	return nil
}

// Events returns a copy of all events published so far.
func (b *InMemory) Events() []events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	res := make([]events.Event, len(b.events))
	copy(res, b.events)
	return res
}

// Close is a no-op.
func (b *InMemory) Close() error {
	return nil
}
