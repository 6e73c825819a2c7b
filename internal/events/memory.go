package events

import (
	"context"
	"sync"
)

// MemoryBus delivers events in-process. It is used when no Redis is configured.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]func(Event)
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{handlers: make(map[string][]func(Event))}
}

func (b *MemoryBus) Publish(_ context.Context, stream string, event Event) error {
	b.mu.RLock()
	hs := append([](func(Event))(nil), b.handlers[stream]...)
	b.mu.RUnlock()

	for _, h := range hs {
		h(event)
	}
	return nil
}

// Subscribe registers handler until ctx is done.
func (b *MemoryBus) Subscribe(ctx context.Context, stream string, handler func(Event)) error {
	b.mu.Lock()
	b.handlers[stream] = append(b.handlers[stream], handler)
	idx := len(b.handlers[stream]) - 1
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		hs := b.handlers[stream]
		if idx < len(hs) {
			hs[idx] = func(Event) {}
		}
	}()
	return nil
}
