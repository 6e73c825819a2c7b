package loader

import (
	"context"
	"sync"

	"github.com/influencer-marketplace/webclient/internal/api"
)

type Options[T any] struct {
	ID        string
	AutoFetch bool
	OnChange  func(State[T])
}

// Entity tracks a single remote entity addressed by id.
type Entity[T any] struct {
	*Resource[T]

	fetch    func(ctx context.Context, id string) (T, error)
	fallback string

	mu        sync.Mutex
	id        string
	autoFetch bool
}

func NewEntity[T any](fetch func(ctx context.Context, id string) (T, error), fallback string, opts Options[T]) *Entity[T] {
	return &Entity[T]{
		Resource:  NewResource(opts.OnChange),
		fetch:     fetch,
		fallback:  fallback,
		id:        opts.ID,
		autoFetch: opts.AutoFetch,
	}
}

func (e *Entity[T]) ID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.id
}

func (e *Entity[T]) remember(id string) {
	if id == "" {
		return
	}
	e.mu.Lock()
	e.id = id
	e.mu.Unlock()
}

// Start performs the initial fetch when auto-fetch is on and an id is known.
func (e *Entity[T]) Start(ctx context.Context) error {
	e.mu.Lock()
	id, auto := e.id, e.autoFetch
	e.mu.Unlock()

	if !auto || id == "" {
		return nil
	}
	_, err := e.Fetch(ctx, id)
	return err
}

// SetID switches the tracked entity and re-fetches when auto-fetch is on.
func (e *Entity[T]) SetID(ctx context.Context, id string) error {
	e.mu.Lock()
	changed := e.id != id
	e.id = id
	auto := e.autoFetch
	e.mu.Unlock()

	if !changed || !auto || id == "" {
		return nil
	}
	_, err := e.Fetch(ctx, id)
	return err
}

func (e *Entity[T]) Fetch(ctx context.Context, id string) (T, error) {
	if id == "" {
		var zero T
		return zero, api.Validation("Missing id")
	}
	e.remember(id)

	return run(ctx, e.Resource, true, e.fallback,
		func(ctx context.Context) (T, error) { return e.fetch(ctx, id) },
		func(s *State[T], v T) {
			s.Data = v
			s.HasData = true
		})
}

// Refetch re-runs Fetch with the last known id; without one it does nothing.
func (e *Entity[T]) Refetch(ctx context.Context) (T, error) {
	id := e.ID()
	if id == "" {
		var zero T
		return zero, nil
	}
	return e.Fetch(ctx, id)
}

// Mutate runs a create/update call; its result becomes the current entity. The error is recorded and returned.
func (e *Entity[T]) Mutate(ctx context.Context, fallback string, call func(ctx context.Context) (T, error)) (T, error) {
	return run(ctx, e.Resource, false, fallback, call, func(s *State[T], v T) {
		s.Data = v
		s.HasData = true
	})
}

// Remove runs a delete call and clears the entity on success.
func (e *Entity[T]) Remove(ctx context.Context, fallback string, call func(ctx context.Context) error) error {
	_, err := run(ctx, e.Resource, false, fallback,
		func(ctx context.Context) (struct{}, error) { return struct{}{}, call(ctx) },
		func(s *State[T], _ struct{}) {
			var zero T
			s.Data = zero
			s.HasData = false
		})
	return err
}
