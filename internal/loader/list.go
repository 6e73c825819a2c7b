package loader

import (
	"context"
	"sync"
)

// List tracks a filtered collection. F must be comparable so filter changes can be detected.
type List[T any, F comparable] struct {
	*Resource[[]T]

	list     func(ctx context.Context, filter F) ([]T, error)
	fallback string

	mu        sync.Mutex
	filter    F
	autoFetch bool
}

func NewList[T any, F comparable](
	list func(ctx context.Context, filter F) ([]T, error),
	fallback string,
	filter F,
	autoFetch bool,
	onChange func(State[[]T]),
) *List[T, F] {
	return &List[T, F]{
		Resource:  NewResource(onChange),
		list:      list,
		fallback:  fallback,
		filter:    filter,
		autoFetch: autoFetch,
	}
}

func (l *List[T, F]) Filter() F {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter
}

func (l *List[T, F]) Start(ctx context.Context) error {
	if !l.autoFetch {
		return nil
	}
	_, err := l.Fetch(ctx)
	return err
}

// SetFilter replaces the filter and re-fetches when it changed and auto-fetch is on.
func (l *List[T, F]) SetFilter(ctx context.Context, f F) error {
	l.mu.Lock()
	changed := l.filter != f
	l.filter = f
	l.mu.Unlock()

	if !changed || !l.autoFetch {
		return nil
	}
	_, err := l.Fetch(ctx)
	return err
}

func (l *List[T, F]) Fetch(ctx context.Context) ([]T, error) {
	f := l.Filter()
	return run(ctx, l.Resource, true, l.fallback,
		func(ctx context.Context) ([]T, error) { return l.list(ctx, f) },
		func(s *State[[]T], items []T) {
			s.Data = items
			s.HasData = true
		})
}

func (l *List[T, F]) Refetch(ctx context.Context) ([]T, error) {
	return l.Fetch(ctx)
}

// Mutate runs call and, on success, rewrites the current items with apply.
func (l *List[T, F]) Mutate(ctx context.Context, fallback string, call func(ctx context.Context) error, apply func([]T) []T) error {
	_, err := run(ctx, l.Resource, false, fallback,
		func(ctx context.Context) (struct{}, error) { return struct{}{}, call(ctx) },
		func(s *State[[]T], _ struct{}) {
			s.Data = apply(s.Data)
		})
	return err
}
