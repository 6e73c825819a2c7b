// Package loader keeps per-view remote state: one resource, its loading flag, its last error.
//
// Every cycle is tagged with a sequence number. A newer cycle supersedes older ones: a superseded
// fetch is canceled and whatever it returns is never committed, so the most recently requested
// resource wins.
package loader

import (
	"context"
	"errors"
	"sync"

	"github.com/influencer-marketplace/webclient/internal/api"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// ErrClosed is returned by cycles started after Close.
var ErrClosed = errors.New("loader closed")

type State[T any] struct {
	Status  Status
	Data    T
	HasData bool
	Loading bool
	Err     *api.Error
	// Version increases on every committed change to Data.
	Version uint64
}

type Resource[T any] struct {
	mu       sync.Mutex
	state    State[T]
	seq      uint64
	cancel   context.CancelFunc
	closed   bool
	onChange func(State[T])
}

func NewResource[T any](onChange func(State[T])) *Resource[T] {
	return &Resource[T]{onChange: onChange}
}

func (r *Resource[T]) State() State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Close cancels the in-flight fetch; later results are dropped and new cycles fail with ErrClosed.
func (r *Resource[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *Resource[T]) begin(ctx context.Context, cancelable bool) (context.Context, uint64, context.CancelFunc, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, 0, nil, ErrClosed
	}

	r.seq++
	seq := r.seq
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}

	cctx, cancel := context.WithCancel(ctx)
	if cancelable {
		r.cancel = cancel
	}

	r.state.Loading = true
	r.state.Status = StatusLoading
	r.state.Err = nil
	st := r.state
	r.mu.Unlock()

	r.notify(st)
	return cctx, seq, cancel, nil
}

// finish commits a cycle's outcome. It reports false when the cycle was superseded.
func (r *Resource[T]) finish(seq uint64, apply func(*State[T]), err *api.Error) bool {
	r.mu.Lock()
	if r.closed || seq != r.seq {
		r.mu.Unlock()
		return false
	}
	r.cancel = nil
	r.state.Loading = false
	if err != nil {
		r.state.Status = StatusError
		r.state.Err = err
	} else {
		if apply != nil {
			apply(&r.state)
		}
		r.state.Status = StatusSuccess
		r.state.Version++
	}
	st := r.state
	r.mu.Unlock()

	r.notify(st)
	return true
}

func (r *Resource[T]) notify(st State[T]) {
	if r.onChange != nil {
		r.onChange(st)
	}
}

// run executes call inside one load cycle. The loading flag is cleared even if call panics.
func run[T, R any](
	ctx context.Context,
	r *Resource[T],
	cancelable bool,
	fallback string,
	call func(ctx context.Context) (R, error),
	apply func(s *State[T], res R),
) (R, error) {
	var zero R

	cctx, seq, cancel, err := r.begin(ctx, cancelable)
	if err != nil {
		return zero, err
	}
	defer cancel()

	completed := false
	defer func() {
		if !completed {
			r.finish(seq, nil, &api.Error{Kind: api.KindUnknown, Message: fallback})
		}
	}()

	res, err := call(cctx)
	completed = true
	if err != nil {
		ae := api.Normalize(err, fallback)
		r.finish(seq, nil, ae)
		return zero, ae
	}

	r.finish(seq, func(s *State[T]) { apply(s, res) }, nil)
	return res, nil
}
