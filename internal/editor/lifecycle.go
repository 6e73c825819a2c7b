// Package editor holds the draft state behind each profile edit dialog.
//
// An editor is closed until Open seeds a draft from the entity's current values. Save validates the
// draft, hands it to the save callback and waits for it: on success the draft is discarded and the
// editor closes, on failure it stays open in PhaseFailed with the error available for inline display.
package editor

import (
	"context"
	"errors"
	"sync"

	"github.com/influencer-marketplace/webclient/internal/api"
)

type Phase int

const (
	PhaseClosed Phase = iota
	PhaseEditing
	PhaseSaving
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseEditing:
		return "editing"
	case PhaseSaving:
		return "saving"
	case PhaseFailed:
		return "failed"
	default:
		return "closed"
	}
}

var (
	ErrNotOpen = errors.New("editor is not open")
	ErrSaving  = errors.New("save already in progress")
)

const defaultSaveError = "Failed to save changes"

// SaveFunc persists an edited value. A returned error keeps the editor open.
type SaveFunc[T any] func(ctx context.Context, v T) error

// lifecycle is shared by all editors. D is the draft shape, S what gets saved.
type lifecycle[D, S any] struct {
	mu      sync.Mutex
	phase   Phase
	draft   D
	err     *api.Error
	onSave  SaveFunc[S]
	onClose func()
}

func (l *lifecycle[D, S]) Phase() Phase {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.phase
}

func (l *lifecycle[D, S]) IsOpen() bool {
	return l.Phase() != PhaseClosed
}

// Err is the last save failure, nil unless the editor is in PhaseFailed.
func (l *lifecycle[D, S]) Err() *api.Error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// OnClose registers a callback run each time the editor closes.
func (l *lifecycle[D, S]) OnClose(fn func()) {
	l.mu.Lock()
	l.onClose = fn
	l.mu.Unlock()
}

// open seeds the draft. It is a no-op when already open so in-progress edits survive.
func (l *lifecycle[D, S]) open(seed func() D) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.phase != PhaseClosed {
		return false
	}
	l.draft = seed()
	l.err = nil
	l.phase = PhaseEditing
	return true
}

// Cancel discards the draft. It is refused while a save is running.
func (l *lifecycle[D, S]) Cancel() error {
	l.mu.Lock()
	switch l.phase {
	case PhaseClosed:
		l.mu.Unlock()
		return nil
	case PhaseSaving:
		l.mu.Unlock()
		return ErrSaving
	}
	l.reset()
	fn := l.onClose
	l.mu.Unlock()

	if fn != nil {
		fn()
	}
	return nil
}

func (l *lifecycle[D, S]) reset() {
	var zero D
	l.draft = zero
	l.err = nil
	l.phase = PhaseClosed
}

// edit applies fn to the draft under the lock.
func (l *lifecycle[D, S]) edit(fn func(d *D) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.phase {
	case PhaseClosed:
		return ErrNotOpen
	case PhaseSaving:
		return ErrSaving
	}
	return fn(&l.draft)
}

func (l *lifecycle[D, S]) view(fn func(d D)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.draft)
}

// commit validates the draft with prepare, then awaits onSave.
// Validation errors leave the phase unchanged and never reach onSave.
func (l *lifecycle[D, S]) commit(ctx context.Context, prepare func(D) (S, error)) error {
	l.mu.Lock()
	switch l.phase {
	case PhaseClosed:
		l.mu.Unlock()
		return ErrNotOpen
	case PhaseSaving:
		l.mu.Unlock()
		return ErrSaving
	}
	v, err := prepare(l.draft)
	if err != nil {
		l.mu.Unlock()
		return err
	}
	l.phase = PhaseSaving
	l.err = nil
	save := l.onSave
	l.mu.Unlock()

	if save != nil {
		err = save(ctx, v)
	}

	l.mu.Lock()
	if err != nil {
		l.phase = PhaseFailed
		l.err = api.Normalize(err, defaultSaveError)
		ae := l.err
		l.mu.Unlock()
		return ae
	}
	l.reset()
	fn := l.onClose
	l.mu.Unlock()

	if fn != nil {
		fn()
	}
	return nil
}
