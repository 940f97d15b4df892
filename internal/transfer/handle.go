// Package transfer tracks file transfers whose completion may never be
// observed. A Handle resolves on completion or after a timeout, whichever
// comes first; the timeout only resolves the handle and never stops the work.
package transfer

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the resolution state of a Handle.
type State int

const (
	// Pending means neither completion nor timeout has happened yet.
	Pending State = iota
	// Completed means the work returned before the timeout.
	Completed
	// TimedOut means the timeout fired first.
	TimedOut
)

// String returns the string representation of State
func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Completed:
		return "completed"
	case TimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// Work performs a transfer. It should honor ctx cancellation.
type Work func(ctx context.Context) error

// Handle observes one transfer.
type Handle struct {
	ID string

	mu       sync.Mutex
	state    State
	err      error
	resolved chan struct{}
	finished chan struct{}
	cancel   context.CancelFunc
	timer    *time.Timer
}

// Start runs work in a new goroutine and returns its handle. A nil work
// never completes, so the handle resolves only by timeout; this models
// transfers handed off to something that gives no completion signal.
// A timeout <= 0 disables the timeout.
func Start(parent context.Context, timeout time.Duration, work Work) *Handle {
	ctx, cancel := context.WithCancel(parent)
	h := &Handle{
		ID:       uuid.NewString(),
		resolved: make(chan struct{}),
		finished: make(chan struct{}),
		cancel:   cancel,
	}

	if timeout > 0 {
		h.mu.Lock()
		h.timer = time.AfterFunc(timeout, func() { h.resolve(TimedOut, nil) })
		h.mu.Unlock()
	}

	if work == nil {
		close(h.finished)
		return h
	}

	go func() {
		defer close(h.finished)
		err := work(ctx)
		h.resolve(Completed, err)
	}()
	return h
}

func (h *Handle) resolve(s State, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != Pending {
		return
	}
	h.state = s
	h.err = err
	if h.timer != nil {
		h.timer.Stop()
	}
	close(h.resolved)
}

// State returns the current state.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Err returns the work's error once the handle completed.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Done is closed when the handle leaves Pending.
func (h *Handle) Done() <-chan struct{} {
	return h.resolved
}

// Finished is closed when the work itself has returned, which may be long
// after a timeout. For nil work it is closed immediately.
func (h *Handle) Finished() <-chan struct{} {
	return h.finished
}

// Cancel stops the underlying work. A still pending handle resolves as
// Completed with the context error once the work returns.
func (h *Handle) Cancel() {
	h.cancel()
}

// Wait blocks until the handle resolves or ctx is done.
func (h *Handle) Wait(ctx context.Context) State {
	select {
	case <-h.resolved:
	case <-ctx.Done():
	}
	return h.State()
}
