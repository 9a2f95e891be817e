package primitives

import (
	"context"
	"sync"
	"sync/atomic"
)

// Signal is a one-shot broadcast completion primitive.
//
// A Signal starts pending and transitions to fired exactly once. Any number
// of goroutines may wait on Done before or after the fire; waiters that
// subscribe after the fire observe completion immediately. Fire is safe to
// call any number of times from any goroutine.
type Signal struct {
	once  sync.Once
	fired atomic.Bool
	ch    chan struct{}
}

// NewSignal returns a pending Signal.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{})}
}

// FiredSignal returns a Signal that has already fired.
func FiredSignal() *Signal {
	s := NewSignal()
	s.Fire()
	return s
}

// Fire releases all current and future waiters.
// It reports true only for the call that performed the transition.
func (s *Signal) Fire() bool {
	first := false
	s.once.Do(func() {
		s.fired.Store(true)
		close(s.ch)
		first = true
	})
	return first
}

// Done returns a channel that is closed once the signal fires.
func (s *Signal) Done() <-chan struct{} {
	return s.ch
}

// Fired reports whether the signal has fired.
func (s *Signal) Fired() bool {
	return s.fired.Load()
}

// Wait blocks until the signal fires or ctx is done.
func (s *Signal) Wait(ctx context.Context) error {
	select {
	case <-s.ch:
		return nil
	case <-ctx.Done():
		// Prefer completion when both are ready.
		if s.Fired() {
			return nil
		}
		return ctx.Err()
	}
}

// closedCh is shared by every caller that needs an already-closed channel.
var closedCh = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Closed returns a channel that is already closed.
func Closed() <-chan struct{} {
	return closedCh
}
