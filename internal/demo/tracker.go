package demo

import (
	"context"
	"sync"

	"github.com/comalice/bootnav/router"
)

// tracker counts popstate navigations started and settled so a run can
// wait for the router to go quiet.
type tracker struct {
	mu      sync.Mutex
	started int
	settled int
	initial bool
	wake    chan struct{}
}

func newTracker() *tracker {
	return &tracker{wake: make(chan struct{})}
}

func (t *tracker) locationChanged(router.LocationChange) {
	t.mu.Lock()
	t.started++
	t.mu.Unlock()
}

func (t *tracker) routerEvent(evt router.Event) {
	switch evt.Type {
	case router.NavigationEnd, router.NavigationCancel, router.NavigationError:
	default:
		return
	}
	t.mu.Lock()
	switch evt.Trigger {
	case router.TriggerInitial:
		t.initial = true
	case router.TriggerPopstate:
		t.settled++
	}
	close(t.wake)
	t.wake = make(chan struct{})
	t.mu.Unlock()
}

func (t *tracker) waitFor(ctx context.Context, done func() bool) error {
	for {
		t.mu.Lock()
		ok := done()
		wake := t.wake
		t.mu.Unlock()
		if ok {
			return nil
		}
		select {
		case <-wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// waitInitial blocks until the initial navigation settles.
func (t *tracker) waitInitial(ctx context.Context) error {
	return t.waitFor(ctx, func() bool { return t.initial })
}

// waitQuiet blocks until every popstate navigation started so far settled.
func (t *tracker) waitQuiet(ctx context.Context) error {
	return t.waitFor(ctx, func() bool { return t.settled >= t.started })
}
