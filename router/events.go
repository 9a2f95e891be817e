package router

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNoMatch        = errors.New("router: no route matches")
	ErrClosed         = errors.New("router: closed")
	ErrInitialStarted = errors.New("router: initial navigation already started")
	ErrSuperseded     = errors.New("router: navigation superseded")
	ErrGuardRejected  = errors.New("router: guard rejected navigation")
)

// EventType names a router event.
type EventType string

const (
	NavigationStart  EventType = "navigation_start"
	PreActivation    EventType = "pre_activation"
	NavigationEnd    EventType = "navigation_end"
	NavigationCancel EventType = "navigation_cancel"
	NavigationError  EventType = "navigation_error"
	Scroll           EventType = "scroll"
	Preloaded        EventType = "preloaded"
)

// Event is delivered to router subscribers.
type Event struct {
	Type    EventType
	ID      uuid.UUID
	Path    string
	Trigger Trigger
	Reason  string
	Err     error
	ScrollY int
}

// isCancellation reports whether err ends a navigation as cancelled rather
// than failed.
func isCancellation(err error) bool {
	return errors.Is(err, ErrSuperseded) ||
		errors.Is(err, ErrGuardRejected) ||
		errors.Is(err, ErrClosed)
}
