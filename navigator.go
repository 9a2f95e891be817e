package bootnav

import (
	"context"
	"reflect"

	"github.com/comalice/bootnav/internal/primitives"
)

// PreActivationHook is invoked by a navigation engine after matching,
// guards and resolvers complete and before activation. The engine must
// wait for the returned channel to close before activating. An error
// aborts the navigation.
type PreActivationHook func(ctx context.Context) (<-chan struct{}, error)

// Navigator is the navigation engine the coordinator drives.
type Navigator interface {
	// InstallLocationListener starts observing location changes without
	// navigating. Must be synchronous and idempotent.
	InstallLocationListener()
	// BeginInitialNavigation starts the initial navigation without waiting
	// for it to finish.
	BeginInitialNavigation(ctx context.Context) error
	// SetPreActivationHook replaces the pre-activation extension point.
	SetPreActivationHook(hook PreActivationHook)
	EnablePreloading()
	EnableScrollRestoration()
	// SetRootComponentType reports the concrete type of the first root.
	SetRootComponentType(t reflect.Type)
}

// SettleNotifier is optionally implemented by a Navigator that can report
// when its next navigation settles. fn receives nil when the navigation
// completes, is cancelled or is rejected by a guard, and the navigation
// error otherwise.
type SettleNotifier interface {
	AfterNextNavigation(fn func(err error))
}

// RootHandle identifies a composed root. Handles are opaque and compared
// by value.
type RootHandle = uint64

// RootRef is a composed top-level application instance.
type RootRef interface {
	Handle() RootHandle
	ComponentType() reflect.Type
}

// RootRegistry reports the first root the host composed.
type RootRegistry interface {
	FirstRoot() (RootHandle, bool)
}

// Event is a lifecycle event published by the coordinator.
type Event = primitives.Event

// EventPublisher receives lifecycle events. Publish errors are logged and
// never affect coordination.
type EventPublisher interface {
	Publish(ctx context.Context, evt Event) error
}
