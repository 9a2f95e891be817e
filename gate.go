package bootnav

import "github.com/comalice/bootnav/internal/primitives"

// LocationGate reports when the platform location subsystem has finished
// its own asynchronous initialization.
type LocationGate interface {
	// Ready returns a channel that is closed once the location subsystem
	// is initialized. It may already be closed.
	Ready() <-chan struct{}
}

// ReadyGate is a LocationGate for platforms with no async location setup.
type ReadyGate struct{}

// Ready returns an already-closed channel.
func (ReadyGate) Ready() <-chan struct{} {
	return primitives.Closed()
}

// ManualGate is a LocationGate opened explicitly by the platform.
// The zero value is not usable; call NewManualGate.
type ManualGate struct {
	sig *primitives.Signal
}

// NewManualGate returns a closed (not ready) gate.
func NewManualGate() *ManualGate {
	return &ManualGate{sig: primitives.NewSignal()}
}

// Open marks the location subsystem ready. Safe to call more than once.
func (g *ManualGate) Open() {
	g.sig.Fire()
}

// Ready implements LocationGate.
func (g *ManualGate) Ready() <-chan struct{} {
	return g.sig.Done()
}

// IsOpen reports whether Open has been called.
func (g *ManualGate) IsOpen() bool {
	return g.sig.Fired()
}
