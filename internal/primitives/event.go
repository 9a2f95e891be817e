// Event provides the immutable lifecycle event primitive.
//
// Events are value types. Once created they must not be mutated; use
// NewEvent for construction so the timestamp is always set.
//
// Example:
//
//	evt := NewEvent("coordinator", "gate.fired", map[string]any{"policy": "blocking"})
package primitives

import "time"

// Lifecycle event types emitted by the coordinator and the host.
const (
	EventPreBootstrapStarted  = "pre_bootstrap.started"
	EventGateReady            = "location_gate.ready"
	EventListenerInstalled    = "location_listener.installed"
	EventInitialNavigation    = "initial_navigation.begin"
	EventPreActivationPaused  = "pre_activation.paused"
	EventPreActivationPassed  = "pre_activation.passed"
	EventPreBootstrapResolved = "pre_bootstrap.resolved"
	EventPostBootstrapSkipped = "post_bootstrap.skipped"
	EventPostBootstrapDone    = "post_bootstrap.done"
	EventGateFired            = "pre_activation_gate.fired"
	EventDisposed             = "coordinator.disposed"
)

// Event is a single lifecycle occurrence.
type Event struct {
	Source string         `json:"source" yaml:"source"`
	Type   string         `json:"type" yaml:"type"`
	Data   map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
	Time   time.Time      `json:"time" yaml:"time"`
}

// NewEvent creates an Event stamped with the current time.
func NewEvent(source, eventType string, data map[string]any) Event {
	return Event{
		Source: source,
		Type:   eventType,
		Data:   data,
		Time:   time.Now(),
	}
}

// String renders the event as "source/type".
func (e Event) String() string {
	return e.Source + "/" + e.Type
}
