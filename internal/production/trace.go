package production

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/comalice/bootnav"
	"github.com/comalice/bootnav/internal/primitives"
	"github.com/comalice/bootnav/router"
)

// Trace is the recorded lifecycle of one application run.
type Trace struct {
	Name    string               `json:"name" yaml:"name"`
	Policy  bootnav.TimingPolicy `json:"policy" yaml:"policy"`
	Started time.Time            `json:"started" yaml:"started"`
	Events  []bootnav.Event      `json:"events" yaml:"events"`
}

// Types returns the event types in recorded order.
func (t Trace) Types() []string {
	out := make([]string, 0, len(t.Events))
	for _, e := range t.Events {
		out = append(out, e.Type)
	}
	return out
}

// Validate checks a trace loaded from disk.
func (t Trace) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("trace: missing name")
	}
	if err := t.Policy.Validate(); err != nil {
		return fmt.Errorf("trace %s: %w", t.Name, err)
	}
	return nil
}

// RouterEvent converts a router event into a trace event.
func RouterEvent(evt router.Event) bootnav.Event {
	data := map[string]any{
		"path":    evt.Path,
		"trigger": string(evt.Trigger),
	}
	if evt.ID != uuid.Nil {
		data["navigation_id"] = evt.ID.String()
	}
	if evt.Reason != "" {
		data["reason"] = evt.Reason
	}
	if evt.Err != nil {
		data["error"] = evt.Err.Error()
	}
	if evt.Type == router.Scroll {
		data["scroll_y"] = evt.ScrollY
	}
	return primitives.NewEvent("router", string(evt.Type), data)
}
