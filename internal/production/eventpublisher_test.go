// Tests for ChannelPublisher delivery, Recorder and Fanout.
package production

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/comalice/bootnav"
	"github.com/comalice/bootnav/internal/primitives"
	"github.com/comalice/bootnav/router"
)

func TestChannelPublisher_Delivery(t *testing.T) {
	ch := make(chan bootnav.Event, 10)
	p := NewChannelPublisher(ch)

	event := primitives.NewEvent("coordinator", primitives.EventGateFired, nil)
	if err := p.Publish(context.Background(), event); err != nil {
		t.Errorf("Publish failed: %v", err)
	}

	select {
	case got := <-ch:
		if got.Type != event.Type || got.Source != event.Source {
			t.Errorf("event mismatch: got %v, want %v", got, event)
		}
	default:
		t.Error("no event delivered")
	}
}

func TestChannelPublisher_DropsWhenFull(t *testing.T) {
	ch := make(chan bootnav.Event, 1)
	p := NewChannelPublisher(ch)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := p.Publish(ctx, primitives.NewEvent("coordinator", "tick", nil)); err != nil {
			t.Fatalf("Publish returned %v on backpressure", err)
		}
	}
	if p.Dropped() != 2 {
		t.Errorf("Dropped() = %d, want 2", p.Dropped())
	}
}

func TestChannelPublisher_CancelledContext(t *testing.T) {
	ch := make(chan bootnav.Event)
	p := NewChannelPublisher(ch)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// An unbuffered channel with no reader leaves only ctx.Done ready.
	err := p.Publish(ctx, primitives.NewEvent("coordinator", "tick", nil))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("want context.Canceled, got %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder("run", "")
	ctx := context.Background()
	_ = r.Publish(ctx, primitives.NewEvent("coordinator", primitives.EventPreBootstrapStarted, nil))
	r.RecordRouter(router.Event{
		Type:    router.NavigationCancel,
		ID:      uuid.New(),
		Path:    "/admin",
		Trigger: router.TriggerInitial,
		Reason:  "router: guard rejected navigation",
		Err:     router.ErrGuardRejected,
	})

	tr := r.Trace()
	if tr.Policy != bootnav.PolicyNonBlocking {
		t.Errorf("policy = %q, want resolved default", tr.Policy)
	}
	want := []string{primitives.EventPreBootstrapStarted, string(router.NavigationCancel)}
	got := tr.Types()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("types = %v, want %v", got, want)
	}
	nav := tr.Events[1]
	if nav.Source != "router" || nav.Data["path"] != "/admin" || nav.Data["reason"] == nil {
		t.Errorf("router event not converted: %+v", nav)
	}
	if _, ok := nav.Data["navigation_id"]; !ok {
		t.Error("navigation_id missing")
	}

	// Trace returns a copy.
	tr.Events[0].Type = "mutated"
	if r.Trace().Events[0].Type == "mutated" {
		t.Error("Trace leaked internal slice")
	}
}

type failingPublisher struct{ err error }

func (f failingPublisher) Publish(context.Context, bootnav.Event) error { return f.err }

func TestFanout(t *testing.T) {
	boom := errors.New("sink down")
	rec := NewRecorder("fan", bootnav.PolicyBlocking)
	pub := Fanout(rec, nil, failingPublisher{boom})

	err := pub.Publish(context.Background(), primitives.NewEvent("coordinator", "tick", nil))
	if !errors.Is(err, boom) {
		t.Errorf("want joined sink error, got %v", err)
	}
	if len(rec.Trace().Events) != 1 {
		t.Error("recorder did not receive the event")
	}
}
