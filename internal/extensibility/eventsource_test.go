package extensibility

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/comalice/bootnav/router"
)

func TestLocationFeedReplaysSteps(t *testing.T) {
	loc := router.NewMemoryLocation("/")
	var changes []router.LocationChange
	loc.Subscribe(func(c router.LocationChange) { changes = append(changes, c) })

	feed := NewLocationFeed(loc, []string{"/a", "/b", StepBack, StepBack, StepBack, StepForward}, 0)
	n, err := feed.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The third back has nowhere to go.
	if n != 5 {
		t.Errorf("applied %d steps, want 5", n)
	}
	if len(changes) != 3 {
		t.Fatalf("got %d change notifications, want 3", len(changes))
	}
	if changes[2].Kind != router.ChangeForward || changes[2].Path != "/a" {
		t.Errorf("last change = %+v", changes[2])
	}
	if loc.Path() != "/a" {
		t.Errorf("path = %s, want /a", loc.Path())
	}
}

func TestLocationFeedTicks(t *testing.T) {
	loc := router.NewMemoryLocation("/")
	feed := NewLocationFeed(loc, []string{"/x", "/y"}, 10*time.Millisecond)

	start := time.Now()
	n, err := feed.Run(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("n=%d err=%v", n, err)
	}
	if time.Since(start) < 20*time.Millisecond {
		t.Error("feed did not wait between steps")
	}
}

func TestLocationFeedStopsOnCancel(t *testing.T) {
	loc := router.NewMemoryLocation("/")
	feed := NewLocationFeed(loc, []string{"/x", "/y"}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err := feed.Run(ctx)
	if !errors.Is(err, context.Canceled) || n != 0 {
		t.Errorf("n=%d err=%v", n, err)
	}
	if loc.Path() != "/" {
		t.Errorf("path changed to %s", loc.Path())
	}
}
