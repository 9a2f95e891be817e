package extensibility

import (
	"context"
	"testing"
	"time"

	"github.com/comalice/bootnav/internal/primitives"
	"github.com/comalice/bootnav/router"
)

func TestRouterWithConfiguredExtensions(t *testing.T) {
	session := primitives.NewContextFrom(map[string]any{"loggedIn": false})
	guard, err := ExpressionGuard("loggedIn == true", session)
	if err != nil {
		t.Fatal(err)
	}

	loc := router.NewMemoryLocation("/")
	r, err := router.New([]router.Route{
		{Path: "/"},
		{Path: "/account", Guards: []router.Guard{guard}, Resolve: map[string]router.ResolveFunc{
			"profile": LoggingResolver(nil, "profile", DelayedResolver("alice", time.Millisecond)),
		}},
	}, loc)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	ctx := context.Background()
	if _, err := r.Navigate(ctx, "/account"); err == nil {
		t.Fatal("expected rejection while logged out")
	}

	session.Set("loggedIn", true)
	nav, err := r.Navigate(ctx, "/account")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nav.Data["profile"] != "alice" {
		t.Errorf("profile = %v", nav.Data["profile"])
	}

	r.InstallLocationListener()
	if _, err := NewLocationFeed(loc, []string{StepBack}, 0).Run(ctx); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for r.Current().Path != "/" {
		if time.Now().After(deadline) {
			t.Fatal("popstate navigation never activated")
		}
		time.Sleep(time.Millisecond)
	}
}
