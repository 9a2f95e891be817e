// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/comalice/bootnav"
	"github.com/comalice/bootnav/host"
	"github.com/comalice/bootnav/router"
)

// GenRoutes creates n parameterized routes plus a catch-all, so matching
// a path near the end of the table walks most of it.
func GenRoutes(n int) []router.Route {
	if n < 1 {
		n = 1
	}
	routes := make([]router.Route, 0, n+1)
	for i := 0; i < n; i++ {
		routes = append(routes, router.Route{
			Path:      fmt.Sprintf("/section%d/:id", i),
			Component: fmt.Sprintf("section%d", i),
		})
	}
	return append(routes, router.Route{Path: "/**", Component: "not-found"})
}

// NewRouter creates a router over routes, closed when b finishes.
func NewRouter(b *testing.B, routes []router.Route) *router.Router {
	b.Helper()
	r, err := router.New(routes, router.NewMemoryLocation("/"))
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = r.Close() })
	return r
}

type shell struct{}

// Boot runs one full host start-up under policy and waits for the initial
// navigation to activate.
func Boot(ctx context.Context, policy bootnav.TimingPolicy) error {
	r, err := router.New([]router.Route{{Path: "/", Component: "home"}}, router.NewMemoryLocation("/"))
	if err != nil {
		return err
	}
	defer r.Close()

	activated := make(chan struct{})
	unsub := r.Subscribe(func(e router.Event) {
		if e.Type == router.NavigationEnd {
			close(activated)
		}
	})
	defer unsub()

	app := host.New()
	defer app.Destroy()
	if _, err := bootnav.Setup(app, r, bootnav.WithPolicy(policy)); err != nil {
		return err
	}
	if _, err := app.Bootstrap(ctx, &shell{}); err != nil {
		return err
	}
	select {
	case <-activated:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
