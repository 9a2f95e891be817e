package bootnav_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/bootnav"
	"github.com/comalice/bootnav/host"
	"github.com/comalice/bootnav/router"
)

type appShell struct{}
type otherShell struct{}

func newStack(t *testing.T, routes []router.Route, opts ...bootnav.Option) (*host.App, *router.Router, *router.MemoryLocation, *bootnav.Coordinator) {
	t.Helper()
	loc := router.NewMemoryLocation("/")
	r, err := router.New(routes, loc)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	app := host.New()
	c, err := bootnav.Setup(app, r, opts...)
	require.NoError(t, err)
	return app, r, loc, c
}

func TestSetupBlockingNavigatesBeforeComposition(t *testing.T) {
	t.Parallel()
	loc := router.NewMemoryLocation("/")
	r, err := router.New([]router.Route{{Path: "/", Component: "home"}}, loc)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	app := host.New()
	var startedAtCompose bool
	var activatedAtCompose bool
	var c *bootnav.Coordinator
	app.AddBootstrapListener("probe", func(context.Context, *host.Root) error {
		startedAtCompose = c.InitialNavigationStarted()
		activatedAtCompose = r.Current() != nil
		return nil
	})
	c, err = bootnav.Setup(app, r, bootnav.WithPolicy(bootnav.PolicyBlocking))
	require.NoError(t, err)

	root, err := app.Bootstrap(context.Background(), &appShell{})
	require.NoError(t, err)
	assert.True(t, startedAtCompose, "navigation must reach pre-activation before composition")
	assert.False(t, activatedAtCompose, "navigation must stay paused until post-bootstrap")

	require.Eventually(t, func() bool { return r.Current() != nil }, waitTimeout, time.Millisecond)
	assert.Equal(t, "home", r.Current().Route.Component)
	assert.Equal(t, root.ComponentType(), r.RootComponentType())
	assert.True(t, r.PreloadingEnabled())
	assert.True(t, r.ScrollRestorationEnabled())
}

func TestSetupNonBlockingComposesFirst(t *testing.T) {
	t.Parallel()
	loc := router.NewMemoryLocation("/")
	r, err := router.New([]router.Route{{Path: "/"}}, loc)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	app := host.New()
	var listeningAtCompose bool
	app.AddBootstrapListener("probe", func(context.Context, *host.Root) error {
		listeningAtCompose = r.Listening()
		return nil
	})
	_, err = bootnav.Setup(app, r)
	require.NoError(t, err)

	_, err = app.Bootstrap(context.Background(), appShell{})
	require.NoError(t, err)
	assert.False(t, listeningAtCompose)
	require.Eventually(t, func() bool { return r.Current() != nil }, waitTimeout, time.Millisecond)
	assert.Equal(t, router.TriggerInitial, r.Current().Trigger)
}

func TestSetupDisabledOnlyListens(t *testing.T) {
	t.Parallel()
	app, r, loc, _ := newStack(t, []router.Route{{Path: "/"}, {Path: "/a"}},
		bootnav.WithPolicy(bootnav.PolicyDisabled))

	_, err := app.Bootstrap(context.Background(), appShell{})
	require.NoError(t, err)
	assert.True(t, r.Listening())
	assert.Nil(t, r.Current())

	loc.Go("/a")
	require.True(t, loc.Back())
	require.Eventually(t, func() bool { return r.Current() != nil }, waitTimeout, time.Millisecond)
	assert.Equal(t, router.TriggerPopstate, r.Current().Trigger)
}

func TestSetupBlockingRejectedNavigationStillComposes(t *testing.T) {
	t.Parallel()
	deny := func(context.Context, *router.Navigation) (bool, error) { return false, nil }
	app, r, _, c := newStack(t, []router.Route{{Path: "/", Guards: []router.Guard{deny}}},
		bootnav.WithPolicy(bootnav.PolicyBlocking))

	done := make(chan error, 1)
	go func() {
		_, err := app.Bootstrap(context.Background(), appShell{})
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(waitTimeout):
		t.Fatal("rejected initial navigation blocked startup")
	}
	assert.False(t, c.InitialNavigationStarted())
	assert.Nil(t, r.Current())
	assert.True(t, c.Released())
}

func TestSetupBlockingNavigationErrorAbortsStartup(t *testing.T) {
	t.Parallel()
	app, _, _, _ := newStack(t, []router.Route{{Path: "/elsewhere"}},
		bootnav.WithPolicy(bootnav.PolicyBlocking))

	_, err := app.Bootstrap(context.Background(), appShell{})
	require.ErrorIs(t, err, router.ErrNoMatch)
	_, ok := app.FirstRoot()
	assert.False(t, ok)
}

func TestSetupDestroyBeforeLocationReady(t *testing.T) {
	t.Parallel()
	gate := bootnav.NewManualGate()
	app, r, _, c := newStack(t, []router.Route{{Path: "/"}},
		bootnav.WithPolicy(bootnav.PolicyBlocking), bootnav.WithLocationGate(gate))

	done := make(chan error, 1)
	go func() {
		_, err := app.Bootstrap(context.Background(), appShell{})
		done <- err
	}()
	requirePending(t, done)

	app.Destroy()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, host.ErrDestroyed)
	case <-time.After(waitTimeout):
		t.Fatal("destroy did not release startup")
	}
	assert.True(t, c.Disposed())
	assert.False(t, r.Listening())
	assert.Nil(t, r.Current())
}

func TestSetupIgnoresLaterRoots(t *testing.T) {
	t.Parallel()
	app, r, _, _ := newStack(t, []router.Route{{Path: "/"}})

	_, err := app.Bootstrap(context.Background(), &appShell{})
	require.NoError(t, err)
	_, err = app.Bootstrap(context.Background(), &otherShell{})
	require.NoError(t, err)

	assert.Equal(t, reflect.TypeOf(&appShell{}), r.RootComponentType())
	assert.Len(t, app.Roots(), 2)
}
