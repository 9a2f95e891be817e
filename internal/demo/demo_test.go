package demo

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/bootnav"
	"github.com/comalice/bootnav/internal/config"
	"github.com/comalice/bootnav/internal/primitives"
	"github.com/comalice/bootnav/internal/production"
	"github.com/comalice/bootnav/router"
)

func testConfig(policy bootnav.TimingPolicy) *config.Config {
	cfg := config.Default()
	cfg.InitialNavigation = policy
	cfg.Routes = []config.RouteConfig{
		{Path: "/", Component: "home", Resolve: map[string]string{"greeting": "hi"}, Delay: time.Millisecond},
		{Path: "/about", Component: "about", Preload: true, Delay: time.Millisecond},
		{Path: "/admin", Component: "admin", Guards: []string{"signed_in == true"}},
	}
	return cfg
}

func runCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func index(types []string, typ string) int {
	return slices.Index(types, typ)
}

func TestRunBlocking(t *testing.T) {
	t.Parallel()
	res, err := Run(runCtx(t), testConfig(bootnav.PolicyBlocking))
	require.NoError(t, err)

	require.NotNil(t, res.Current)
	assert.Equal(t, "home", res.Current.Route.Component)
	assert.Equal(t, "hi", res.Current.Data["greeting"])

	types := res.Trace.Types()
	paused := index(types, primitives.EventPreActivationPaused)
	resolved := index(types, primitives.EventPreBootstrapResolved)
	ended := index(types, string(router.NavigationEnd))
	require.NotEqual(t, -1, paused)
	require.NotEqual(t, -1, ended)
	assert.Less(t, paused, resolved)
	assert.Less(t, resolved, ended, "navigation must not activate before bootstrap")
	assert.Contains(t, types, primitives.EventDisposed)
}

func TestRunNonBlocking(t *testing.T) {
	t.Parallel()
	res, err := Run(runCtx(t), testConfig(bootnav.PolicyNonBlocking))
	require.NoError(t, err)
	require.NotNil(t, res.Current)
	assert.Equal(t, router.TriggerInitial, res.Current.Trigger)

	types := res.Trace.Types()
	assert.Less(t, index(types, primitives.EventPreBootstrapResolved), index(types, primitives.EventInitialNavigation))
	assert.NotContains(t, types, primitives.EventPreActivationPaused)
}

func TestRunDisabledWithScript(t *testing.T) {
	t.Parallel()
	cfg := testConfig(bootnav.PolicyDisabled)
	cfg.Location.Script = []string{"/about", "back", "forward"}
	cfg.Location.Interval = time.Millisecond

	res, err := Run(runCtx(t), cfg)
	require.NoError(t, err)
	assert.Equal(t, 3, res.FeedSteps)
	assert.NotContains(t, res.Trace.Types(), primitives.EventInitialNavigation)
	require.NotNil(t, res.Current)
	assert.Equal(t, router.TriggerPopstate, res.Current.Trigger)
	assert.Equal(t, "/about", res.Current.Path)
}

func TestRunBlockingGuardRejected(t *testing.T) {
	t.Parallel()
	cfg := testConfig(bootnav.PolicyBlocking)
	cfg.Location.Initial = "/admin"

	res, err := Run(runCtx(t), cfg)
	require.NoError(t, err)
	assert.Nil(t, res.Current)
	assert.Contains(t, res.Trace.Types(), string(router.NavigationCancel))
	assert.NotNil(t, res.Root, "a rejected navigation must not block composition")
}

func TestRunGuardUsesSession(t *testing.T) {
	t.Parallel()
	cfg := testConfig(bootnav.PolicyNonBlocking)
	cfg.Location.Initial = "/admin"
	cfg.Session = map[string]any{"signed_in": true}

	res, err := Run(runCtx(t), cfg)
	require.NoError(t, err)
	require.NotNil(t, res.Current)
	assert.Equal(t, "admin", res.Current.Route.Component)
}

func TestRunWaitsForLocationGate(t *testing.T) {
	t.Parallel()
	cfg := testConfig(bootnav.PolicyBlocking)
	cfg.Location.ReadyDelay = 20 * time.Millisecond

	start := time.Now()
	res, err := Run(runCtx(t), cfg)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Contains(t, res.Trace.Types(), primitives.EventGateReady)
}

func TestRunWritesOutputs(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := testConfig(bootnav.PolicyBlocking)
	cfg.Trace.Dir = dir
	cfg.Trace.Name = "boot"
	cfg.Trace.Format = production.FormatJSON
	cfg.Trace.DOT = filepath.Join(dir, "boot.dot")

	events := make(chan bootnav.Event, 256)
	res, err := Run(runCtx(t), cfg, WithPublisher(production.NewChannelPublisher(events)))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "boot.json"), res.TracePath)

	p, err := production.NewJSONPersister(dir)
	require.NoError(t, err)
	saved, err := p.Load(context.Background(), "boot")
	require.NoError(t, err)
	assert.Equal(t, bootnav.PolicyBlocking, saved.Policy)
	assert.Len(t, saved.Events, len(res.Trace.Events))

	dot, err := os.ReadFile(cfg.Trace.DOT)
	require.NoError(t, err)
	assert.Contains(t, string(dot), `digraph "trace_boot"`)
	assert.NotEmpty(t, events)
}

func TestBuildRoutesRejectsBadGuard(t *testing.T) {
	t.Parallel()
	_, err := BuildRoutes([]config.RouteConfig{{Path: "/", Guards: []string{"nonsense"}}}, nil, nil)
	assert.Error(t, err)
}
