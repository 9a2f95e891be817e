package bootnav

import (
	"context"

	"github.com/comalice/bootnav/host"
)

// Hook names registered on the host by Setup.
const (
	InitializerName = "bootnav.initial_navigation"
	ListenerName    = "bootnav.initial_navigation"
	DestroyHookName = "bootnav.coordinator"
)

// Setup creates a Coordinator for nav and registers it with app:
// RunPreBootstrap as an initializer, RunPostBootstrap as a bootstrap
// listener and Dispose as a destroy hook.
func Setup(app *host.App, nav Navigator, opts ...Option) (*Coordinator, error) {
	c, err := NewCoordinator(nav, app, opts...)
	if err != nil {
		return nil, err
	}
	app.AddInitializer(InitializerName, c.RunPreBootstrap)
	app.AddBootstrapListener(ListenerName, func(ctx context.Context, root *host.Root) error {
		if root == nil {
			return c.RunPostBootstrap(ctx, nil)
		}
		return c.RunPostBootstrap(ctx, root)
	})
	app.AddDestroyHook(DestroyHookName, c.Dispose)
	return c, nil
}
