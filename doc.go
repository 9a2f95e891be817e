// Package bootnav coordinates an application's startup sequence with its
// first navigation.
//
// A Coordinator joins two lifecycle phases that fire independently, the
// pre-bootstrap initializer and the post-bootstrap listener, with an
// asynchronous navigation engine (a Navigator). Exactly one initial
// navigation runs, at a point selected by a TimingPolicy:
//
//   - PolicyNonBlocking (default): the application composes immediately;
//     the initial navigation starts after the first root is composed.
//   - PolicyBlocking: composition waits until the initial navigation
//     reaches pre-activation; the navigation then waits at pre-activation
//     until the first root is composed.
//   - PolicyDisabled: no initial navigation; the location listener is
//     installed so later location changes are still observed.
//
// # Wiring
//
// Setup attaches a Coordinator to a host.App:
//
//	app := host.New()
//	r, err := router.New(routes, router.NewMemoryLocation("/"))
//	if err != nil {
//	    return err
//	}
//	coord, err := bootnav.Setup(app, r, bootnav.WithPolicy(bootnav.PolicyBlocking))
//	if err != nil {
//	    return err // *ConfigError on a bad policy
//	}
//	root, err := app.Bootstrap(ctx, &Shell{})
//
// # Blocking startup
//
// PolicyBlocking imposes no timeout. A navigation that never reaches
// pre-activation and never settles holds startup until the initializer ctx
// is cancelled or the coordinator is disposed.
package bootnav
