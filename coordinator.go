package bootnav

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/comalice/bootnav/internal/logging"
	"github.com/comalice/bootnav/internal/primitives"
)

const (
	tracerName  = "github.com/comalice/bootnav"
	eventSource = "coordinator"
)

// Coordinator sequences the pre-bootstrap and post-bootstrap phases of an
// application and applies a TimingPolicy to its initial navigation.
//
// The host calls RunPreBootstrap once from its initializer pipeline,
// RunPostBootstrap once per composed root, and Dispose on teardown.
//
// No timeout is imposed. Under PolicyBlocking, an initial navigation that
// never reaches pre-activation and never settles (for example a guard that
// never returns) suspends application composition until ctx is cancelled
// or the coordinator is disposed. Callers that need a bound must put one
// on ctx.
//
// A Coordinator is safe for concurrent use.
type Coordinator struct {
	nav       Navigator
	roots     RootRegistry
	policy    TimingPolicy
	gate      LocationGate
	logger    *slog.Logger
	tracer    trace.Tracer
	publisher EventPublisher

	mu                       sync.Mutex
	initialNavigationStarted bool

	preStarted   atomic.Bool
	bootstrapped atomic.Bool
	destroyed    atomic.Bool

	released *primitives.Signal // pre-activation gate
	disposed *primitives.Signal
}

// NewCoordinator creates a Coordinator for nav. roots reports which root
// the host composed first.
// An unrecognized policy fails with a *ConfigError.
func NewCoordinator(nav Navigator, roots RootRegistry, opts ...Option) (*Coordinator, error) {
	if nav == nil {
		return nil, errors.New("bootnav: nil navigator")
	}
	if roots == nil {
		return nil, errors.New("bootnav: nil root registry")
	}
	c := &Coordinator{
		nav:      nav,
		roots:    roots,
		policy:   DefaultPolicy,
		gate:     ReadyGate{},
		tracer:   noop.NewTracerProvider().Tracer(tracerName),
		released: primitives.NewSignal(),
		disposed: primitives.NewSignal(),
	}
	for _, opt := range opts {
		opt(c)
	}

	p, err := ParsePolicy(string(c.policy))
	if err != nil {
		return nil, err
	}
	c.policy = p
	c.logger = logging.OrNop(c.logger).With("component", eventSource, "policy", string(p))
	return c, nil
}

// Policy returns the resolved timing policy.
func (c *Coordinator) Policy() TimingPolicy {
	return c.policy
}

// InitialNavigationStarted reports whether the first navigation has reached
// its pre-activation pause.
func (c *Coordinator) InitialNavigationStarted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialNavigationStarted
}

// Released reports whether the pre-activation gate has fired.
func (c *Coordinator) Released() bool {
	return c.released.Fired()
}

// Disposed reports whether Dispose has been called.
func (c *Coordinator) Disposed() bool {
	return c.destroyed.Load()
}

// RunPreBootstrap is the startup-blocking initializer. While it is pending
// the host must not compose the application.
//
// It waits for the location gate, then:
//   - PolicyDisabled: installs the location listener and returns.
//   - PolicyBlocking: starts the initial navigation and returns once that
//     navigation first reaches pre-activation. The navigation stays paused
//     there until RunPostBootstrap fires the pre-activation gate.
//   - PolicyNonBlocking: returns immediately.
//
// Navigator errors are returned unmodified. If the coordinator is disposed
// before the gate settles, it returns nil without touching the Navigator.
func (c *Coordinator) RunPreBootstrap(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "bootnav.pre_bootstrap",
		trace.WithAttributes(attribute.String("bootnav.policy", string(c.policy))))
	defer span.End()

	if !c.preStarted.CompareAndSwap(false, true) {
		c.logger.Debug("pre-bootstrap already ran")
		return nil
	}
	c.emit(ctx, primitives.EventPreBootstrapStarted, nil)

	if err := c.awaitGate(ctx); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if c.destroyed.Load() {
		c.logger.Debug("disposed before location gate settled")
		return nil
	}
	c.emit(ctx, primitives.EventGateReady, nil)

	var err error
	switch c.policy {
	case PolicyDisabled:
		c.nav.InstallLocationListener()
		c.emit(ctx, primitives.EventListenerInstalled, nil)
	case PolicyBlocking:
		err = c.runBlocking(ctx)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	c.emit(ctx, primitives.EventPreBootstrapResolved, nil)
	return nil
}

func (c *Coordinator) awaitGate(ctx context.Context) error {
	select {
	case <-c.gate.Ready():
		return nil
	case <-c.disposed.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// phase resolves the blocking pre-bootstrap wait at most once.
type phase struct {
	once sync.Once
	err  error
	done *primitives.Signal
}

func (p *phase) resolve(err error) {
	p.once.Do(func() {
		p.err = err
		p.done.Fire()
	})
}

func (c *Coordinator) runBlocking(ctx context.Context) error {
	ph := &phase{done: primitives.NewSignal()}

	c.nav.SetPreActivationHook(func(hctx context.Context) (<-chan struct{}, error) {
		c.mu.Lock()
		first := !c.initialNavigationStarted
		c.initialNavigationStarted = true
		c.mu.Unlock()

		if !first || c.destroyed.Load() {
			c.emit(hctx, primitives.EventPreActivationPassed, nil)
			return primitives.Closed(), nil
		}
		c.emit(hctx, primitives.EventPreActivationPaused, nil)
		ph.resolve(nil)
		return c.released.Done(), nil
	})

	// Registered before navigating so "next" is the initial navigation.
	if sn, ok := c.nav.(SettleNotifier); ok {
		sn.AfterNextNavigation(func(err error) {
			if err != nil {
				c.logger.Warn("initial navigation failed before pre-activation", "error", err)
			}
			ph.resolve(err)
		})
	}

	c.emit(ctx, primitives.EventInitialNavigation, nil)
	if err := c.nav.BeginInitialNavigation(ctx); err != nil {
		return err
	}

	select {
	case <-ph.done.Done():
		return ph.err
	case <-c.disposed.Done():
		c.logger.Debug("disposed while waiting for pre-activation")
		return nil
	case <-ctx.Done():
		if ph.done.Fired() {
			return ph.err
		}
		return ctx.Err()
	}
}

// RunPostBootstrap is the bootstrap listener invoked for each composed
// root. Only the first root the host composed has any effect; later calls
// return nil.
//
// For PolicyNonBlocking it starts the initial navigation. For every policy
// it enables preloading and scroll restoration, reports the root component
// type, and fires the pre-activation gate so a paused blocking navigation
// resumes. An error from BeginInitialNavigation is returned after those
// steps run.
func (c *Coordinator) RunPostBootstrap(ctx context.Context, root RootRef) error {
	ctx, span := c.tracer.Start(ctx, "bootnav.post_bootstrap",
		trace.WithAttributes(attribute.String("bootnav.policy", string(c.policy))))
	defer span.End()

	if c.destroyed.Load() {
		return nil
	}
	if root == nil {
		c.emit(ctx, primitives.EventPostBootstrapSkipped, map[string]any{"reason": "nil root"})
		return nil
	}
	first, ok := c.roots.FirstRoot()
	if !ok || root.Handle() != first {
		c.emit(ctx, primitives.EventPostBootstrapSkipped, map[string]any{"reason": "not first root", "handle": root.Handle()})
		return nil
	}
	if !c.bootstrapped.CompareAndSwap(false, true) {
		c.emit(ctx, primitives.EventPostBootstrapSkipped, map[string]any{"reason": "already bootstrapped"})
		return nil
	}
	span.SetAttributes(attribute.Int64("bootnav.root_handle", int64(root.Handle())))

	var navErr error
	if c.policy == PolicyNonBlocking {
		c.emit(ctx, primitives.EventInitialNavigation, nil)
		navErr = c.nav.BeginInitialNavigation(ctx)
	}

	c.nav.EnablePreloading()
	c.nav.EnableScrollRestoration()
	c.nav.SetRootComponentType(root.ComponentType())

	if c.released.Fire() {
		c.emit(ctx, primitives.EventGateFired, nil)
	}
	c.emit(ctx, primitives.EventPostBootstrapDone, map[string]any{"handle": root.Handle()})

	if navErr != nil {
		span.RecordError(navErr)
		span.SetStatus(codes.Error, navErr.Error())
	}
	return navErr
}

// Dispose marks the coordinator destroyed and releases any pending
// pre-bootstrap wait. Safe to call more than once.
func (c *Coordinator) Dispose() {
	if !c.destroyed.CompareAndSwap(false, true) {
		return
	}
	c.disposed.Fire()
	c.emit(context.Background(), primitives.EventDisposed, nil)
}

func (c *Coordinator) emit(ctx context.Context, eventType string, data map[string]any) {
	c.logger.Debug(eventType)
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, primitives.NewEvent(eventSource, eventType, data)); err != nil {
		c.logger.Debug("publish failed", "event", eventType, "error", err)
	}
}
