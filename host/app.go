// Package host provides a minimal application lifecycle: startup
// initializers, root composition, bootstrap listeners and teardown.
//
// Initializers run concurrently and must all succeed before the first root
// is composed. Bootstrap listeners run in registration order for every
// composed root. Destroy hooks run once, in reverse registration order.
package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/comalice/bootnav/internal/logging"
)

// ErrDestroyed is returned by Bootstrap after Destroy.
var ErrDestroyed = errors.New("host: application destroyed")

// RootHandle identifies a composed root. Handles start at 1 and increase.
type RootHandle = uint64

// Root is a composed top-level application instance.
type Root struct {
	handle    RootHandle
	component any
}

// Handle returns the root's opaque handle.
func (r *Root) Handle() RootHandle {
	return r.handle
}

// Component returns the value the root was composed from.
func (r *Root) Component() any {
	return r.component
}

// ComponentType returns the concrete type of the root component.
func (r *Root) ComponentType() reflect.Type {
	return reflect.TypeOf(r.component)
}

// Initializer runs before the first root is composed.
type Initializer func(ctx context.Context) error

// BootstrapListener runs after a root is composed.
type BootstrapListener func(ctx context.Context, root *Root) error

type named[T any] struct {
	name string
	fn   T
}

// Option configures an App.
type Option func(*App)

// WithLogger configures the App logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithTracerProvider configures the provider used for bootstrap spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(a *App) {
		if tp != nil {
			a.tracer = tp.Tracer("github.com/comalice/bootnav/host")
		}
	}
}

// App is a host application. It is safe for concurrent use, but Bootstrap
// calls are serialized.
type App struct {
	logger *slog.Logger
	tracer trace.Tracer

	mu           sync.Mutex
	initializers []named[Initializer]
	listeners    []named[BootstrapListener]
	destroyHooks []named[func()]
	roots        []*Root
	nextHandle   RootHandle
	initialized  bool
	initErr      error
	destroyed    bool

	bootMu sync.Mutex
}

// New creates an App.
func New(opts ...Option) *App {
	a := &App{
		tracer:     noop.NewTracerProvider().Tracer("github.com/comalice/bootnav/host"),
		nextHandle: 1,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.OrNop(a.logger).With("component", "host")
	return a
}

// AddInitializer registers fn to run before the first root is composed.
// Initializers added after the first Bootstrap never run.
func (a *App) AddInitializer(name string, fn Initializer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.initializers = append(a.initializers, named[Initializer]{name, fn})
}

// AddBootstrapListener registers fn to run after each composed root.
func (a *App) AddBootstrapListener(name string, fn BootstrapListener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, named[BootstrapListener]{name, fn})
}

// AddDestroyHook registers fn to run on Destroy.
func (a *App) AddDestroyHook(name string, fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.destroyHooks = append(a.destroyHooks, named[func()]{name, fn})
}

// Bootstrap composes a root from component.
//
// The first call runs every initializer concurrently and fails if any of
// them fails; the failure is remembered and returned by later calls.
// Listener errors do not undo the composition: the root is returned along
// with the joined listener errors.
func (a *App) Bootstrap(ctx context.Context, component any) (*Root, error) {
	a.bootMu.Lock()
	defer a.bootMu.Unlock()

	ctx, span := a.tracer.Start(ctx, "host.bootstrap")
	defer span.End()

	if a.isDestroyed() {
		return nil, ErrDestroyed
	}
	if err := a.runInitializers(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	// Teardown may race a long initializer.
	if a.isDestroyed() {
		return nil, ErrDestroyed
	}

	a.mu.Lock()
	root := &Root{handle: a.nextHandle, component: component}
	a.nextHandle++
	a.roots = append(a.roots, root)
	listeners := append([]named[BootstrapListener](nil), a.listeners...)
	a.mu.Unlock()

	span.SetAttributes(attribute.Int64("host.root_handle", int64(root.handle)))
	a.logger.Info("root composed", "handle", root.handle, "type", fmt.Sprint(root.ComponentType()))

	var errs []error
	for _, l := range listeners {
		if err := l.fn(ctx, root); err != nil {
			a.logger.Error("bootstrap listener failed", "listener", l.name, "error", err)
			errs = append(errs, fmt.Errorf("bootstrap listener %s: %w", l.name, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		span.RecordError(err)
		return root, err
	}
	return root, nil
}

func (a *App) runInitializers(ctx context.Context) error {
	a.mu.Lock()
	if a.initialized {
		err := a.initErr
		a.mu.Unlock()
		return err
	}
	inits := append([]named[Initializer](nil), a.initializers...)
	a.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, in := range inits {
		in := in
		g.Go(func() error {
			a.logger.Debug("initializer started", "initializer", in.name)
			if err := in.fn(gctx); err != nil {
				return fmt.Errorf("initializer %s: %w", in.name, err)
			}
			a.logger.Debug("initializer done", "initializer", in.name)
			return nil
		})
	}
	err := g.Wait()

	a.mu.Lock()
	a.initialized = true
	a.initErr = err
	a.mu.Unlock()

	if err != nil {
		a.logger.Error("startup aborted", "error", err)
	}
	return err
}

// FirstRoot returns the handle of the first composed root.
func (a *App) FirstRoot() (RootHandle, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.roots) == 0 {
		return 0, false
	}
	return a.roots[0].handle, true
}

// Roots returns the composed roots in composition order.
func (a *App) Roots() []*Root {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*Root(nil), a.roots...)
}

// Destroy runs destroy hooks in reverse registration order. Only the first
// call has any effect.
func (a *App) Destroy() {
	a.mu.Lock()
	if a.destroyed {
		a.mu.Unlock()
		return
	}
	a.destroyed = true
	hooks := append([]named[func()](nil), a.destroyHooks...)
	a.mu.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		a.logger.Debug("destroy hook", "hook", hooks[i].name)
		hooks[i].fn()
	}
}

func (a *App) isDestroyed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.destroyed
}
