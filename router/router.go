// Package router is a small in-memory navigation engine that implements
// bootnav.Navigator and bootnav.SettleNotifier.
//
// Each navigation runs on its own goroutine through a fixed pipeline:
// match, guards (concurrently), resolvers (in key order), the
// pre-activation hook, then activation. Starting a navigation supersedes
// the one in flight, which ends with a NavigationCancel event.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/comalice/bootnav"
	"github.com/comalice/bootnav/internal/logging"
)

const tracerName = "github.com/comalice/bootnav/router"

var _ bootnav.Navigator = (*Router)(nil)
var _ bootnav.SettleNotifier = (*Router)(nil)

// Option configures a Router.
type Option func(*Router)

// WithLogger configures the Router logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Router) {
		r.logger = l
	}
}

// WithTracerProvider configures the provider used for navigation spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Router) {
		if tp != nil {
			r.tracer = tp.Tracer(tracerName)
		}
	}
}

type flight struct {
	nav    *Navigation
	cancel context.CancelCauseFunc
	done   chan struct{}
	err    error
}

// Router is safe for concurrent use.
type Router struct {
	routes []*compiledRoute
	loc    Location
	logger *slog.Logger
	tracer trace.Tracer

	baseCtx context.Context
	cancel  context.CancelCauseFunc
	wg      sync.WaitGroup

	mu             sync.Mutex
	hook           bootnav.PreActivationHook
	current        *Navigation
	inflight       *flight
	initialStarted bool
	listening      bool
	unsubscribe    func()
	closed         bool
	settleWaiters  []func(error)
	subs           map[int]func(Event)
	nextSub        int
	rootType       reflect.Type
	scroll         map[string]int

	preloading atomic.Bool
	scrolling  atomic.Bool
}

// New creates a Router over routes and loc.
func New(routes []Route, loc Location, opts ...Option) (*Router, error) {
	if loc == nil {
		return nil, errors.New("router: nil location")
	}
	compiled, err := compile(append([]Route(nil), routes...))
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancelCause(context.Background())
	r := &Router{
		routes:  compiled,
		loc:     loc,
		tracer:  noop.NewTracerProvider().Tracer(tracerName),
		baseCtx: ctx,
		cancel:  cancel,
		subs:    make(map[int]func(Event)),
		scroll:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.OrNop(r.logger).With("component", "router")
	return r, nil
}

// InstallLocationListener subscribes to back/forward changes. Idempotent.
func (r *Router) InstallLocationListener() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listening || r.closed {
		return
	}
	r.listening = true
	r.unsubscribe = r.loc.Subscribe(func(ch LocationChange) {
		if _, err := r.start(context.Background(), ch.Path, TriggerPopstate); err != nil {
			r.logger.Debug("popstate navigation not started", "path", ch.Path, "error", err)
		}
	})
	r.logger.Debug("location listener installed")
}

// Listening reports whether the location listener is installed.
func (r *Router) Listening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listening
}

// BeginInitialNavigation installs the location listener and starts a
// navigation to the current location in the background. The navigation
// outlives ctx; only its trace parent is taken from it.
func (r *Router) BeginInitialNavigation(ctx context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	if r.initialStarted {
		r.mu.Unlock()
		return ErrInitialStarted
	}
	r.initialStarted = true
	r.mu.Unlock()

	r.InstallLocationListener()
	_, err := r.start(ctx, r.loc.Path(), TriggerInitial)
	return err
}

// SetPreActivationHook replaces the pre-activation hook. A nil hook
// removes it.
func (r *Router) SetPreActivationHook(hook bootnav.PreActivationHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hook = hook
}

// AfterNextNavigation calls fn once, when the next navigation settles.
func (r *Router) AfterNextNavigation(fn func(err error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settleWaiters = append(r.settleWaiters, fn)
}

// SetRootComponentType records the root component type.
func (r *Router) SetRootComponentType(t reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rootType = t
}

// RootComponentType returns the type set by SetRootComponentType.
func (r *Router) RootComponentType() reflect.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rootType
}

// Navigate runs a navigation to path and waits for it to settle.
// The returned error is nil only when the navigation activated.
func (r *Router) Navigate(ctx context.Context, path string) (*Navigation, error) {
	f, err := r.start(ctx, path, TriggerImperative)
	if err != nil {
		return nil, err
	}
	select {
	case <-f.done:
		return f.nav, f.err
	case <-ctx.Done():
		return f.nav, ctx.Err()
	}
}

// Current returns the last activated navigation, or nil.
func (r *Router) Current() *Navigation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Subscribe registers fn for router events and returns its cancel func.
// fn is called from navigation goroutines and must not block.
func (r *Router) Subscribe(fn func(Event)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, id)
	}
}

// Close cancels in-flight work and waits for it to stop.
func (r *Router) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	unsub := r.unsubscribe
	r.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	r.cancel(ErrClosed)
	r.wg.Wait()
	return nil
}

func (r *Router) start(parent context.Context, path string, trigger Trigger) (*flight, error) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	if r.inflight != nil {
		r.inflight.cancel(ErrSuperseded)
	}
	ctx, cancel := context.WithCancelCause(r.baseCtx)
	ctx = trace.ContextWithSpanContext(ctx, trace.SpanContextFromContext(parent))
	f := &flight{
		nav: &Navigation{
			ID:      uuid.New(),
			Path:    path,
			Trigger: trigger,
			Data:    map[string]any{},
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}
	r.inflight = f
	r.wg.Add(1)
	r.mu.Unlock()

	go r.run(ctx, f)
	return f, nil
}

func (r *Router) run(ctx context.Context, f *flight) {
	defer r.wg.Done()
	defer close(f.done)
	defer f.cancel(nil)

	nav := f.nav
	ctx, span := r.tracer.Start(ctx, "router.navigate", trace.WithAttributes(
		attribute.String("router.navigation_id", nav.ID.String()),
		attribute.String("router.path", nav.Path),
		attribute.String("router.trigger", string(nav.Trigger)),
	))
	defer span.End()

	log := r.logger.With("navigation_id", nav.ID.String(), "path", nav.Path, "trigger", string(nav.Trigger))
	log.Debug("navigation started")
	r.publish(Event{Type: NavigationStart, ID: nav.ID, Path: nav.Path, Trigger: nav.Trigger})

	err := r.pipeline(ctx, nav)
	if err != nil && !isCancellation(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	f.err = err
	r.finish(f, log)
}

func (r *Router) pipeline(ctx context.Context, nav *Navigation) error {
	route, params, ok := match(r.routes, nav.Path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoMatch, nav.Path)
	}
	nav.Route = route
	nav.Params = params

	if err := r.runGuards(ctx, nav); err != nil {
		return err
	}
	if err := r.runResolvers(ctx, nav); err != nil {
		return err
	}
	if err := r.preActivate(ctx, nav); err != nil {
		return err
	}
	return r.activate(ctx, nav)
}

func (r *Router) runGuards(ctx context.Context, nav *Navigation) error {
	if len(nav.Route.Guards) == 0 {
		return nil
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, guard := range nav.Route.Guards {
		guard := guard
		g.Go(func() error {
			ok, err := guard(gctx, nav)
			if err != nil {
				return err
			}
			if !ok {
				return ErrGuardRejected
			}
			return nil
		})
	}
	err := g.Wait()
	if cause := context.Cause(ctx); cause != nil {
		return cause
	}
	return err
}

func (r *Router) runResolvers(ctx context.Context, nav *Navigation) error {
	for _, key := range sortedKeys(nav.Route.Resolve) {
		if cause := context.Cause(ctx); cause != nil {
			return cause
		}
		v, err := nav.Route.Resolve[key](ctx, nav)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", key, err)
		}
		nav.Data[key] = v
	}
	return nil
}

func (r *Router) preActivate(ctx context.Context, nav *Navigation) error {
	r.mu.Lock()
	hook := r.hook
	r.mu.Unlock()
	if hook == nil {
		return nil
	}

	wait, err := hook(ctx)
	if err != nil {
		return err
	}
	r.publish(Event{Type: PreActivation, ID: nav.ID, Path: nav.Path, Trigger: nav.Trigger})
	if wait == nil {
		return nil
	}
	select {
	case <-wait:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

func (r *Router) activate(ctx context.Context, nav *Navigation) error {
	r.mu.Lock()
	if cause := context.Cause(ctx); cause != nil {
		r.mu.Unlock()
		return cause
	}
	r.current = nav
	r.mu.Unlock()

	if nav.Trigger == TriggerImperative {
		r.loc.Go(nav.Path)
	}
	return nil
}

func (r *Router) finish(f *flight, log *slog.Logger) {
	nav := f.nav

	r.mu.Lock()
	if r.inflight == f {
		r.inflight = nil
	}
	waiters := r.settleWaiters
	r.settleWaiters = nil
	r.mu.Unlock()

	var settleErr error
	switch {
	case f.err == nil:
		log.Info("navigation ended", "component", nav.Route.Component)
		r.publish(Event{Type: NavigationEnd, ID: nav.ID, Path: nav.Path, Trigger: nav.Trigger})
		r.restoreScroll(nav)
	case isCancellation(f.err):
		log.Info("navigation cancelled", "reason", f.err.Error())
		r.publish(Event{Type: NavigationCancel, ID: nav.ID, Path: nav.Path, Trigger: nav.Trigger, Reason: f.err.Error(), Err: f.err})
	default:
		settleErr = f.err
		log.Warn("navigation failed", "error", f.err)
		r.publish(Event{Type: NavigationError, ID: nav.ID, Path: nav.Path, Trigger: nav.Trigger, Err: f.err})
	}

	for _, fn := range waiters {
		fn(settleErr)
	}
}

func (r *Router) publish(evt Event) {
	r.mu.Lock()
	subs := make([]func(Event), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.mu.Unlock()
	for _, fn := range subs {
		fn(evt)
	}
}
