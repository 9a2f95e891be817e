// Package demo assembles a host, a router and a coordinator from
// configuration and runs one application start-up end to end.
package demo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/comalice/bootnav"
	"github.com/comalice/bootnav/host"
	"github.com/comalice/bootnav/internal/config"
	"github.com/comalice/bootnav/internal/extensibility"
	"github.com/comalice/bootnav/internal/logging"
	"github.com/comalice/bootnav/internal/primitives"
	"github.com/comalice/bootnav/internal/production"
	"github.com/comalice/bootnav/router"
)

// Shell is the root component the demo composes.
type Shell struct {
	Title string
}

// Result describes a finished run.
type Result struct {
	Policy  bootnav.TimingPolicy
	Root    *host.Root
	Current *router.Navigation
	Trace   production.Trace
	// TracePath is where the trace was saved, if it was.
	TracePath string
	// FeedSteps is how many scripted location steps were applied.
	FeedSteps int
}

// Option configures Run.
type Option func(*runner)

// WithLogger configures the logger shared by every component.
func WithLogger(l *slog.Logger) Option {
	return func(r *runner) {
		r.logger = l
	}
}

// WithTracerProvider configures tracing for every component.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *runner) {
		if tp != nil {
			r.tp = tp
		}
	}
}

// WithPublisher adds a sink that sees coordinator and router events as
// they happen.
func WithPublisher(p bootnav.EventPublisher) Option {
	return func(r *runner) {
		r.extra = p
	}
}

type runner struct {
	logger *slog.Logger
	tp     trace.TracerProvider
	extra  bootnav.EventPublisher
}

// Run boots an application described by cfg and returns once the initial
// navigation and any scripted location changes have settled.
func Run(ctx context.Context, cfg *config.Config, opts ...Option) (*Result, error) {
	rn := &runner{tp: noop.NewTracerProvider()}
	for _, opt := range opts {
		opt(rn)
	}
	logger := logging.OrNop(rn.logger)

	session := primitives.NewContextFrom(cfg.Session)
	routes, err := BuildRoutes(cfg.Routes, session, logger)
	if err != nil {
		return nil, err
	}

	loc := router.NewMemoryLocation(cfg.Location.Initial)
	r, err := router.New(routes, loc, router.WithLogger(logger), router.WithTracerProvider(rn.tp))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	rec := production.NewRecorder(cfg.Trace.Name, cfg.InitialNavigation)
	pub := production.Fanout(rec, rn.extra)
	tr := newTracker()
	r.Subscribe(func(evt router.Event) {
		conv := production.RouterEvent(evt)
		if err := pub.Publish(ctx, conv); err != nil {
			logger.Debug("publish router event failed", "error", err)
		}
		tr.routerEvent(evt)
	})
	loc.Subscribe(tr.locationChanged)

	app := host.New(host.WithLogger(logger), host.WithTracerProvider(rn.tp))
	defer app.Destroy()

	gate, stopGate := locationGate(cfg.Location.ReadyDelay)
	defer stopGate()

	c, err := bootnav.Setup(app, r,
		bootnav.WithPolicy(cfg.InitialNavigation),
		bootnav.WithLocationGate(gate),
		bootnav.WithLogger(logger),
		bootnav.WithTracerProvider(rn.tp),
		bootnav.WithPublisher(pub),
	)
	if err != nil {
		return nil, err
	}

	root, err := app.Bootstrap(ctx, &Shell{Title: cfg.Telemetry.ServiceName})
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	if c.Policy() != bootnav.PolicyDisabled {
		if err := tr.waitInitial(ctx); err != nil {
			return nil, fmt.Errorf("waiting for initial navigation: %w", err)
		}
	}

	res := &Result{Policy: c.Policy(), Root: root}
	if len(cfg.Location.Script) > 0 {
		feed := extensibility.NewLocationFeed(loc, cfg.Location.Script, cfg.Location.Interval)
		if res.FeedSteps, err = feed.Run(ctx); err != nil {
			return nil, fmt.Errorf("location script: %w", err)
		}
		if err := tr.waitQuiet(ctx); err != nil {
			return nil, fmt.Errorf("waiting for location script: %w", err)
		}
	}

	res.Current = r.Current()
	app.Destroy()
	res.Trace = rec.Trace()

	if err := writeOutputs(ctx, cfg.Trace, res); err != nil {
		return res, err
	}
	return res, nil
}

func locationGate(delay time.Duration) (bootnav.LocationGate, func()) {
	if delay <= 0 {
		return bootnav.ReadyGate{}, func() {}
	}
	g := bootnav.NewManualGate()
	t := time.AfterFunc(delay, g.Open)
	return g, func() { t.Stop() }
}

func writeOutputs(ctx context.Context, tc config.TraceConfig, res *Result) error {
	var errs []error
	if tc.Dir != "" {
		p, err := production.NewPersister(tc.Format, tc.Dir)
		if err == nil {
			err = p.Save(ctx, res.Trace)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("save trace: %w", err))
		} else {
			res.TracePath = tracePath(p, res.Trace.Name)
		}
	}
	if tc.DOT != "" {
		dot := (&production.DefaultVisualizer{}).ExportDOT(res.Trace)
		if err := os.WriteFile(tc.DOT, []byte(dot), 0o644); err != nil {
			errs = append(errs, fmt.Errorf("write dot: %w", err))
		}
	}
	return errors.Join(errs...)
}

func tracePath(p production.Persister, name string) string {
	switch pp := p.(type) {
	case *production.JSONPersister:
		return pp.Path(name)
	case *production.YAMLPersister:
		return pp.Path(name)
	}
	return ""
}
