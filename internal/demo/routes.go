package demo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/comalice/bootnav/internal/config"
	"github.com/comalice/bootnav/internal/extensibility"
	"github.com/comalice/bootnav/internal/logging"
	"github.com/comalice/bootnav/internal/primitives"
	"github.com/comalice/bootnav/router"
)

// BuildRoutes turns route declarations into router routes. Guards are
// evaluated against session.
func BuildRoutes(decls []config.RouteConfig, session *primitives.Context, logger *slog.Logger) ([]router.Route, error) {
	logger = logging.OrNop(logger)
	routes := make([]router.Route, 0, len(decls))
	for _, d := range decls {
		r := router.Route{Path: d.Path, Component: d.Component}

		for _, expr := range d.Guards {
			g, err := extensibility.ExpressionGuard(expr, session)
			if err != nil {
				return nil, fmt.Errorf("route %s: %w", d.Path, err)
			}
			r.Guards = append(r.Guards, g)
		}

		if len(d.Resolve) > 0 {
			r.Resolve = make(map[string]router.ResolveFunc, len(d.Resolve))
			for key, val := range d.Resolve {
				var fn router.ResolveFunc
				if d.Delay > 0 {
					fn = extensibility.DelayedResolver(val, d.Delay)
				} else {
					fn = extensibility.StaticResolver(val)
				}
				r.Resolve[key] = extensibility.LoggingResolver(logger, key, fn)
			}
		}

		if d.Preload {
			path, delay := d.Path, d.Delay
			r.Preload = func(ctx context.Context) error {
				if delay <= 0 {
					return nil
				}
				t := time.NewTimer(delay)
				defer t.Stop()
				select {
				case <-t.C:
					logger.Debug("route preloaded", "path", path)
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
		routes = append(routes, r)
	}
	return routes, nil
}
