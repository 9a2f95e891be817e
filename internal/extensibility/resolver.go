package extensibility

import (
	"context"
	"log/slog"
	"time"

	"github.com/comalice/bootnav/internal/logging"
	"github.com/comalice/bootnav/router"
)

// StaticResolver resolves to v for every navigation.
func StaticResolver(v any) router.ResolveFunc {
	return func(context.Context, *router.Navigation) (any, error) {
		return v, nil
	}
}

// DelayedResolver resolves to v after d, or fails with the navigation's
// cancellation cause.
func DelayedResolver(v any, d time.Duration) router.ResolveFunc {
	return func(ctx context.Context, _ *router.Navigation) (any, error) {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			return v, nil
		case <-ctx.Done():
			return nil, context.Cause(ctx)
		}
	}
}

// LoggingResolver wraps inner and logs its duration and outcome.
func LoggingResolver(logger *slog.Logger, key string, inner router.ResolveFunc) router.ResolveFunc {
	logger = logging.OrNop(logger)
	return func(ctx context.Context, nav *router.Navigation) (any, error) {
		start := time.Now()
		v, err := inner(ctx, nav)
		logger.Debug("resolver finished",
			"key", key,
			"path", nav.Path,
			"elapsed", time.Since(start),
			"error", err,
		)
		return v, err
	}
}
