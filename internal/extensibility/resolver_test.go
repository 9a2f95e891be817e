package extensibility

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/comalice/bootnav/router"
)

func TestStaticResolver(t *testing.T) {
	v, err := StaticResolver("profile")(context.Background(), &router.Navigation{})
	if err != nil || v != "profile" {
		t.Errorf("got %v, %v", v, err)
	}
}

func TestDelayedResolver(t *testing.T) {
	v, err := DelayedResolver(7, 5*time.Millisecond)(context.Background(), &router.Navigation{})
	if err != nil || v != 7 {
		t.Errorf("got %v, %v", v, err)
	}

	cause := errors.New("superseded")
	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(cause)
	_, err = DelayedResolver(7, time.Hour)(ctx, &router.Navigation{})
	if !errors.Is(err, cause) {
		t.Errorf("want cancellation cause, got %v", err)
	}
}

func TestLoggingResolver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	called := false
	inner := func(context.Context, *router.Navigation) (any, error) {
		called = true
		return "ok", nil
	}
	v, err := LoggingResolver(logger, "user", inner)(context.Background(), &router.Navigation{Path: "/users/1"})
	if err != nil || v != "ok" {
		t.Errorf("got %v, %v", v, err)
	}
	if !called {
		t.Error("inner resolver not called")
	}
	out := buf.String()
	if !strings.Contains(out, "key=user") || !strings.Contains(out, "path=/users/1") {
		t.Errorf("unexpected log output: %s", out)
	}

	// A nil logger discards.
	if _, err := LoggingResolver(nil, "user", inner)(context.Background(), &router.Navigation{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
