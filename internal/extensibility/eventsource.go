package extensibility

import (
	"context"
	"time"

	"github.com/comalice/bootnav/router"
)

// Step names understood by LocationFeed besides plain paths.
const (
	StepBack    = "back"
	StepForward = "forward"
)

// LocationFeed replays a script of location changes into a
// router.Location, one step per tick. A step is StepBack, StepForward,
// or a path to push.
type LocationFeed struct {
	loc      router.Location
	steps    []string
	interval time.Duration
}

// NewLocationFeed creates a feed over loc. A non-positive interval
// replays without pausing.
func NewLocationFeed(loc router.Location, steps []string, interval time.Duration) *LocationFeed {
	return &LocationFeed{loc: loc, steps: append([]string(nil), steps...), interval: interval}
}

// Run replays every step and returns the number applied. It stops early
// with ctx's error.
func (f *LocationFeed) Run(ctx context.Context) (int, error) {
	var tick <-chan time.Time
	if f.interval > 0 {
		ticker := time.NewTicker(f.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	applied := 0
	for _, step := range f.steps {
		if tick != nil {
			select {
			case <-tick:
			case <-ctx.Done():
				return applied, ctx.Err()
			}
		} else if err := ctx.Err(); err != nil {
			return applied, err
		}
		if f.apply(step) {
			applied++
		}
	}
	return applied, nil
}

func (f *LocationFeed) apply(step string) bool {
	switch step {
	case StepBack:
		return f.loc.Back()
	case StepForward:
		return f.loc.Forward()
	default:
		f.loc.Go(step)
		return true
	}
}
