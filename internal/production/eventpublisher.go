package production

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/comalice/bootnav"
	"github.com/comalice/bootnav/router"
)

// ChannelPublisher forwards lifecycle events to a Go channel.
// Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	ch      chan<- bootnav.Event
	dropped atomic.Int64
}

var _ bootnav.EventPublisher = (*ChannelPublisher)(nil)

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- bootnav.Event) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(ctx context.Context, evt bootnav.Event) error {
	select {
	case p.ch <- evt:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.dropped.Add(1)
		return nil
	}
}

// Dropped reports how many events were discarded because the channel was full.
func (p *ChannelPublisher) Dropped() int64 {
	return p.dropped.Load()
}

func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}

// Recorder collects coordinator and router events into a Trace.
type Recorder struct {
	mu    sync.Mutex
	trace Trace
}

var _ bootnav.EventPublisher = (*Recorder)(nil)

// NewRecorder starts a trace named name.
func NewRecorder(name string, policy bootnav.TimingPolicy) *Recorder {
	return &Recorder{trace: Trace{Name: name, Policy: policy.Resolved(), Started: time.Now()}}
}

func (r *Recorder) Publish(_ context.Context, evt bootnav.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trace.Events = append(r.trace.Events, evt)
	return nil
}

// RecordRouter is a router.Router subscriber.
func (r *Recorder) RecordRouter(evt router.Event) {
	_ = r.Publish(context.Background(), RouterEvent(evt))
}

// Trace returns a copy of what has been recorded so far.
func (r *Recorder) Trace() Trace {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.trace
	t.Events = append([]bootnav.Event(nil), r.trace.Events...)
	return t
}

// Fanout publishes to every non-nil publisher and joins their errors.
func Fanout(pubs ...bootnav.EventPublisher) bootnav.EventPublisher {
	var live []bootnav.EventPublisher
	for _, p := range pubs {
		if p != nil {
			live = append(live, p)
		}
	}
	return fanout(live)
}

type fanout []bootnav.EventPublisher

func (f fanout) Publish(ctx context.Context, evt bootnav.Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
