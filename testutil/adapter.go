// Package testutil provides fakes for exercising a bootnav.Coordinator
// without a real navigation engine or host.
package testutil

import (
	"context"
	"reflect"
	"sync"

	"github.com/comalice/bootnav"
)

// Navigator call names recorded by RecordingNavigator.
const (
	CallInstallLocationListener = "InstallLocationListener"
	CallBeginInitialNavigation  = "BeginInitialNavigation"
	CallSetPreActivationHook    = "SetPreActivationHook"
	CallEnablePreloading        = "EnablePreloading"
	CallEnableScrollRestoration = "EnableScrollRestoration"
	CallSetRootComponentType    = "SetRootComponentType"
)

// RecordingNavigator is a bootnav.Navigator that records every call.
// It does not implement bootnav.SettleNotifier; see SettlingNavigator.
type RecordingNavigator struct {
	// BeginErr is returned by BeginInitialNavigation.
	BeginErr error
	// OnBegin, if set, runs synchronously inside BeginInitialNavigation.
	OnBegin func(ctx context.Context)

	mu       sync.Mutex
	calls    []string
	hook     bootnav.PreActivationHook
	rootType reflect.Type
}

var _ bootnav.Navigator = (*RecordingNavigator)(nil)

func (n *RecordingNavigator) record(call string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, call)
}

func (n *RecordingNavigator) InstallLocationListener() {
	n.record(CallInstallLocationListener)
}

func (n *RecordingNavigator) BeginInitialNavigation(ctx context.Context) error {
	n.record(CallBeginInitialNavigation)
	if n.OnBegin != nil {
		n.OnBegin(ctx)
	}
	return n.BeginErr
}

func (n *RecordingNavigator) SetPreActivationHook(hook bootnav.PreActivationHook) {
	n.record(CallSetPreActivationHook)
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hook = hook
}

func (n *RecordingNavigator) EnablePreloading() {
	n.record(CallEnablePreloading)
}

func (n *RecordingNavigator) EnableScrollRestoration() {
	n.record(CallEnableScrollRestoration)
}

func (n *RecordingNavigator) SetRootComponentType(t reflect.Type) {
	n.record(CallSetRootComponentType)
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rootType = t
}

// Calls returns the recorded calls in order.
func (n *RecordingNavigator) Calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.calls...)
}

// Count returns how many times call was recorded.
func (n *RecordingNavigator) Count(call string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, got := range n.calls {
		if got == call {
			c++
		}
	}
	return c
}

// RootType returns the type passed to SetRootComponentType.
func (n *RecordingNavigator) RootType() reflect.Type {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.rootType
}

// ReachPreActivation simulates a navigation reaching the pre-activation
// extension point. With no hook installed it returns a closed channel.
func (n *RecordingNavigator) ReachPreActivation(ctx context.Context) (<-chan struct{}, error) {
	n.mu.Lock()
	hook := n.hook
	n.mu.Unlock()
	if hook == nil {
		ch := make(chan struct{})
		close(ch)
		return ch, nil
	}
	return hook(ctx)
}

// SettlingNavigator adds bootnav.SettleNotifier to RecordingNavigator.
type SettlingNavigator struct {
	RecordingNavigator

	settleMu sync.Mutex
	waiters  []func(error)
}

var _ bootnav.SettleNotifier = (*SettlingNavigator)(nil)

func (n *SettlingNavigator) AfterNextNavigation(fn func(err error)) {
	n.settleMu.Lock()
	defer n.settleMu.Unlock()
	n.waiters = append(n.waiters, fn)
}

// Settle simulates the next navigation settling with err.
func (n *SettlingNavigator) Settle(err error) {
	n.settleMu.Lock()
	waiters := n.waiters
	n.waiters = nil
	n.settleMu.Unlock()
	for _, fn := range waiters {
		fn(err)
	}
}

// Root is a fake bootnav.RootRef.
type Root struct {
	ID        bootnav.RootHandle
	Component any
}

func (r Root) Handle() bootnav.RootHandle {
	return r.ID
}

func (r Root) ComponentType() reflect.Type {
	return reflect.TypeOf(r.Component)
}

// Roots is a fake bootnav.RootRegistry. The zero value has no roots.
type Roots struct {
	mu    sync.Mutex
	first bootnav.RootHandle
	has   bool
}

// Compose records h as composed; only the first call sticks.
func (r *Roots) Compose(h bootnav.RootHandle) Root {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.has {
		r.first, r.has = h, true
	}
	return Root{ID: h}
}

func (r *Roots) FirstRoot() (bootnav.RootHandle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.first, r.has
}
