package router

import "sync"

// ChangeKind describes how a location change happened.
type ChangeKind string

const (
	ChangeBack    ChangeKind = "back"
	ChangeForward ChangeKind = "forward"
)

// LocationChange is delivered to location subscribers on back/forward.
type LocationChange struct {
	Path string
	Kind ChangeKind
}

// Location is the platform location the router reads and writes.
// Go records a new entry without notifying subscribers; Back and Forward
// notify subscribers, mirroring browser popstate semantics.
type Location interface {
	Path() string
	Go(path string)
	Back() bool
	Forward() bool
	Subscribe(fn func(LocationChange)) (unsubscribe func())
}

// MemoryLocation is an in-memory history stack.
type MemoryLocation struct {
	mu      sync.Mutex
	history []string
	index   int
	subs    map[int]func(LocationChange)
	nextSub int
}

// NewMemoryLocation creates a location positioned at initial.
func NewMemoryLocation(initial string) *MemoryLocation {
	if initial == "" {
		initial = "/"
	}
	return &MemoryLocation{
		history: []string{initial},
		subs:    make(map[int]func(LocationChange)),
	}
}

// Path returns the current path.
func (l *MemoryLocation) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.history[l.index]
}

// Go pushes path, discarding any forward entries.
func (l *MemoryLocation) Go(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.history[l.index] == path {
		return
	}
	l.history = append(l.history[:l.index+1], path)
	l.index++
}

// Back moves one entry back and notifies subscribers.
// It reports false when there is no earlier entry.
func (l *MemoryLocation) Back() bool {
	return l.move(-1, ChangeBack)
}

// Forward moves one entry forward and notifies subscribers.
func (l *MemoryLocation) Forward() bool {
	return l.move(1, ChangeForward)
}

func (l *MemoryLocation) move(delta int, kind ChangeKind) bool {
	l.mu.Lock()
	next := l.index + delta
	if next < 0 || next >= len(l.history) {
		l.mu.Unlock()
		return false
	}
	l.index = next
	change := LocationChange{Path: l.history[next], Kind: kind}
	subs := make([]func(LocationChange), 0, len(l.subs))
	for _, fn := range l.subs {
		subs = append(subs, fn)
	}
	l.mu.Unlock()

	for _, fn := range subs {
		fn(change)
	}
	return true
}

// Subscribe registers fn for back/forward changes.
func (l *MemoryLocation) Subscribe(fn func(LocationChange)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.subs, id)
	}
}

// History returns a copy of the history stack and the current index.
func (l *MemoryLocation) History() ([]string, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.history...), l.index
}
