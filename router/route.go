package router

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Trigger records what started a navigation.
type Trigger string

const (
	TriggerInitial    Trigger = "initial"
	TriggerImperative Trigger = "imperative"
	TriggerPopstate   Trigger = "popstate"
)

// Navigation is a single pass through the pipeline. Guards must treat it
// as read-only; resolvers run sequentially and their results land in Data.
type Navigation struct {
	ID      uuid.UUID
	Path    string
	Trigger Trigger
	Route   *Route
	Params  map[string]string
	Data    map[string]any
}

// Guard decides whether a navigation may proceed.
type Guard func(ctx context.Context, nav *Navigation) (bool, error)

// ResolveFunc produces a value stored under its key in Navigation.Data.
type ResolveFunc func(ctx context.Context, nav *Navigation) (any, error)

// Route maps a path pattern to a component.
//
// Patterns are absolute. A ":name" segment captures one segment into
// Params; a trailing "**" matches any remainder.
type Route struct {
	Path      string
	Component string
	Guards    []Guard
	Resolve   map[string]ResolveFunc
	// Preload runs once in the background after preloading is enabled.
	Preload func(ctx context.Context) error
}

type compiledRoute struct {
	route    *Route
	segments []string
	wildcard bool
}

func compile(routes []Route) ([]*compiledRoute, error) {
	seen := make(map[string]bool, len(routes))
	out := make([]*compiledRoute, 0, len(routes))
	for i := range routes {
		r := &routes[i]
		if !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("route %d: path %q must start with /", i, r.Path)
		}
		if seen[r.Path] {
			return nil, fmt.Errorf("route %d: duplicate path %q", i, r.Path)
		}
		seen[r.Path] = true

		segs := splitPath(r.Path)
		cr := &compiledRoute{route: r}
		for j, s := range segs {
			if s == "**" {
				if j != len(segs)-1 {
					return nil, fmt.Errorf("route %q: ** must be the last segment", r.Path)
				}
				cr.wildcard = true
				break
			}
			cr.segments = append(cr.segments, s)
		}
		out = append(out, cr)
	}
	return out, nil
}

// match returns the first route, in declaration order, matching path.
func match(routes []*compiledRoute, path string) (*Route, map[string]string, bool) {
	segs := splitPath(path)
	for _, cr := range routes {
		if params, ok := cr.match(segs); ok {
			return cr.route, params, true
		}
	}
	return nil, nil, false
}

func (cr *compiledRoute) match(segs []string) (map[string]string, bool) {
	if len(segs) < len(cr.segments) || (!cr.wildcard && len(segs) != len(cr.segments)) {
		return nil, false
	}
	params := map[string]string{}
	for i, want := range cr.segments {
		if strings.HasPrefix(want, ":") {
			params[want[1:]] = segs[i]
			continue
		}
		if want != segs[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(p string) []string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

func sortedKeys(m map[string]ResolveFunc) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
