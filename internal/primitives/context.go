package primitives

import (
	"sort"
	"sync"
)

// Context is a concurrency-safe key/value store for data that guards and
// resolvers read during a navigation.
// Snapshot/Restore iterate the map for serialization.
type Context struct {
	data sync.Map
}

// NewContext creates an empty Context.
func NewContext() *Context {
	return &Context{}
}

// NewContextFrom creates a Context seeded with a copy of values.
func NewContextFrom(values map[string]any) *Context {
	c := NewContext()
	c.Restore(values)
	return c
}

// Get retrieves a value by key.
func (c *Context) Get(key string) (any, bool) {
	return c.data.Load(key)
}

// Set stores a value by key.
func (c *Context) Set(key string, val any) {
	c.data.Store(key, val)
}

// Delete removes a key.
func (c *Context) Delete(key string) {
	c.data.Delete(key)
}

// Keys returns all keys in sorted order.
func (c *Context) Keys() []string {
	var keys []string
	c.data.Range(func(k, _ any) bool {
		keys = append(keys, k.(string))
		return true
	})
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the stored data.
func (c *Context) Snapshot() map[string]any {
	snap := map[string]any{}
	c.data.Range(func(k, v any) bool {
		snap[k.(string)] = v
		return true
	})
	return snap
}

// Restore replaces the stored data with snap.
func (c *Context) Restore(snap map[string]any) {
	c.data.Range(func(k, _ any) bool {
		c.data.Delete(k)
		return true
	})
	for k, v := range snap {
		c.data.Store(k, v)
	}
}
