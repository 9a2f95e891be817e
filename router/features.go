package router

import "sync"

// EnablePreloading loads every route with a Preload func once, in the
// background. Later calls are no-ops.
func (r *Router) EnablePreloading() {
	if !r.preloading.CompareAndSwap(false, true) {
		return
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		var wg sync.WaitGroup
		for _, cr := range r.routes {
			route := cr.route
			if route.Preload == nil {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := route.Preload(r.baseCtx)
				if err != nil {
					r.logger.Warn("preload failed", "path", route.Path, "error", err)
				}
				r.publish(Event{Type: Preloaded, Path: route.Path, Err: err})
			}()
		}
		wg.Wait()
	}()
}

// PreloadingEnabled reports whether EnablePreloading has been called.
func (r *Router) PreloadingEnabled() bool {
	return r.preloading.Load()
}

// EnableScrollRestoration makes popstate navigations emit a Scroll event
// carrying the position saved for their path.
func (r *Router) EnableScrollRestoration() {
	r.scrolling.Store(true)
}

// ScrollRestorationEnabled reports whether EnableScrollRestoration has
// been called.
func (r *Router) ScrollRestorationEnabled() bool {
	return r.scrolling.Load()
}

// SaveScroll records the scroll offset for path.
func (r *Router) SaveScroll(path string, y int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scroll[path] = y
}

func (r *Router) restoreScroll(nav *Navigation) {
	if !r.scrolling.Load() || nav.Trigger != TriggerPopstate {
		return
	}
	r.mu.Lock()
	y, ok := r.scroll[nav.Path]
	r.mu.Unlock()
	if ok {
		r.publish(Event{Type: Scroll, ID: nav.ID, Path: nav.Path, Trigger: nav.Trigger, ScrollY: y})
	}
}
