package engine

import "time"

// Checks if a write event for name falls outside the debounce window.
func (w *Watcher) shouldEmit(name string) bool {
	now := time.Now()
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	last, exists := w.lastEmitted[name]
	if exists && now.Sub(last) < w.debounceInterval {
		return false
	}
	w.lastEmitted[name] = now
	return true
}

// Marks name as just reported.
func (w *Watcher) markEmitted(name string) {
	w.debounceMu.Lock()
	w.lastEmitted[name] = time.Now()
	w.debounceMu.Unlock()
}

// Drops the debounce state of a removed file.
func (w *Watcher) forget(name string) {
	w.debounceMu.Lock()
	delete(w.lastEmitted, name)
	w.debounceMu.Unlock()
}
