// Package debounce delays search dispatch until input pauses, so a remote
// search is not issued on every keystroke.
package debounce

import (
	"strings"
	"sync"
	"time"
)

// Debouncer is a cancellable delayed single-shot action. After the observed
// term stops changing for the quiescence window, exactly one resolution
// fires: onReset for an empty term, onSearch for anything else. A new term
// before the window elapses cancels the pending resolution and restarts the
// timer; at most one resolution is pending at any time.
type Debouncer struct {
	window   time.Duration
	onReset  func()
	onSearch func(term string)

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// New creates a Debouncer with the given quiescence window.
func New(window time.Duration, onReset func(), onSearch func(term string)) *Debouncer {
	return &Debouncer{window: window, onReset: onReset, onSearch: onSearch}
}

// Set observes a new value of the search term and restarts the timer.
func (d *Debouncer) Set(term string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.window, func() { d.fire(gen, term) })
}

// fire resolves a scheduled term. The generation check covers the window
// where the timer has already fired but Set or Stop superseded it before
// this goroutine ran; Timer.Stop alone cannot cancel that resolution.
func (d *Debouncer) fire(gen uint64, term string) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	if strings.TrimSpace(term) == "" {
		d.onReset()
		return
	}
	d.onSearch(term)
}

// Stop cancels any pending resolution.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
