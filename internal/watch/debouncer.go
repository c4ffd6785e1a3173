// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package watch

import (
	"sync"
	"time"
)

// Debouncer collects events until none arrive for the window, then delivers
// them together. Editors often write a file several times per save and
// Chrome's protocol ships as two files regenerated at once; both should
// cause a single rebuild.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	timer   *time.Timer
	events  []Event
	onFlush func([]Event)
	stopped bool
}

// NewDebouncer creates a debouncer with the given window. onFlush is called
// from a timer goroutine and should not block.
func NewDebouncer(window time.Duration, onFlush func([]Event)) *Debouncer {
	return &Debouncer{
		window:  window,
		onFlush: onFlush,
	}
}

// Add records an event and restarts the window.
func (d *Debouncer) Add(e Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.events = append(d.events, e)
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

// flush delivers the accumulated events.
func (d *Debouncer) flush() {
	d.mu.Lock()
	events := d.events
	d.events = nil
	d.timer = nil
	d.mu.Unlock()

	// Call onFlush outside of lock to prevent deadlocks
	if d.onFlush != nil && len(events) > 0 {
		d.onFlush(events)
	}
}

// Stop discards pending events. Events added afterwards are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.events = nil
}

// Pending returns the number of events waiting for the window to close.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.events)
}
