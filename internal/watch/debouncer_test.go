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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu      sync.Mutex
	batches [][]Event
}

func (c *collector) flush(events []Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches = append(c.batches, events)
}

func (c *collector) get() [][]Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]Event(nil), c.batches...)
}

func TestDebouncer_SingleEvent(t *testing.T) {
	var c collector
	debouncer := NewDebouncer(50*time.Millisecond, c.flush)
	defer debouncer.Stop()

	debouncer.Add(newEvent("/tmp/protocol.json", OpModified))

	// Wait for debounce window
	time.Sleep(150 * time.Millisecond)

	batches := c.get()
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 1)
	assert.Equal(t, "/tmp/protocol.json", batches[0][0].Path)
	assert.Equal(t, "protocol.json", batches[0][0].Name)
	assert.Equal(t, OpModified, batches[0][0].Op)
}

func TestDebouncer_BatchesRapidEvents(t *testing.T) {
	var c collector
	debouncer := NewDebouncer(50*time.Millisecond, c.flush)
	defer debouncer.Stop()

	debouncer.Add(newEvent("/tmp/browser_protocol.json", OpModified))
	time.Sleep(10 * time.Millisecond)
	debouncer.Add(newEvent("/tmp/js_protocol.json", OpCreated))
	time.Sleep(10 * time.Millisecond)
	debouncer.Add(newEvent("/tmp/browser_protocol.json", OpModified))
	assert.Equal(t, 3, debouncer.Pending())

	// Wait for debounce window after last event
	time.Sleep(150 * time.Millisecond)

	batches := c.get()
	require.Len(t, batches, 1)
	assert.Len(t, batches[0], 3)
	assert.Equal(t, []string{"/tmp/browser_protocol.json", "/tmp/js_protocol.json"}, Paths(batches[0]))
	assert.Equal(t, 0, debouncer.Pending())
}

func TestDebouncer_SeparateWindows(t *testing.T) {
	var c collector
	debouncer := NewDebouncer(30*time.Millisecond, c.flush)
	defer debouncer.Stop()

	debouncer.Add(newEvent("/tmp/protocol.json", OpModified))
	time.Sleep(120 * time.Millisecond)
	debouncer.Add(newEvent("/tmp/protocol.json", OpModified))
	time.Sleep(120 * time.Millisecond)

	assert.Len(t, c.get(), 2)
}

func TestDebouncer_StopDiscardsPending(t *testing.T) {
	var c collector
	debouncer := NewDebouncer(50*time.Millisecond, c.flush)

	debouncer.Add(newEvent("/tmp/protocol.json", OpModified))
	debouncer.Stop()
	debouncer.Add(newEvent("/tmp/protocol.json", OpModified))

	time.Sleep(150 * time.Millisecond)
	assert.Empty(t, c.get())
	assert.Equal(t, 0, debouncer.Pending())
}
