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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tombee/cdpgen/internal/log"
)

// DefaultWindow is the quiet period before a batch of changes is handled.
const DefaultWindow = 200 * time.Millisecond

// Watcher reports changes to a fixed set of files. It watches their
// directories rather than the files themselves, since editors and download
// tools often replace a file by renaming over it, which ends a file watch.
type Watcher struct {
	files     map[string]bool
	watcher   *fsnotify.Watcher
	eventChan chan Event
	logger    *slog.Logger
	stopOnce  sync.Once
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewWatcher creates a watcher for paths. The files need not exist yet but
// their directories must.
func NewWatcher(paths []string, logger *slog.Logger) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("no files to watch")
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to get absolute path: %w", err)
		}
		files[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	return &Watcher{
		files:     files,
		watcher:   fsw,
		eventChan: make(chan Event, 100), // Buffered channel to prevent blocking
		logger:    log.WithComponent(logger, "watch"),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}, nil
}

// Start begins watching for file events.
func (w *Watcher) Start(ctx context.Context) {
	go w.eventLoop(ctx)
	w.logger.Debug("file watcher started", "files", len(w.files))
}

// Stop stops the watcher and releases resources. Start must have been
// called.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.doneCh
	return w.watcher.Close()
}

// Events returns a channel that receives file events. It is closed when
// the watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.eventChan
}

func (w *Watcher) eventLoop(ctx context.Context) {
	defer close(w.doneCh)
	defer close(w.eventChan)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				w.logger.Warn("file watcher event channel closed")
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.logger.Warn("file watcher error channel closed")
				return
			}
			w.logger.Error("file watcher error", log.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := filepath.Clean(event.Name)
	if !w.files[path] {
		return
	}
	op, ok := opFor(event.Op)
	if !ok {
		w.logger.Debug("ignoring unmapped event", "op", event.Op.String(), "path", path)
		return
	}

	select {
	case w.eventChan <- newEvent(path, op):
		w.logger.Debug("file event", "op", string(op), "path", path)
	default:
		w.logger.Warn("event channel full, dropping event", "op", string(op), "path", path)
	}
}

// Options configures Run.
type Options struct {
	// Window is the debounce window. Defaults to DefaultWindow.
	Window time.Duration

	Logger *slog.Logger
}

// Run calls fn with each settled batch of changes to paths until ctx is
// done. A failing fn is logged and the loop keeps watching: a document
// caught half-written will compile on the next save. Run returns nil when
// ctx ends.
func Run(ctx context.Context, paths []string, opts Options, fn func(context.Context, []Event) error) error {
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	w, err := NewWatcher(paths, logger)
	if err != nil {
		return err
	}
	w.Start(ctx)
	defer w.Stop()

	var (
		mu      sync.Mutex
		pending []Event
	)
	ready := make(chan struct{}, 1)
	deb := NewDebouncer(opts.Window, func(events []Event) {
		mu.Lock()
		pending = append(pending, events...)
		mu.Unlock()
		select {
		case ready <- struct{}{}:
		default:
		}
	})
	defer deb.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-w.Events():
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("file watcher stopped")
			}
			deb.Add(e)
		case <-ready:
			mu.Lock()
			batch := pending
			pending = nil
			mu.Unlock()
			if len(batch) == 0 {
				continue
			}
			if err := fn(ctx, batch); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Warn("rebuild failed, waiting for the next change", log.Error(err))
			}
		}
	}
}
