/*
 * Copyright 2026 The FileRipper Team
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package watch implements a debounced filesystem event batcher used by
// continuous-sync ("-W/--watch") mode. It only decides
// *when* to re-invoke a send; the send itself is safe to repeat because
// its state machine resumes via .part and publishes via idempotent atomic
// rename (see internal/engine).
package watch

import (
	"context"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// OnBatch is invoked with the sorted, deduplicated set of changed paths
// once debounce has elapsed since the last flush.
type OnBatch func(paths []string)

// Watcher batches non-directory change events across one or more watched
// roots and flushes them to onBatch once debounce has passed since the
// last flush.
type Watcher struct {
	debounce time.Duration
	onBatch  OnBatch

	mu      sync.Mutex
	pending map[string]struct{}
	last    time.Time
}

// New creates a Watcher with the given debounce interval and callback.
func New(debounce time.Duration, onBatch OnBatch) *Watcher {
	return &Watcher{
		debounce: debounce,
		onBatch:  onBatch,
		pending:  make(map[string]struct{}),
	}
}

// Run watches roots until ctx is canceled, adding non-directory events to
// the pending batch and flushing once debounce has elapsed since the last
// flush.
func (w *Watcher) Run(ctx context.Context, roots []string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	for _, root := range roots {
		if err := fsw.Add(root); err != nil {
			return err
		}
	}

	w.last = time.Now()
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.record(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logrus.WithError(err).Debug("watch: fsnotify error")
		case <-ticker.C:
			w.maybeFlush()
		}
	}
}

func (w *Watcher) record(ev fsnotify.Event) {
	if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
		return
	}
	w.mu.Lock()
	w.pending[ev.Name] = struct{}{}
	w.mu.Unlock()
}

func (w *Watcher) maybeFlush() {
	w.mu.Lock()
	if time.Since(w.last) <= w.debounce || len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.last = time.Now()
	w.mu.Unlock()

	sort.Strings(paths)
	logrus.WithField("count", len(paths)).Debug("watch: flushing batch")
	w.onBatch(paths)
}
