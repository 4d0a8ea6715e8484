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

// Package stats implements the transfer statistics accumulator.
package stats

import "sync"

// Stats aggregates files transferred, bytes landed, wall-clock duration,
// and retries spent across one or more Engine method invocations.
//
// DurationS accumulates with += across successive calls on the same
// instance — start from a fresh Stats{} for a single call's duration.
type Stats struct {
	mu sync.Mutex

	Files     int64
	Bytes     int64
	DurationS float64
	Retries   int64
}

// Snapshot returns a copy safe to read without holding the mutex.
func (s *Stats) Snapshot() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{Files: s.Files, Bytes: s.Bytes, DurationS: s.DurationS, Retries: s.Retries}
}

// AddFile records one successfully completed unit, its byte count, and the
// retries it took (attempts-1). Only called from a unit's terminal Done
// step, but guarded anyway since units run concurrently.
func (s *Stats) AddFile(bytesTransferred int64, attempts int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Files++
	s.Bytes += bytesTransferred
	if attempts > 1 {
		s.Retries += int64(attempts - 1)
	}
}

// AddDuration accumulates wall-clock time spent in one Engine method call.
func (s *Stats) AddDuration(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DurationS += seconds
}

// Merge additively combines other into s. Commutative.
func (s *Stats) Merge(other Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Files += other.Files
	s.Bytes += other.Bytes
	s.DurationS += other.DurationS
	s.Retries += other.Retries
}

// ProgressSink is the contract the Engine calls into to report progress.
// It is satisfied by internal/progress's mpb-backed renderer; callers that
// don't want a terminal UI pass nil (all Engine calls into Sink are
// nil-checked).
type ProgressSink interface {
	OnTaskStart(name string, total int64)
	OnAdvance(name string, n int64)
	OnTaskDone(name string)
}
