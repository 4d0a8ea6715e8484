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

package engine

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vaayu/vaayu/internal/pathexpand"
	"github.com/vaayu/vaayu/internal/session"
	"github.com/vaayu/vaayu/internal/stats"
)

// chunkSize is the fixed read/write chunk for every transfer path.
const chunkSize = 1024 * 1024 // 1 MiB

// Engine holds an optional progress sink and exposes Send/Get/Relay, the
// three transfer topologies, with identical orchestration skeletons and
// different per-file state machines.
type Engine struct {
	Sink stats.ProgressSink
}

// New creates an Engine with no progress sink.
func New() *Engine {
	return &Engine{}
}

// Send transfers localPaths to remoteDir over sess (local -> remote).
func (e *Engine) Send(ctx context.Context, sess session.FileOps, localPaths []string, remoteDir string, opts TransferOptions) (stats.Stats, error) {
	if err := sess.EnsureConnected(ctx); err != nil {
		return stats.Stats{}, err
	}
	expanded, err := pathexpand.ExpandLocalGlobs(localPaths)
	if err != nil {
		return stats.Stats{}, err
	}
	pairs, err := pathexpand.WalkLocalForUpload(expanded, remoteDir)
	if err != nil {
		return stats.Stats{}, err
	}

	var result stats.Stats
	start := time.Now()
	err = e.run(ctx, opts, len(pairs), func(ctx context.Context, i int) error {
		return e.uploadOne(ctx, sess, pairs[i], opts, &result)
	})
	result.AddDuration(elapsedSince(start))
	return result, err
}

// Get transfers remotePaths to localDir over sess (remote -> local).
func (e *Engine) Get(ctx context.Context, sess session.FileOps, remotePaths []string, localDir string, opts TransferOptions) (stats.Stats, error) {
	if err := sess.EnsureConnected(ctx); err != nil {
		return stats.Stats{}, err
	}
	expanded, err := pathexpand.ExpandRemoteGlobs(ctx, sess, remotePaths)
	if err != nil {
		return stats.Stats{}, err
	}
	pairs, err := pathexpand.WalkRemoteForDownload(ctx, sess, expanded, localDir)
	if err != nil {
		return stats.Stats{}, err
	}

	var result stats.Stats
	start := time.Now()
	err = e.run(ctx, opts, len(pairs), func(ctx context.Context, i int) error {
		return e.downloadOne(ctx, sess, pairs[i], opts, &result)
	})
	result.AddDuration(elapsedSince(start))
	return result, err
}

// Relay transfers each srcPaths[i] on srcSess to dstPaths[i] on dstSess
// (remote -> remote), paired index-wise.
func (e *Engine) Relay(ctx context.Context, srcSess, dstSess session.FileOps, srcPaths, dstPaths []string, opts TransferOptions) (stats.Stats, error) {
	if err := srcSess.EnsureConnected(ctx); err != nil {
		return stats.Stats{}, err
	}
	if err := dstSess.EnsureConnected(ctx); err != nil {
		return stats.Stats{}, err
	}
	n := len(srcPaths)
	if len(dstPaths) < n {
		n = len(dstPaths)
	}
	pairs := make([]pathexpand.TransferPair, n)
	for i := 0; i < n; i++ {
		pairs[i] = pathexpand.TransferPair{Source: srcPaths[i], Destination: dstPaths[i]}
	}

	var result stats.Stats
	start := time.Now()
	err := e.run(ctx, opts, len(pairs), func(ctx context.Context, i int) error {
		return e.relayOne(ctx, srcSess, dstSess, pairs[i], opts, &result)
	})
	result.AddDuration(elapsedSince(start))
	return result, err
}

// run is the common orchestration skeleton: a counting semaphore of
// opts.parallel() permits, acquired before each unit is spawned so the
// submission loop applies back-pressure, released on every exit path. The
// first unit error is returned after all units finish; other in-flight
// units are not canceled by one failure (no global cancellation).
func (e *Engine) run(ctx context.Context, opts TransferOptions, n int, unit func(ctx context.Context, i int) error) error {
	if n == 0 {
		return nil
	}
	sem := make(chan struct{}, opts.parallel())
	var wg sync.WaitGroup
	var errOnce sync.Once
	var firstErr error

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return err
		}
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := unit(ctx, i); err != nil {
				logrus.WithError(err).WithField("index", i).Debug("engine: unit failed")
				errOnce.Do(func() { firstErr = err })
			}
		}(i)
	}
	wg.Wait()
	return firstErr
}

// elapsedSince is a small helper so upload/download/relay can record
// duration consistently with the package's single time source.
func elapsedSince(start time.Time) float64 {
	return time.Since(start).Seconds()
}
