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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaayu/vaayu/internal/pathexpand"
	"github.com/vaayu/vaayu/internal/stats"
)

func writeTempFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestUploadOneWritesChunkedAndVerifies(t *testing.T) {
	dir := t.TempDir()
	// 5 MiB at a 1 MiB chunk size => 5 write calls, per spec scenario 1.
	data := bytes.Repeat([]byte{0xAB}, 5*chunkSize)
	src := writeTempFile(t, dir, "big.bin", data)

	fs := newFakeFS()
	e := New()
	var result stats.Stats

	err := e.uploadOne(context.Background(), fs, pathexpand.TransferPair{
		Source: src, Destination: "/remote/big.bin",
	}, TransferOptions{Retries: 0, Backoff: time.Millisecond, Verify: true}, &result)

	require.NoError(t, err)
	assert.Equal(t, data, fs.get("/remote/big.bin"))
	assert.Nil(t, fs.get("/remote/big.bin.part"))
	snap := result.Snapshot()
	assert.Equal(t, int64(1), snap.Files)
	assert.Equal(t, int64(len(data)), snap.Bytes)
}

func TestUploadOneResumesFromPartial(t *testing.T) {
	dir := t.TempDir()
	data := bytes.Repeat([]byte{0x42}, 3*chunkSize+17)
	src := writeTempFile(t, dir, "resume.bin", data)

	fs := newFakeFS()
	// Pre-seed a partial .part with the first two chunks already landed.
	fs.put("/remote/resume.bin.part", data[:2*chunkSize])

	e := New()
	var result stats.Stats
	err := e.uploadOne(context.Background(), fs, pathexpand.TransferPair{
		Source: src, Destination: "/remote/resume.bin",
	}, TransferOptions{Retries: 0, Backoff: time.Millisecond, Verify: true}, &result)

	require.NoError(t, err)
	assert.Equal(t, data, fs.get("/remote/resume.bin"))
}

func TestUploadOneRetriesTransientOpenFailure(t *testing.T) {
	dir := t.TempDir()
	src := writeTempFile(t, dir, "small.bin", []byte("hello world"))

	fs := newFakeFS()
	fs.failOpensRemaining = 2 // fails twice, succeeds on the 3rd attempt

	e := New()
	var result stats.Stats
	err := e.uploadOne(context.Background(), fs, pathexpand.TransferPair{
		Source: src, Destination: "/remote/small.bin",
	}, TransferOptions{Retries: 5, Backoff: time.Millisecond, Verify: true}, &result)

	require.NoError(t, err)
	assert.Equal(t, []byte("hello world"), fs.get("/remote/small.bin"))
	assert.Equal(t, int64(2), result.Snapshot().Retries)
}

func TestUploadOneFailsOnHashMismatch(t *testing.T) {
	dir := t.TempDir()
	src := writeTempFile(t, dir, "tamper.bin", []byte("original content"))

	fs := newFakeFS()
	e := New()
	var result stats.Stats

	// mismatchingFS reports an all-zero remote digest, so Verify's
	// comparison against the local hash fails deterministically.
	err := e.uploadOne(context.Background(), &mismatchingFS{fakeFS: fs}, pathexpand.TransferPair{
		Source: src, Destination: "/remote/tamper.bin",
	}, TransferOptions{Retries: 0, Backoff: time.Millisecond, Verify: true}, &result)

	require.Error(t, err)
}
