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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/vaayu/vaayu/internal/session"
)

// fakeFileInfo is the minimal os.FileInfo a fake remote filesystem needs.
type fakeFileInfo struct {
	name  string
	size  int64
	isDir bool
}

func (f fakeFileInfo) Name() string       { return f.name }
func (f fakeFileInfo) Size() int64        { return f.size }
func (f fakeFileInfo) Mode() fs.FileMode  { return 0o644 }
func (f fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (f fakeFileInfo) IsDir() bool        { return f.isDir }
func (f fakeFileInfo) Sys() any           { return nil }

// fakeRemoteFile is an in-memory seekable handle over one entry of a
// fakeFS, satisfying session.RemoteFile.
type fakeRemoteFile struct {
	fs   *fakeFS
	path string
	pos  int64
}

func (f *fakeRemoteFile) Read(p []byte) (int, error) {
	data := f.fs.get(f.path)
	if f.pos >= int64(len(data)) {
		return 0, io.EOF
	}
	n := copy(p, data[f.pos:])
	f.pos += int64(n)
	return n, nil
}

func (f *fakeRemoteFile) Write(p []byte) (int, error) {
	f.fs.writeAt(f.path, f.pos, p)
	f.pos += int64(len(p))
	return len(p), nil
}

func (f *fakeRemoteFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		f.pos = offset
	case io.SeekCurrent:
		f.pos += offset
	case io.SeekEnd:
		f.pos = int64(len(f.fs.get(f.path))) + offset
	}
	return f.pos, nil
}

func (f *fakeRemoteFile) Close() error { return nil }

var _ session.RemoteFile = (*fakeRemoteFile)(nil)

// fakeFS is an in-memory remote filesystem implementing session.FileOps,
// standing in for a real *session.Session in engine tests.
type fakeFS struct {
	mu    sync.Mutex
	files map[string][]byte

	// failOpensRemaining, when >0, makes the next that many OpenRemote
	// calls return a transient error, to exercise retry.Do.
	failOpensRemaining int
}

func newFakeFS() *fakeFS {
	return &fakeFS{files: make(map[string][]byte)}
}

func (f *fakeFS) put(path string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	f.files[path] = cp
}

func (f *fakeFS) get(path string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.files[path]
}

func (f *fakeFS) writeAt(path string, offset int64, p []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur := f.files[path]
	need := offset + int64(len(p))
	if int64(len(cur)) < need {
		grown := make([]byte, need)
		copy(grown, cur)
		cur = grown
	}
	copy(cur[offset:], p)
	f.files[path] = cur
}

func (f *fakeFS) EnsureConnected(ctx context.Context) error { return nil }

func (f *fakeFS) Stat(ctx context.Context, p string) (fs.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if data, ok := f.files[p]; ok {
		return fakeFileInfo{name: path.Base(p), size: int64(len(data))}, nil
	}
	prefix := strings.TrimSuffix(p, "/") + "/"
	for name := range f.files {
		if strings.HasPrefix(name, prefix) {
			return fakeFileInfo{name: path.Base(p), isDir: true}, nil
		}
	}
	return nil, nil
}

func (f *fakeFS) Makedirs(ctx context.Context, p string) error { return nil }

func (f *fakeFS) OpenRemote(ctx context.Context, p, mode string) (session.RemoteFile, error) {
	f.mu.Lock()
	if f.failOpensRemaining > 0 {
		f.failOpensRemaining--
		f.mu.Unlock()
		return nil, fmt.Errorf("simulated transient open failure")
	}
	if mode == "wb" {
		f.files[p] = nil
	}
	f.mu.Unlock()

	return &fakeRemoteFile{fs: f, path: p}, nil
}

func (f *fakeFS) Rename(ctx context.Context, src, dst string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[dst] = f.files[src]
	delete(f.files, src)
	return nil
}

func (f *fakeFS) Remove(ctx context.Context, p string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, p)
}

func (f *fakeFS) ReadDir(ctx context.Context, p string) ([]fs.FileInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := strings.TrimSuffix(p, "/") + "/"
	seen := map[string]bool{}
	var out []fs.FileInfo
	for name, data := range f.files {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rel := strings.TrimPrefix(name, prefix)
		if idx := strings.IndexByte(rel, '/'); idx >= 0 {
			rel = rel[:idx]
		}
		if seen[rel] {
			continue
		}
		seen[rel] = true
		out = append(out, fakeFileInfo{name: rel, size: int64(len(data))})
	}
	return out, nil
}

// RunCommand only understands the sha256sum form of the remote hashing
// chain, which is sufficient to exercise internal/engine's Verify step;
// internal/hasher/remote_test.go covers the full fallback chain.
func (f *fakeFS) RunCommand(ctx context.Context, cmd string) (string, int, error) {
	const prefix = "sha256sum -- '"
	if !strings.HasPrefix(cmd, prefix) {
		return "", 1, fmt.Errorf("fake remote does not understand command: %s", cmd)
	}
	escaped := strings.TrimSuffix(strings.TrimPrefix(cmd, prefix), "'")
	p := strings.ReplaceAll(escaped, `'\''`, "'")
	data := f.get(p)
	if data == nil {
		return "", 1, nil
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s  %s\n", hex.EncodeToString(sum[:]), p), 0, nil
}

var _ session.FileOps = (*fakeFS)(nil)

// mismatchingFS wraps a fakeFS but always reports a wrong remote hash, to
// exercise the Verify step's hash-mismatch path deterministically.
type mismatchingFS struct {
	*fakeFS
}

func (m *mismatchingFS) RunCommand(ctx context.Context, cmd string) (string, int, error) {
	return strings.Repeat("0", 64) + "  corrupt\n", 0, nil
}

var _ session.FileOps = (*mismatchingFS)(nil)
