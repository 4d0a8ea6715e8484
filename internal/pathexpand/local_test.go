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

package pathexpand

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, p string) {
	t.Helper()
	require.NoError(t, os.WriteFile(p, nil, 0o644))
}

func TestExpandLocalGlobsSortsWithinOneGlobButPreservesItemOrder(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.txt"))
	touch(t, filepath.Join(dir, "a.txt"))
	touch(t, filepath.Join(dir, "c.txt"))
	explicit := filepath.Join(dir, "z_explicit.txt")
	touch(t, explicit)

	got, err := ExpandLocalGlobs([]string{explicit, filepath.Join(dir, "*.txt")})
	require.NoError(t, err)

	want := []string{
		explicit,
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.txt"),
		filepath.Join(dir, "c.txt"),
	}
	assert.Equal(t, want, got)
}

func TestExpandLocalGlobsPassesThroughNonGlobPaths(t *testing.T) {
	got, err := ExpandLocalGlobs([]string{"/no/glob/here.txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/no/glob/here.txt"}, got)
}

func TestExpandLocalGlobsNoMatchesYieldsEmpty(t *testing.T) {
	dir := t.TempDir()
	got, err := ExpandLocalGlobs([]string{filepath.Join(dir, "*.missing")})
	require.NoError(t, err)
	assert.Empty(t, got)
}
