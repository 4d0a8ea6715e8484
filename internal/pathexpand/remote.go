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
	"context"
	"os"
	"path"
)

// DirLister is the minimal remote listing surface ExpandRemoteGlobs and
// WalkRemoteForDownload need. internal/session.Session satisfies it.
type DirLister interface {
	ReadDir(ctx context.Context, path string) ([]os.FileInfo, error)
	Stat(ctx context.Context, path string) (os.FileInfo, error)
}

// ExpandRemoteGlobs expands glob metacharacters in each remote path by
// listing its parent directory and filtering entries against the tail
// pattern using path.Match (POSIX fnmatch-equivalent). Non-glob paths pass
// through unchanged.
func ExpandRemoteGlobs(ctx context.Context, lister DirLister, paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !hasGlobMeta(p) {
			out = append(out, p)
			continue
		}
		parent := "."
		pattern := p
		if idx := lastSlash(p); idx >= 0 {
			parent = p[:idx]
			if parent == "" {
				parent = "/"
			}
			pattern = p[idx+1:]
		}
		entries, err := lister.ReadDir(ctx, parent)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			ok, err := path.Match(pattern, e.Name())
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, path.Join(parent, e.Name()))
			}
		}
	}
	return out, nil
}

func lastSlash(p string) int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			return i
		}
	}
	return -1
}
