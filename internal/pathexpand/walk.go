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
	"path/filepath"
)

// TransferPair is one (source, destination) path pair, both absolute
// (or, for remote paths, fully-qualified relative to the server's default
// directory) after expansion.
type TransferPair struct {
	Source      string
	Destination string
}

// WalkLocalForUpload turns a list of already-glob-expanded local paths
// into a flat list of TransferPairs destined under remoteDir. Directories
// are walked recursively; the destination for each walked file mirrors
// its path relative to the directory's parent, joined under the
// directory's own basename via filepath.WalkDir +
// path.Join(remoteDir, basename(p), relpath).
func WalkLocalForUpload(paths []string, remoteDir string) ([]TransferPair, error) {
	var pairs []TransferPair
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			pairs = append(pairs, TransferPair{
				Source:      p,
				Destination: path.Join(remoteDir, filepath.Base(p)),
			})
			continue
		}
		base := filepath.Base(p)
		err = filepath.WalkDir(p, func(walked string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(p, walked)
			if err != nil {
				return err
			}
			pairs = append(pairs, TransferPair{
				Source:      walked,
				Destination: path.Join(remoteDir, base, filepath.ToSlash(rel)),
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return pairs, nil
}

// WalkRemoteForDownload stats each already-glob-expanded remote path; if
// it is a directory it recurses via lister.ReadDir, accumulating flat
// files with a destination relative to localDir. No directory-structure
// preservation is attempted beyond this relative layout (Non-goal).
func WalkRemoteForDownload(ctx context.Context, lister DirLister, paths []string, localDir string) ([]TransferPair, error) {
	var pairs []TransferPair
	var walk func(remotePath, rel string) error
	walk = func(remotePath, rel string) error {
		info, err := lister.Stat(ctx, remotePath)
		if err != nil {
			return err
		}
		if info == nil {
			return nil
		}
		if info.IsDir() {
			entries, err := lister.ReadDir(ctx, remotePath)
			if err != nil {
				return err
			}
			for _, e := range entries {
				childRel := e.Name()
				if rel != "" {
					childRel = path.Join(rel, e.Name())
				}
				if err := walk(path.Join(remotePath, e.Name()), childRel); err != nil {
					return err
				}
			}
			return nil
		}
		dest := rel
		if dest == "" {
			dest = path.Base(remotePath)
		}
		pairs = append(pairs, TransferPair{
			Source:      remotePath,
			Destination: filepath.Join(localDir, filepath.FromSlash(dest)),
		})
		return nil
	}

	for _, p := range paths {
		if err := walk(p, ""); err != nil {
			return nil, err
		}
	}
	return pairs, nil
}
