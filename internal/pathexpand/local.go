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

// Package pathexpand implements local glob expansion, remote wildcard
// expansion, and local/remote directory walking into flat TransferPair
// lists.
package pathexpand

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const globMeta = "*?["

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, globMeta)
}

func expandUser(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		if p == "~" {
			return home
		}
		return filepath.Join(home, p[2:])
	}
	return p
}

// ExpandLocalGlobs expands `~` and glob patterns in each input path,
// preserving the order between input items. Within a single glob's
// expansion, results are sorted lexicographically. Non-glob inputs pass
// through unchanged.
func ExpandLocalGlobs(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, raw := range paths {
		p := expandUser(raw)
		if !hasGlobMeta(p) {
			out = append(out, p)
			continue
		}
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, err
		}
		sort.Strings(matches)
		out = append(out, matches...)
	}
	return out, nil
}
