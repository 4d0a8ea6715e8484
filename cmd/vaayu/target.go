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

package main

import "strings"

// ParseSSHTarget splits "user@host" into (user, host); a bare host with no
// "@" yields an empty user, which callers fall back to -u/--username for.
func ParseSSHTarget(target string) (user, host string) {
	if i := strings.IndexByte(target, '@'); i >= 0 {
		return target[:i], target[i+1:]
	}
	return "", target
}
