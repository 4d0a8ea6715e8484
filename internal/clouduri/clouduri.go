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

// Package clouduri detects cloud storage URI schemes so a caller can
// reject an s3://, gcs://, or ftp:// target with a clear error before the
// SFTP-only engine ever sees it; no cloud backend is implemented here or
// anywhere in vaayu.
package clouduri

import "strings"

var cloudSchemes = map[string]bool{
	"s3":  true,
	"gcs": true,
	"ftp": true,
}

// DetectScheme returns the lowercase scheme of uri ("s3", "gcs", ...), or
// "" if uri has no "scheme://" prefix.
func DetectScheme(uri string) string {
	if idx := strings.Index(uri, "://"); idx >= 0 {
		return strings.ToLower(uri[:idx])
	}
	return ""
}

// IsCloudURI reports whether uri names one of the known cloud schemes.
func IsCloudURI(uri string) bool {
	return cloudSchemes[DetectScheme(uri)]
}

// NotImplementedHint returns the user-facing message for a recognized but
// unimplemented cloud scheme.
func NotImplementedHint(scheme string) string {
	return "cloud scheme not implemented: " + scheme
}
