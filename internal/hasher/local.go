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

// Package hasher computes streaming SHA-256 over a local file, and over a
// remote file via a fallback chain of shell commands.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/vaayu/vaayu/internal/core"
)

// ChunkSize is the fixed read chunk used by both the local and the remote
// hashing paths.
const ChunkSize = 1024 * 1024 // 1 MiB

// LocalSHA256 streams path through SHA-256 in ChunkSize reads and returns
// the lowercase hex digest. The file descriptor is released on every exit
// path.
func LocalSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(core.ErrFileNotFound, err.Error())
		}
		return "", errors.Wrap(core.ErrPermission, err.Error())
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, ChunkSize)
	// Wrapping f hides *os.File's WriterTo, so the copy reads through buf.
	if _, err := io.CopyBuffer(h, struct{ io.Reader }{f}, buf); err != nil {
		return "", errors.Wrap(core.ErrTransfer, err.Error())
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
