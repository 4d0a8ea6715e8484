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

// Package compress backs the -c/--compress and -z/--zstd-level flags. It
// is never called from the upload/download/relay state machines in
// internal/engine — the flags are parsed and threaded through
// TransferOptions, but the transfer paths never exercise compression, and
// neither does this package's caller graph.
package compress

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// Config mirrors the original tool's ZstdConfig: compression level and
// worker thread count.
type Config struct {
	Level   int
	Threads int
}

// CompressBytes compresses data at the given zstd level.
func CompressBytes(data []byte, level int) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

// DecompressBytes reverses CompressBytes.
func DecompressBytes(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

// NewReader wraps r with a streaming zstd decompressor, for symmetry with
// CompressBytes/DecompressBytes in case a future caller needs a streaming
// path rather than whole-buffer compression.
func NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(&decReaderCloser{dec: dec}), nil
}

type decReaderCloser struct {
	dec *zstd.Decoder
}

func (d *decReaderCloser) Read(p []byte) (int, error) {
	return d.dec.Read(p)
}
