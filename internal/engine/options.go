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

// Package engine implements the transfer scheduler, the per-file
// upload/download/relay state machines, the resume/atomic-rename
// protocol, and the verification and retry policies built on top of them.
package engine

import (
	"runtime"
	"time"
)

// TransferOptions configures one Send/Get/Relay call.
type TransferOptions struct {
	Parallel      int // 0 means DefaultConcurrency()
	Retries       int
	Backoff       time.Duration
	Compress      bool
	ZstdLevel     int
	Verify        bool
	PreserveMtime bool
}

// DefaultTransferOptions returns the baseline transfer configuration:
// retries=5, backoff=0.5s, compress=false, zstd_level=3, verify=true,
// preserve_mtime=true. Parallel is resolved lazily by DefaultConcurrency.
func DefaultTransferOptions() TransferOptions {
	return TransferOptions{
		Retries:       5,
		Backoff:       500 * time.Millisecond,
		ZstdLevel:     3,
		Verify:        true,
		PreserveMtime: true,
	}
}

// DefaultConcurrency returns clamp(2, cpu*2, 32).
func DefaultConcurrency() int {
	n := runtime.NumCPU() * 2
	if n < 2 {
		return 2
	}
	if n > 32 {
		return 32
	}
	return n
}

func (o TransferOptions) parallel() int {
	if o.Parallel > 0 {
		return o.Parallel
	}
	return DefaultConcurrency()
}
