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
	"io"
	"path"

	"github.com/pkg/errors"

	"github.com/vaayu/vaayu/internal/core"
	"github.com/vaayu/vaayu/internal/hasher"
	"github.com/vaayu/vaayu/internal/pathexpand"
	"github.com/vaayu/vaayu/internal/retry"
	"github.com/vaayu/vaayu/internal/session"
	"github.com/vaayu/vaayu/internal/stats"
)

// relayOne streams pair.Source on srcSess directly to pair.Destination on
// dstSess with no local disk involved. The resume artifact lives on the
// destination side, same as a plain upload.
func (e *Engine) relayOne(ctx context.Context, srcSess, dstSess session.FileOps, pair pathexpand.TransferPair, opts TransferOptions, result *stats.Stats) error {
	tmp := pair.Destination + ".part"

	return retry.Do(ctx, opts.Retries, opts.Backoff, func(attempt int) error {
		// Prepare
		if err := dstSess.Makedirs(ctx, path.Dir(pair.Destination)); err != nil {
			return err
		}
		dstInfo, err := dstSess.Stat(ctx, tmp)
		if err != nil {
			return err
		}
		var offset int64
		if dstInfo != nil {
			offset = dstInfo.Size()
		}
		srcInfo, err := srcSess.Stat(ctx, pair.Source)
		if err != nil {
			return err
		}
		if srcInfo == nil {
			return errors.Wrapf(core.ErrFileNotFound, "relay source %s", pair.Source)
		}
		total := srcInfo.Size()
		if e.Sink != nil {
			e.Sink.OnTaskStart(pair.Source, total)
			defer e.Sink.OnTaskDone(pair.Source)
		}

		// WriteOrResume
		mode := "wb"
		if offset > 0 {
			mode = "r+b"
		}
		wf, err := dstSess.OpenRemote(ctx, tmp, mode)
		if err != nil {
			return err
		}
		closeErr := func() error {
			defer wf.Close()

			rf, err := srcSess.OpenRemote(ctx, pair.Source, "rb")
			if err != nil {
				return err
			}
			defer rf.Close()

			if offset > 0 {
				// Seek source first, then destination, matching the
				// upload/download resume ordering.
				if _, err := rf.Seek(offset, io.SeekStart); err != nil {
					return err
				}
				if _, err := wf.Seek(offset, io.SeekStart); err != nil {
					return err
				}
				if e.Sink != nil {
					e.Sink.OnAdvance(pair.Source, offset)
				}
			}

			buf := make([]byte, chunkSize)
			for {
				if err := ctx.Err(); err != nil {
					return err
				}
				n, readErr := rf.Read(buf)
				if n > 0 {
					if _, err := wf.Write(buf[:n]); err != nil {
						return errors.Wrap(core.ErrTransfer, err.Error())
					}
					if e.Sink != nil {
						e.Sink.OnAdvance(pair.Source, int64(n))
					}
				}
				if readErr == io.EOF {
					return nil
				}
				if readErr != nil {
					return errors.Wrap(core.ErrTransfer, readErr.Error())
				}
			}
		}()
		if closeErr != nil {
			return closeErr
		}

		// Verify
		if opts.Verify {
			srcHash, err := hasher.RemoteSHA256(ctx, srcSess, pair.Source)
			if err != nil {
				return err
			}
			dstHash, err := hasher.RemoteSHA256(ctx, dstSess, tmp)
			if err != nil {
				return err
			}
			if srcHash != dstHash {
				return errors.Wrapf(core.ErrHashMismatch, "relay %s", pair.Source)
			}
		}

		// Publish
		if err := dstSess.Rename(ctx, tmp, pair.Destination); err != nil {
			return err
		}

		// Done
		var landed int64
		if info, err := dstSess.Stat(ctx, pair.Destination); err == nil && info != nil {
			landed = info.Size()
		}
		result.AddFile(landed, attempt)
		return nil
	})
}
