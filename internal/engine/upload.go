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
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/vaayu/vaayu/internal/core"
	"github.com/vaayu/vaayu/internal/hasher"
	"github.com/vaayu/vaayu/internal/pathexpand"
	"github.com/vaayu/vaayu/internal/retry"
	"github.com/vaayu/vaayu/internal/session"
	"github.com/vaayu/vaayu/internal/stats"
)

// uploadOne runs the per-file upload state machine for pair, wrapped by
// the retry harness: Prepare -> WriteOrResume -> Verify? -> Publish ->
// Done, re-entering Prepare on every retried attempt so the .part size is
// re-read and progress naturally resumes.
func (e *Engine) uploadOne(ctx context.Context, sess session.FileOps, pair pathexpand.TransferPair, opts TransferOptions, result *stats.Stats) error {
	tmp := pair.Destination + ".part"

	return retry.Do(ctx, opts.Retries, opts.Backoff, func(attempt int) error {
		// Prepare
		if err := sess.Makedirs(ctx, filepath.Dir(pair.Destination)); err != nil {
			return err
		}
		remoteInfo, err := sess.Stat(ctx, tmp)
		if err != nil {
			return err
		}
		var offset int64
		if remoteInfo != nil {
			offset = remoteInfo.Size()
		}
		localInfo, err := os.Stat(pair.Source)
		if err != nil {
			if os.IsNotExist(err) {
				return errors.Wrap(core.ErrFileNotFound, err.Error())
			}
			return err
		}
		total := localInfo.Size()
		if e.Sink != nil {
			e.Sink.OnTaskStart(pair.Source, total)
			defer e.Sink.OnTaskDone(pair.Source)
		}

		// WriteOrResume
		mode := "wb"
		if offset > 0 {
			mode = "r+b"
		}
		rf, err := sess.OpenRemote(ctx, tmp, mode)
		if err != nil {
			return err
		}
		closeErr := func() error {
			defer rf.Close()

			lf, err := os.Open(pair.Source)
			if err != nil {
				return err
			}
			defer lf.Close()

			if offset > 0 {
				// Seek local first, then remote before streaming the
				// remainder.
				if _, err := lf.Seek(offset, io.SeekStart); err != nil {
					return err
				}
				if _, err := rf.Seek(offset, io.SeekStart); err != nil {
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
				n, readErr := lf.Read(buf)
				if n > 0 {
					if _, err := rf.Write(buf[:n]); err != nil {
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
					return readErr
				}
			}
		}()
		if closeErr != nil {
			return closeErr
		}

		// Verify
		if opts.Verify {
			localHash, err := hasher.LocalSHA256(pair.Source)
			if err != nil {
				return err
			}
			remoteHash, err := hasher.RemoteSHA256(ctx, sess, tmp)
			if err != nil {
				return err
			}
			if localHash != remoteHash {
				return errors.Wrapf(core.ErrHashMismatch, "upload %s", pair.Source)
			}
		}

		// Publish
		if err := sess.Rename(ctx, tmp, pair.Destination); err != nil {
			return err
		}

		// Done
		result.AddFile(total, attempt)
		return nil
	})
}
