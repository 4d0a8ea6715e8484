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

// downloadOne mirrors uploadOne with the resume artifact living on the
// local side: Prepare -> WriteOrResume -> Verify? -> Publish -> Done.
func (e *Engine) downloadOne(ctx context.Context, sess session.FileOps, pair pathexpand.TransferPair, opts TransferOptions, result *stats.Stats) error {
	tmp := pair.Destination + ".part"

	return retry.Do(ctx, opts.Retries, opts.Backoff, func(attempt int) error {
		// Prepare
		if err := os.MkdirAll(filepath.Dir(pair.Destination), 0o755); err != nil {
			return err
		}
		var offset int64
		if localInfo, err := os.Stat(tmp); err == nil {
			offset = localInfo.Size()
		} else if !os.IsNotExist(err) {
			return err
		}
		remoteInfo, err := sess.Stat(ctx, pair.Source)
		if err != nil {
			return err
		}
		if remoteInfo == nil {
			return errors.Wrapf(core.ErrFileNotFound, "remote source %s", pair.Source)
		}
		total := remoteInfo.Size()
		if e.Sink != nil {
			e.Sink.OnTaskStart(pair.Source, total)
			defer e.Sink.OnTaskDone(pair.Source)
		}

		// WriteOrResume
		localMode := os.O_WRONLY | os.O_CREATE
		if offset > 0 {
			localMode |= os.O_APPEND
		} else {
			localMode |= os.O_TRUNC
		}
		lf, err := os.OpenFile(tmp, localMode, 0o644)
		if err != nil {
			return err
		}
		closeErr := func() error {
			defer lf.Close()

			rf, err := sess.OpenRemote(ctx, pair.Source, "rb")
			if err != nil {
				return err
			}
			defer rf.Close()

			if offset > 0 {
				// Seek local first, then remote, matching the upload side's
				// resume ordering.
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
				n, readErr := rf.Read(buf)
				if n > 0 {
					if _, err := lf.Write(buf[:n]); err != nil {
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
			localHash, err := hasher.LocalSHA256(tmp)
			if err != nil {
				return err
			}
			remoteHash, err := hasher.RemoteSHA256(ctx, sess, pair.Source)
			if err != nil {
				return err
			}
			if localHash != remoteHash {
				return errors.Wrapf(core.ErrHashMismatch, "download %s", pair.Source)
			}
		}

		// Publish
		if err := os.Rename(tmp, pair.Destination); err != nil {
			return errors.Wrap(core.ErrTransfer, err.Error())
		}

		// Done
		var landed int64
		if info, err := os.Stat(pair.Destination); err == nil {
			landed = info.Size()
		}
		result.AddFile(landed, attempt)
		return nil
	})
}
