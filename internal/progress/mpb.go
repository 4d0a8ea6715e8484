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

// Package progress is the out-of-scope "terminal progress rendering"
// collaborator the transfer engine calls into via stats.ProgressSink. The
// concrete renderer here is backed by mpb, in warpdl's bar-per-task style.
package progress

import (
	"fmt"
	"os"
	"sync"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/vaayu/vaayu/internal/stats"
)

// MpbSink renders one progress bar per in-flight transfer task.
type MpbSink struct {
	p *mpb.Progress

	mu   sync.Mutex
	bars map[string]*mpb.Bar
}

var _ stats.ProgressSink = (*MpbSink)(nil)

// NewMpbSink creates a sink writing to stderr, matching warpdl's
// mpb.New(mpb.WithWidth(64)) construction.
func NewMpbSink() *MpbSink {
	return &MpbSink{
		p:    mpb.New(mpb.WithWidth(64), mpb.WithOutput(os.Stderr)),
		bars: make(map[string]*mpb.Bar),
	}
}

// OnTaskStart registers a new bar of size total for name.
func (s *MpbSink) OnTaskStart(name string, total int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bar := s.p.New(total,
		mpb.BarStyle().Lbound("╢").Filler("█").Tip("█").Padding("░").Rbound("╟"),
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DidentRight}),
			decor.OnComplete(decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 4}), "done"),
		),
		mpb.AppendDecorators(
			decor.AverageSpeed(decor.SizeB1024(0), "% .2f"),
		),
	)
	s.bars[name] = bar
}

// OnAdvance advances name's bar by n bytes.
func (s *MpbSink) OnAdvance(name string, n int64) {
	s.mu.Lock()
	bar := s.bars[name]
	s.mu.Unlock()
	if bar != nil {
		bar.IncrBy(int(n))
	}
}

// OnTaskDone finishes name's bar and forgets it. A bar that did not reach
// its total (a failed attempt, or an empty file) is aborted, so Wait never
// blocks on it.
func (s *MpbSink) OnTaskDone(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if bar, ok := s.bars[name]; ok {
		if !bar.Completed() {
			bar.Abort(false)
		}
		delete(s.bars, name)
	}
}

// Wait blocks until all bars finish rendering, mirroring warpdl's
// p.Wait() after the transfer completes.
func (s *MpbSink) Wait() {
	s.p.Wait()
}

// FormatBytes renders n as a human-readable size, e.g. "4.32 MB", for the
// completion summary line printed once all bars finish.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
