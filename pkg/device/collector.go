/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/
package device

import (
	"context"
	"time"

	"jinr.ru/greenlab/go-bersim/pkg/device/ifc"
	"jinr.ru/greenlab/go-bersim/pkg/hw"
	"jinr.ru/greenlab/go-bersim/pkg/log"
	"jinr.ru/greenlab/go-bersim/pkg/regs"
	"jinr.ru/greenlab/go-bersim/pkg/stats"
)

const (
	ClearDelay = 10 * time.Millisecond
)

// Collector reads the statistics counters the IP keeps in block RAM
type Collector struct {
	stats hw.Window
	*options
}

var _ ifc.Collector = &Collector{}

// NewCollector ...
func NewCollector(w hw.Window, opts ...Option) *Collector {
	return &Collector{
		stats:   w,
		options: applyOptions(opts),
	}
}

// ClearCounters zeroes both words of every counter. An increment racing
// the clear may survive it.
func (c *Collector) ClearCounters() {
	log.Debug("Clearing statistics counters")
	for _, cnt := range regs.Counters() {
		offset := regs.CounterMap[cnt]
		c.stats.Write32(offset, 0)
		c.stats.Write32(offset+4, 0)
	}
	c.pause(ClearDelay)
}

// Read takes one snapshot of all counters
func (c *Collector) Read() stats.Snapshot {
	var s stats.Snapshot
	for _, cnt := range regs.Counters() {
		s.SetCounter(cnt, c.stats.Read64(regs.CounterMap[cnt]))
	}
	return s
}

// PollUntilDone reads the counters every poll interval until frame errors
// reach threshold. If ctx is done first it returns a fresh snapshot along
// with the context error.
func (c *Collector) PollUntilDone(ctx context.Context, threshold uint64) (stats.Snapshot, error) {
	timer := time.NewTimer(c.pollInterval)
	defer timer.Stop()

	for polls := 1; ; polls++ {
		select {
		case <-ctx.Done():
			s := c.Read()
			log.Debug("Polling cancelled after %d polls: %s", polls-1, s)
			return s, ctx.Err()
		case <-timer.C:
		}

		s := c.Read()
		if s.FrameErrors >= threshold {
			log.Info("Frame errors reached threshold (%d) after %d polls", threshold, polls)
			return s, nil
		}
		timer.Reset(c.pollInterval)
	}
}
