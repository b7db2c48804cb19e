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

package stats

import (
	"fmt"

	"jinr.ru/greenlab/go-bersim/pkg/regs"
)

// Snapshot is one read of the five hardware counters
type Snapshot struct {
	TotalBits     uint64 `json:"totalBits"`
	BitErrorsPre  uint64 `json:"bitErrorsPre"`
	BitErrorsPost uint64 `json:"bitErrorsPost"`
	TotalFrames   uint64 `json:"totalFrames"`
	FrameErrors   uint64 `json:"frameErrors"`
}

// Counter returns the value of a counter by alias
func (s Snapshot) Counter(a regs.CounterAlias) uint64 {
	switch a {
	case regs.CntTotalBits:
		return s.TotalBits
	case regs.CntBitErrorsPre:
		return s.BitErrorsPre
	case regs.CntBitErrorsPost:
		return s.BitErrorsPost
	case regs.CntTotalFrames:
		return s.TotalFrames
	case regs.CntFrameErrors:
		return s.FrameErrors
	}
	return 0
}

// SetCounter stores a counter value by alias
func (s *Snapshot) SetCounter(a regs.CounterAlias, v uint64) {
	switch a {
	case regs.CntTotalBits:
		s.TotalBits = v
	case regs.CntBitErrorsPre:
		s.BitErrorsPre = v
	case regs.CntBitErrorsPost:
		s.BitErrorsPost = v
	case regs.CntTotalFrames:
		s.TotalFrames = v
	case regs.CntFrameErrors:
		s.FrameErrors = v
	}
}

func (s Snapshot) String() string {
	return fmt.Sprintf("bits=%d pre=%d post=%d frames=%d frame_errors=%d",
		s.TotalBits, s.BitErrorsPre, s.BitErrorsPost, s.TotalFrames, s.FrameErrors)
}

// CSV returns the raw counters as one comma separated line in address order
func (s Snapshot) CSV() string {
	return fmt.Sprintf("%d,%d,%d,%d,%d",
		s.TotalBits, s.BitErrorsPre, s.BitErrorsPost, s.TotalFrames, s.FrameErrors)
}
