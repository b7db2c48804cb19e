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

package regs

// Register layout of the BER simulator IP as exposed on the ZCU102 AXI bus.
// Both windows are 64 KiB wide; only the first few words are decoded.

const (
	WindowSize uint32 = 0x10000

	DefaultControlBase uint64 = 0xA0020000
	DefaultStatsBase   uint64 = 0xA0000000
)

type RegAlias int

const (
	RegControl RegAlias = iota
	RegIndex
	RegStageHi
	RegStageLo
	RegAliasLimit
)

// RegMap maps control window registers to their byte offsets
var RegMap = map[RegAlias]uint32{
	RegControl: 0x00,
	RegIndex:   0x04,
	RegStageHi: 0x08,
	RegStageLo: 0x0C,
}

var regNames = map[RegAlias]string{
	RegControl: "control",
	RegIndex:   "index",
	RegStageHi: "stage_hi",
	RegStageLo: "stage_lo",
}

func (a RegAlias) String() string {
	if name, ok := regNames[a]; ok {
		return name
	}
	return "unknown"
}

const (
	// IndexSentinel is written to the index register to mark the loader idle.
	// It is never a valid load position.
	IndexSentinel uint32 = 0xFFFFFFFF
)

type CounterAlias int

const (
	CntTotalBits CounterAlias = iota
	CntBitErrorsPre
	CntBitErrorsPost
	CntTotalFrames
	CntFrameErrors
	CounterAliasLimit
)

// CounterMap maps statistics counters to their byte offsets.
// Every counter is two words, high word first.
var CounterMap = map[CounterAlias]uint32{
	CntTotalBits:     0x00,
	CntBitErrorsPre:  0x08,
	CntBitErrorsPost: 0x10,
	CntTotalFrames:   0x18,
	CntFrameErrors:   0x20,
}

var counterNames = map[CounterAlias]string{
	CntTotalBits:     "total_bits",
	CntBitErrorsPre:  "bit_errors_pre",
	CntBitErrorsPost: "bit_errors_post",
	CntTotalFrames:   "total_frames",
	CntFrameErrors:   "frame_errors",
}

func (a CounterAlias) String() string {
	if name, ok := counterNames[a]; ok {
		return name
	}
	return "unknown"
}

// Counters returns counter aliases in address order
func Counters() []CounterAlias {
	return []CounterAlias{
		CntTotalBits,
		CntBitErrorsPre,
		CntBitErrorsPost,
		CntTotalFrames,
		CntFrameErrors,
	}
}
