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

import (
	"fmt"
)

// Control register bit mapping:
//   [31:17] reserved
//   [16:12] max iterations of the 2D RS decoder
//   [11:8]  interleave depth
//   [7:4]   precode enable (0xF enabled, 0x0 disabled)
//   [3:0]   control bits, START is bit 0 and RESET is bit 3
const (
	CtrlStartBit ControlWord = 0x00000001
	CtrlResetBit ControlWord = 0x00000008

	ctrlNibbleMask      = 0xF
	ctrlPrecodeShift    = 4
	ctrlPrecodeMask     = 0xF
	ctrlInterleaveShift = 8
	ctrlInterleaveMask  = 0xF
	ctrlIterShift       = 12
	ctrlIterMask        = 0x1F

	// CtrlRun is the control nibble the IP expects while a run is requested.
	// It is the value validated on hardware, not just the START bit.
	CtrlRun uint32 = 0xF

	CtrlFullStop    ControlWord = 0x00000000
	CtrlResetAssert             = CtrlResetBit
)

const (
	MaxIterationsMin     = 1
	MaxIterationsMax     = 31
	DefaultMaxIterations = 8
	DefaultInterleave    = 1
	InterleaveMax        = 15
)

type ControlWord uint32

// Fields is the decoded form of ControlWord
type Fields struct {
	Control       uint32 `json:"control"`
	Precode       uint32 `json:"precode"`
	Interleave    uint32 `json:"interleave"`
	MaxIterations uint32 `json:"maxIterations"`
}

// Compose packs fields into a control word. Out of range values are masked.
func Compose(f Fields) ControlWord {
	w := f.Control & ctrlNibbleMask
	w |= (f.Precode & ctrlPrecodeMask) << ctrlPrecodeShift
	w |= (f.Interleave & ctrlInterleaveMask) << ctrlInterleaveShift
	w |= (f.MaxIterations & ctrlIterMask) << ctrlIterShift
	return ControlWord(w)
}

// Fields decodes the word
func (w ControlWord) Fields() Fields {
	v := uint32(w)
	return Fields{
		Control:       v & ctrlNibbleMask,
		Precode:       (v >> ctrlPrecodeShift) & ctrlPrecodeMask,
		Interleave:    (v >> ctrlInterleaveShift) & ctrlInterleaveMask,
		MaxIterations: (v >> ctrlIterShift) & ctrlIterMask,
	}
}

func (w ControlWord) Started() bool {
	return w&CtrlStartBit != 0
}

func (w ControlWord) InReset() bool {
	return w&CtrlResetBit != 0
}

// WithStart returns w with START set and every other bit untouched
func (w ControlWord) WithStart() ControlWord {
	return w | CtrlStartBit
}

// ClearStart returns w with START cleared and every other bit untouched
func (w ControlWord) ClearStart() ControlWord {
	return w &^ CtrlStartBit
}

func (w ControlWord) String() string {
	f := w.Fields()
	return fmt.Sprintf("0x%08X (ctrl=0x%X precode=0x%X interleave=%d iterations=%d)",
		uint32(w), f.Control, f.Precode, f.Interleave, f.MaxIterations)
}

// Params is the trial configuration programmed into the control word
type Params struct {
	PrecodeEnable bool   `json:"precodeEnable"`
	Interleave    uint32 `json:"interleave"`
	MaxIterations uint32 `json:"maxIterations"`
}

func DefaultParams() Params {
	return Params{
		PrecodeEnable: false,
		Interleave:    DefaultInterleave,
		MaxIterations: DefaultMaxIterations,
	}
}

func (p Params) Validate() error {
	if p.MaxIterations < MaxIterationsMin || p.MaxIterations > MaxIterationsMax {
		return ErrInvalidParams{What: fmt.Sprintf("max iterations %d (must be %d-%d)",
			p.MaxIterations, MaxIterationsMin, MaxIterationsMax)}
	}
	if p.Interleave > InterleaveMax {
		return ErrInvalidParams{What: fmt.Sprintf("interleave depth %d (must be 0-%d)", p.Interleave, InterleaveMax)}
	}
	return nil
}

// Word returns the run request control word for p, START included
func (p Params) Word() ControlWord {
	f := Fields{
		Control:       CtrlRun,
		Interleave:    p.Interleave,
		MaxIterations: p.MaxIterations,
	}
	if p.PrecodeEnable {
		f.Precode = ctrlPrecodeMask
	}
	return Compose(f)
}

// Status is a snapshot of the control window
type Status struct {
	Control ControlWord `json:"control"`
	Index   uint32      `json:"index"`
}

func (s Status) Running() bool {
	return s.Control.Started()
}

func (s Status) Idle() bool {
	return s.Index == IndexSentinel
}
