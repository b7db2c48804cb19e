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
	"time"

	"jinr.ru/greenlab/go-bersim/pkg/device/ifc"
	"jinr.ru/greenlab/go-bersim/pkg/hw"
	"jinr.ru/greenlab/go-bersim/pkg/log"
	"jinr.ru/greenlab/go-bersim/pkg/regs"
	"jinr.ru/greenlab/go-bersim/pkg/table"
)

// Protocol delays. The IP has no completion signal, every transition is a
// write followed by one of these fixed pauses. The values are the ones
// validated on hardware.
const (
	ConfigureDelay      = 5 * time.Millisecond
	IndexResetDelay     = 1 * time.Millisecond
	LoadBurstDelay      = 1 * time.Millisecond
	LoadProcessingDelay = 100 * time.Millisecond
	ResetReleaseDelay   = 50 * time.Millisecond
	StartDelay          = 10 * time.Millisecond
	StopDelay           = 10 * time.Millisecond
	ForcedStopDelay     = 5 * time.Millisecond
	PulseDelay          = 1 * time.Millisecond
	AbortDelay          = 5 * time.Millisecond
	FullStopDelay       = 10 * time.Millisecond
	ResetHoldDelay      = 50 * time.Millisecond
	ResetClearDelay     = 10 * time.Millisecond
	ResetRecoveryDelay  = 100 * time.Millisecond
	IndexSettleDelay    = 50 * time.Millisecond
)

const (
	// LoadBurst is the number of entries latched between two burst pauses
	LoadBurst         = 16
	ForcedStopWrites  = 5
	ResetZeroWrites   = 10
	ResetClearRepeats = 3
)

// regOp is a single register write followed by a fixed pause
type regOp struct {
	Reg   regs.RegAlias
	Value uint32
	Pause time.Duration
}

// Sequencer drives the simulator state machine through the control window.
// It is not safe for concurrent use: one goroutine owns all register access.
type Sequencer struct {
	ctrl hw.Window
	*options

	params     regs.Params
	configured bool
}

var _ ifc.Sequencer = &Sequencer{}

// NewSequencer ...
func NewSequencer(ctrl hw.Window, opts ...Option) *Sequencer {
	return &Sequencer{
		ctrl:    ctrl,
		options: applyOptions(opts),
	}
}

func (s *Sequencer) write(reg regs.RegAlias, value uint32) {
	s.ctrl.Write32(regs.RegMap[reg], value)
}

func (s *Sequencer) read(reg regs.RegAlias) uint32 {
	return s.ctrl.Read32(regs.RegMap[reg])
}

func (s *Sequencer) control() regs.ControlWord {
	return regs.ControlWord(s.read(regs.RegControl))
}

func (s *Sequencer) run(ops []regOp) {
	for _, op := range ops {
		s.write(op.Reg, op.Value)
		if op.Pause > 0 {
			s.pause(op.Pause)
		}
	}
}

// Params returns the last configured parameters
func (s *Sequencer) Params() regs.Params {
	return s.params
}

// Status reads the control and index registers
func (s *Sequencer) Status() regs.Status {
	return regs.Status{
		Control: s.control(),
		Index:   s.read(regs.RegIndex),
	}
}

// Configure programs the control word for the next trial
func (s *Sequencer) Configure(p regs.Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.params = p
	s.configured = true

	word := p.Word()
	log.Info("Configuring: max iterations: %d interleave: %d precode: %t",
		p.MaxIterations, p.Interleave, p.PrecodeEnable)
	log.Debug("Control word: %s", word)
	s.run([]regOp{
		{Reg: regs.RegControl, Value: uint32(word), Pause: ConfigureDelay},
	})
	return nil
}

// LoadBlock latches the 64 block entries into the IP and marks the load
// complete. The write order is fixed: for every entry the staging high and
// low words go first, the index write latches them.
func (s *Sequencer) LoadBlock(b *table.Block) error {
	log.Debug("Loading probability block")
	ops := make([]regOp, 0, 2+3*table.BlockLength)
	ops = append(ops, regOp{Reg: regs.RegIndex, Value: regs.IndexSentinel, Pause: IndexResetDelay})
	for i, v := range b {
		var pause time.Duration
		if i%LoadBurst == LoadBurst-1 {
			pause = LoadBurstDelay
		}
		ops = append(ops,
			regOp{Reg: regs.RegStageHi, Value: uint32(v >> 32)},
			regOp{Reg: regs.RegStageLo, Value: uint32(v)},
			regOp{Reg: regs.RegIndex, Value: uint32(i), Pause: pause},
		)
	}
	s.run(ops)

	// entries are processed while the IP is still in reset
	s.pause(LoadProcessingDelay)
	// load complete, the IP releases reset and arms the start condition
	s.write(regs.RegIndex, regs.IndexSentinel)
	return nil
}

// Start re-asserts the whole control word after the reset release and
// verifies the simulator is armed
func (s *Sequencer) Start() error {
	if !s.configured {
		return ErrNotConfigured{}
	}
	s.pause(ResetReleaseDelay)
	// configuration bits may drop during the reset release
	s.run([]regOp{
		{Reg: regs.RegControl, Value: uint32(s.params.Word().WithStart()), Pause: StartDelay},
	})

	status := s.Status()
	if status.Index != regs.IndexSentinel || !status.Running() {
		err := ErrConfigurationVerification{Control: status.Control, Index: status.Index}
		log.Warning("%s", err)
		return err
	}
	log.Debug("Simulator started: control: %s", status.Control)
	return nil
}

// GracefulStop clears START keeping every other field. If START persists
// after all attempts it escalates to ForcedStop.
func (s *Sequencer) GracefulStop() error {
	for attempt := 0; attempt < s.stopAttempts; attempt++ {
		current := s.control()
		log.Debug("Stopping: control: 0x%08X", uint32(current))
		s.run([]regOp{
			{Reg: regs.RegControl, Value: uint32(current.ClearStart()), Pause: StopDelay},
		})
		after := s.control()
		log.Debug("After graceful stop: 0x%08X", uint32(after))
		if !after.Started() {
			return nil
		}
	}
	log.Warning("Graceful stop failed, trying forced stop")
	return s.ForcedStop()
}

// ForcedStop zeroes the whole control word several times
func (s *Sequencer) ForcedStop() error {
	ops := make([]regOp, ForcedStopWrites)
	for i := range ops {
		ops[i] = regOp{Reg: regs.RegControl, Value: uint32(regs.CtrlFullStop), Pause: ForcedStopDelay}
	}
	s.run(ops)

	after := s.control()
	log.Debug("After forced stop: 0x%08X", uint32(after))
	if after.Started() {
		err := ErrResetIncomplete{Procedure: "Forced stop", Control: after, Index: s.read(regs.RegIndex)}
		log.Warning("%s", err)
		return err
	}
	return nil
}

// ForceReset aborts a run: a START pulse makes the state machine see a stop
// request and go idle, then the control word is zeroed repeatedly.
// The final readback is reported, never acted on.
func (s *Sequencer) ForceReset() error {
	current := s.control()
	log.Info("Force controller reset: control: 0x%08X", uint32(current))

	ops := []regOp{
		{Reg: regs.RegControl, Value: uint32(current.WithStart()), Pause: PulseDelay},
		{Reg: regs.RegControl, Value: uint32(current.ClearStart()), Pause: AbortDelay},
		{Reg: regs.RegControl, Value: uint32(regs.CtrlFullStop), Pause: FullStopDelay},
	}
	for i := 0; i < ResetZeroWrites; i++ {
		ops = append(ops, regOp{Reg: regs.RegControl, Value: uint32(regs.CtrlFullStop), Pause: PulseDelay})
	}
	s.run(ops)

	after := s.control()
	if after != regs.CtrlFullStop {
		err := ErrResetIncomplete{Procedure: "Force controller reset", Control: after, Index: s.read(regs.RegIndex)}
		log.Warning("%s", err)
		return err
	}
	return nil
}

// FullReset brings the IP to the idle baseline: control and index both zero
func (s *Sequencer) FullReset() error {
	log.Info("Resetting simulator")
	if err := s.GracefulStop(); err != nil {
		log.Debug("Continuing reset after failed stop")
	}

	ops := []regOp{
		{Reg: regs.RegControl, Value: uint32(regs.CtrlResetAssert), Pause: ResetHoldDelay},
	}
	for i := 0; i < ResetClearRepeats; i++ {
		ops = append(ops,
			regOp{Reg: regs.RegIndex, Value: 0},
			regOp{Reg: regs.RegStageHi, Value: 0},
			regOp{Reg: regs.RegStageLo, Value: 0, Pause: ResetClearDelay},
		)
	}
	ops = append(ops,
		regOp{Reg: regs.RegControl, Value: uint32(regs.CtrlFullStop), Pause: ResetRecoveryDelay},
		regOp{Reg: regs.RegIndex, Value: regs.IndexSentinel, Pause: IndexSettleDelay},
		regOp{Reg: regs.RegIndex, Value: 0, Pause: IndexSettleDelay},
	)
	s.run(ops)
	s.configured = false

	status := s.Status()
	if status.Control != regs.CtrlFullStop || status.Index != 0 {
		err := ErrResetIncomplete{Procedure: "Hardware reset", Control: status.Control, Index: status.Index}
		log.Warning("%s", err)
		return err
	}
	log.Info("Hardware reset completed successfully")
	return nil
}
