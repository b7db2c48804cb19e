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
package session

import (
	"sync"
	"sync/atomic"

	"github.com/tebeka/atexit"

	"jinr.ru/greenlab/go-bersim/pkg/device"
	"jinr.ru/greenlab/go-bersim/pkg/hw"
	"jinr.ru/greenlab/go-bersim/pkg/log"
	"jinr.ru/greenlab/go-bersim/pkg/regs"
)

// Config describes where the simulator windows live
type Config struct {
	DevMem       string
	ControlBase  uint64
	StatsBase    uint64
	Size         uint32
	Trace        bool
	ResetOnClose bool
	Options      []device.Option
}

func DefaultConfig() Config {
	return Config{
		DevMem:       hw.DefaultDevMem,
		ControlBase:  regs.DefaultControlBase,
		StatsBase:    regs.DefaultStatsBase,
		Size:         regs.WindowSize,
		ResetOnClose: true,
	}
}

// Session owns both register windows and the objects driving them.
// It replaces process wide globals: everything that touches the hardware
// gets it from here.
type Session struct {
	ctrl  hw.Window
	stats hw.Window

	seq *device.Sequencer
	col *device.Collector

	resetOnClose bool
	abandoned    atomic.Bool
	once         sync.Once
	closeErr     error
}

// Open maps both windows. The session is closed by atexit handlers too,
// unless it was abandoned first.
func Open(cfg Config) (*Session, error) {
	ctrl, err := hw.Open(cfg.DevMem, cfg.ControlBase, cfg.Size)
	if err != nil {
		return nil, err
	}
	stats, err := hw.Open(cfg.DevMem, cfg.StatsBase, cfg.Size)
	if err != nil {
		ctrl.Close()
		return nil, err
	}
	log.Info("Hardware mapping successful: control: 0x%X statistics: 0x%X", cfg.ControlBase, cfg.StatsBase)

	var c, s hw.Window = ctrl, stats
	if cfg.Trace {
		c = hw.NewTraceWindow(ctrl, "control")
		s = hw.NewTraceWindow(stats, "stats")
	}
	sess := New(c, s, cfg.ResetOnClose, cfg.Options...)
	atexit.Register(func() {
		if err := sess.Close(); err != nil {
			log.Error("Error while closing session: %s", err)
		}
	})
	return sess, nil
}

// New builds a session over windows that are already open
func New(ctrl, stats hw.Window, resetOnClose bool, opts ...device.Option) *Session {
	return &Session{
		ctrl:         ctrl,
		stats:        stats,
		seq:          device.NewSequencer(ctrl, opts...),
		col:          device.NewCollector(stats, opts...),
		resetOnClose: resetOnClose,
	}
}

func (s *Session) Sequencer() *device.Sequencer {
	return s.seq
}

func (s *Session) Collector() *device.Collector {
	return s.col
}

// Abandon turns Close into a no-op. A hard stop abandons the session
// before exiting: the control goroutine may still be driving the registers,
// so they are neither reset nor unmapped and the OS reclaims the mapping.
func (s *Session) Abandon() {
	s.abandoned.Store(true)
}

// Close leaves the simulator reset, if asked to, and unmaps both windows.
// Only the first call does anything.
func (s *Session) Close() error {
	if s.abandoned.Load() {
		return nil
	}
	s.once.Do(func() {
		if s.resetOnClose {
			if err := s.seq.FullReset(); err != nil {
				log.Warning("Simulator left in unknown state")
			}
		}
		errCtrl := s.ctrl.Close()
		errStats := s.stats.Close()
		if errCtrl != nil {
			s.closeErr = errCtrl
		} else {
			s.closeErr = errStats
		}
	})
	return s.closeErr
}
