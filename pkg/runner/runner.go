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
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"jinr.ru/greenlab/go-bersim/pkg/device"
	"jinr.ru/greenlab/go-bersim/pkg/device/ifc"
	"jinr.ru/greenlab/go-bersim/pkg/log"
	"jinr.ru/greenlab/go-bersim/pkg/regs"
	"jinr.ru/greenlab/go-bersim/pkg/stats"
	"jinr.ru/greenlab/go-bersim/pkg/table"
)

const (
	DefaultThreshold = 1000

	// SettleDelay follows the initial full reset
	SettleDelay     = 500 * time.Millisecond
	InterTrialDelay = 100 * time.Millisecond
)

type Config struct {
	Params    regs.Params
	Threshold uint64
	// Trials is the number of blocks to run starting at block 0.
	// Zero runs every block of the table.
	Trials int
	// InitialReset brings the simulator to the idle baseline before the first trial
	InitialReset bool
}

func DefaultConfig() Config {
	return Config{
		Params:       regs.DefaultParams(),
		Threshold:    DefaultThreshold,
		InitialReset: true,
	}
}

type Option func(*Runner)

func WithReporter(r Reporter) Option {
	return func(rn *Runner) {
		rn.reporter = r
	}
}

func WithPause(pause func(time.Duration)) Option {
	return func(rn *Runner) {
		rn.pause = pause
	}
}

// WithClock replaces time.Now for result timestamps
func WithClock(now func() time.Time) Option {
	return func(rn *Runner) {
		rn.now = now
	}
}

// Runner runs trials one after another on a single goroutine.
// It is the only user of the sequencer and the collector while it runs.
type Runner struct {
	seq   ifc.Sequencer
	col   ifc.Collector
	table *table.Table
	cfg   Config

	reporter Reporter
	pause    func(time.Duration)
	now      func() time.Time
}

// Validate checks the configuration against the table without touching
// the hardware
func (c Config) Validate(t *table.Table) error {
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if c.Threshold == 0 {
		return ErrThreshold{}
	}
	if c.Trials < 0 || c.Trials > t.Len() {
		return ErrTrials{Trials: c.Trials, Blocks: t.Len()}
	}
	return nil
}

// NewRunner validates the configuration against the table
func NewRunner(seq ifc.Sequencer, col ifc.Collector, t *table.Table, cfg Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(t); err != nil {
		return nil, err
	}
	if cfg.Trials == 0 {
		cfg.Trials = t.Len()
	}

	r := &Runner{
		seq:      seq,
		col:      col,
		table:    t,
		cfg:      cfg,
		reporter: LogReporter{},
		pause:    time.Sleep,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Runner) report(what string, err error) {
	if err != nil {
		log.Warning("Reporter failed on %s: %s", what, err)
	}
}

// Run executes the trials. Cancelling ctx stops the run at the next
// checkpoint: between trials or inside the poll loop. Load, stop and reset
// procedures always run to the end. A cancelled run is force reset and
// returned without error.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	info := RunInfo{
		ID:          uuid.New().String(),
		Table:       r.table.Description,
		Params:      r.cfg.Params,
		Threshold:   r.cfg.Threshold,
		TrialsTotal: r.cfg.Trials,
		Started:     r.now(),
	}
	sum := &Summary{RunInfo: info}
	r.report("run start", r.reporter.BeginRun(&info))

	if r.cfg.InitialReset {
		// clean state after any previous interruption
		if err := r.seq.FullReset(); err != nil {
			log.Warning("Starting from an unclean state")
			sum.addWarning("initial reset", err)
		}
		r.pause(SettleDelay)
	}

	for i := 0; i < r.cfg.Trials; i++ {
		if ctx.Err() != nil {
			sum.Cancelled = true
			break
		}
		res, err := r.trial(ctx, info.ID, i)
		if err != nil {
			return nil, err
		}
		sum.Trials = append(sum.Trials, res)
		r.report("trial", r.reporter.Trial(res))

		if res.Outcome == Cancelled {
			sum.Cancelled = true
			break
		}
		sum.addWarning(fmt.Sprintf("stop after trial %d", i), r.seq.GracefulStop())
		r.pause(InterTrialDelay)
	}

	if sum.Cancelled {
		log.Info("Run cancelled, resetting controller")
		sum.addWarning("cancellation reset", r.seq.ForceReset())
	}
	sum.Finished = r.now()
	r.report("run end", r.reporter.EndRun(sum))
	return sum, nil
}

// trial runs block i. Only an invalid configuration is an error,
// protocol warnings end up in the result.
func (r *Runner) trial(ctx context.Context, runID string, i int) (*TrialResult, error) {
	log.Info("Running simulation %d/%d", i, r.cfg.Trials)
	block, err := r.table.Block(i)
	if err != nil {
		return nil, err
	}
	res := &TrialResult{
		RunID:   runID,
		Trial:   i,
		Block:   i,
		Params:  r.cfg.Params,
		Started: r.now(),
	}

	// a previous run may still be going
	res.addWarning(r.seq.GracefulStop())
	r.col.ClearCounters()
	if err := r.seq.Configure(r.cfg.Params); err != nil {
		return nil, err
	}
	res.addWarning(r.seq.LoadBlock(block))
	if err := r.seq.Start(); err != nil {
		if !device.IsWarning(err) {
			return nil, err
		}
		res.addWarning(err)
	}

	snap, err := r.col.PollUntilDone(ctx, r.cfg.Threshold)
	res.Snapshot = snap
	res.Finished = r.now()
	if err != nil {
		res.Outcome = Cancelled
		return res, nil
	}

	report := stats.Evaluate(snap, block)
	res.Report = &report
	res.Warnings = append(res.Warnings, report.Warnings...)
	res.Outcome = Completed
	return res, nil
}
