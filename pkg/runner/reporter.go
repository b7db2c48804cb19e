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
	"time"

	"jinr.ru/greenlab/go-bersim/pkg/log"
)

// Reporter receives run progress. Errors are logged by the runner and
// never stop a run.
type Reporter interface {
	BeginRun(info *RunInfo) error
	Trial(res *TrialResult) error
	EndRun(sum *Summary) error
}

// Reporters fans out to every reporter in order
type Reporters []Reporter

var _ Reporter = Reporters{}

func (rs Reporters) BeginRun(info *RunInfo) error {
	var first error
	for _, r := range rs {
		if err := r.BeginRun(info); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (rs Reporters) Trial(res *TrialResult) error {
	var first error
	for _, r := range rs {
		if err := r.Trial(res); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (rs Reporters) EndRun(sum *Summary) error {
	var first error
	for _, r := range rs {
		if err := r.EndRun(sum); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// LogReporter prints results the way the operators read them: a block of
// result lines and a CSV line with the raw counters per trial
type LogReporter struct{}

var _ Reporter = LogReporter{}

func (LogReporter) BeginRun(info *RunInfo) error {
	log.Info("Run %s: %d trials, table: %s", info.ID, info.TrialsTotal, info.Table)
	log.Info("Max iterations: %d interleave: %d precode: %t threshold: %d",
		info.Params.MaxIterations, info.Params.Interleave, info.Params.PrecodeEnable, info.Threshold)
	return nil
}

func (LogReporter) Trial(res *TrialResult) error {
	if res.Outcome == Cancelled {
		log.Warning("Simulation %d cancelled: %s", res.Trial, res.Snapshot)
		return nil
	}
	log.Info("Simulation %d results:", res.Trial)
	for _, line := range res.Report.Lines() {
		log.Info("   %s", line)
	}
	for _, w := range res.Report.Warnings {
		log.Warning("   %s", w)
	}
	log.Info("CSV: %s", res.Snapshot.CSV())
	return nil
}

func (LogReporter) EndRun(sum *Summary) error {
	for _, w := range sum.Warnings {
		log.Warning("   %s", w)
	}
	if sum.Cancelled {
		log.Warning("Simulation stopped: %d of %d trials completed", sum.Completed(), sum.TrialsTotal)
		return nil
	}
	log.Info("Simulation completed: %d trials in %s", sum.Completed(), sum.Finished.Sub(sum.Started).Round(time.Millisecond))
	return nil
}
