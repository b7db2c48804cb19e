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
	"fmt"
	"time"

	"jinr.ru/greenlab/go-bersim/pkg/regs"
	"jinr.ru/greenlab/go-bersim/pkg/stats"
)

type Outcome string

const (
	Completed Outcome = "completed"
	Cancelled Outcome = "cancelled"
)

// RunInfo describes a run before any trial is done
type RunInfo struct {
	ID          string      `json:"id"`
	Table       string      `json:"table"`
	Params      regs.Params `json:"params"`
	Threshold   uint64      `json:"threshold"`
	TrialsTotal int         `json:"trialsTotal"`
	Started     time.Time   `json:"started"`
}

// TrialResult is one finished or aborted trial. Report is nil for a
// cancelled trial: metrics are never derived from an interrupted run.
type TrialResult struct {
	RunID    string         `json:"runId"`
	Trial    int            `json:"trial"`
	Block    int            `json:"block"`
	Params   regs.Params    `json:"params"`
	Outcome  Outcome        `json:"outcome"`
	Snapshot stats.Snapshot `json:"snapshot"`
	Report   *stats.Report  `json:"report,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	Started  time.Time      `json:"started"`
	Finished time.Time      `json:"finished"`
}

func (t *TrialResult) addWarning(err error) {
	if err != nil {
		t.Warnings = append(t.Warnings, err.Error())
	}
}

// Summary is the outcome of a whole run. Warnings come from the resets and
// stops done between trials, outside of any trial result.
type Summary struct {
	RunInfo
	Trials    []*TrialResult `json:"trials"`
	Cancelled bool           `json:"cancelled"`
	Warnings  []string       `json:"warnings,omitempty"`
	Finished  time.Time      `json:"finished"`
}

func (s *Summary) addWarning(step string, err error) {
	if err != nil {
		s.Warnings = append(s.Warnings, fmt.Sprintf("%s: %s", step, err))
	}
}

// Completed returns the number of trials that ran to the threshold
func (s *Summary) Completed() int {
	n := 0
	for _, t := range s.Trials {
		if t.Outcome == Completed {
			n++
		}
	}
	return n
}
