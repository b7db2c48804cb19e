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

// ErrSnapshotInconsistency returned when counters contradict each other.
// It is a warning: the snapshot is still reported.
type ErrSnapshotInconsistency struct {
	Counter regs.CounterAlias
	Value   uint64
	Limit   uint64
	What    string
}

func (e ErrSnapshotInconsistency) Error() string {
	return fmt.Sprintf("Inconsistent snapshot: %s=%d %s (%d)", e.Counter, e.Value, e.What, e.Limit)
}
