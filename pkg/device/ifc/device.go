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
package ifc

import (
	"context"

	"jinr.ru/greenlab/go-bersim/pkg/regs"
	"jinr.ru/greenlab/go-bersim/pkg/stats"
	"jinr.ru/greenlab/go-bersim/pkg/table"
)

// Sequencer drives the simulator control window
type Sequencer interface {
	Configure(p regs.Params) error
	LoadBlock(b *table.Block) error
	Start() error

	GracefulStop() error
	ForcedStop() error
	ForceReset() error
	FullReset() error

	Status() regs.Status
}

// Collector reads the simulator statistics window
type Collector interface {
	ClearCounters()
	Read() stats.Snapshot
	PollUntilDone(ctx context.Context, threshold uint64) (stats.Snapshot, error)
}
