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

package hw

import (
	"jinr.ru/greenlab/go-bersim/pkg/log"
)

// TraceWindow logs every access to the wrapped window at debug level
type TraceWindow struct {
	Window
	Name string
}

var _ Window = &TraceWindow{}

func NewTraceWindow(w Window, name string) *TraceWindow {
	return &TraceWindow{Window: w, Name: name}
}

func (t *TraceWindow) Read32(offset uint32) uint32 {
	value := t.Window.Read32(offset)
	log.Debug("%s: R [0x%02X] -> 0x%08X", t.Name, offset, value)
	return value
}

func (t *TraceWindow) Write32(offset, value uint32) {
	log.Debug("%s: W [0x%02X] <- 0x%08X", t.Name, offset, value)
	t.Window.Write32(offset, value)
}

// Read64 goes through the traced Read32 so both halves show up in the log
func (t *TraceWindow) Read64(offset uint32) uint64 {
	return Read64(t, offset)
}
