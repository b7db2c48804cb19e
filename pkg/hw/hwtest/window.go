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

// Package hwtest provides register windows for tests that do not have
// access to the accelerator.
package hwtest

import (
	"sync"
	"sync/atomic"

	"jinr.ru/greenlab/go-bersim/pkg/hw"
)

// BufferWindow is a register window backed by plain memory.
// Words may be poked from another goroutine to emulate the hardware.
type BufferWindow struct {
	words  []uint32
	size   uint32
	closed int32
}

var _ hw.Window = &BufferWindow{}

func NewBufferWindow(size uint32) *BufferWindow {
	return &BufferWindow{
		words: make([]uint32, size/4),
		size:  size,
	}
}

func (b *BufferWindow) index(offset uint32) int {
	if atomic.LoadInt32(&b.closed) != 0 {
		panic(hw.ErrClosed{})
	}
	hw.CheckOffset(offset, b.size)
	return int(offset / 4)
}

func (b *BufferWindow) Read32(offset uint32) uint32 {
	return atomic.LoadUint32(&b.words[b.index(offset)])
}

func (b *BufferWindow) Write32(offset, value uint32) {
	atomic.StoreUint32(&b.words[b.index(offset)], value)
}

func (b *BufferWindow) Read64(offset uint32) uint64 {
	return hw.Read64(b, offset)
}

// Set64 stores a counter the way the hardware lays it out
func (b *BufferWindow) Set64(offset uint32, value uint64) {
	b.Write32(offset, uint32(value>>32))
	b.Write32(offset+4, uint32(value))
}

func (b *BufferWindow) Close() error {
	atomic.StoreInt32(&b.closed, 1)
	return nil
}

func (b *BufferWindow) Closed() bool {
	return atomic.LoadInt32(&b.closed) != 0
}

type Op int

const (
	OpRead Op = iota
	OpWrite
)

func (o Op) String() string {
	if o == OpRead {
		return "R"
	}
	return "W"
}

// Access is one recorded bus access
type Access struct {
	Op     Op
	Offset uint32
	Value  uint32
}

// Recorder wraps a window and keeps the ordered list of accesses.
// OnWrite, if set, runs after every write and may change the window
// to emulate how the IP reacts.
type Recorder struct {
	hw.Window
	OnWrite func(w hw.Window, offset, value uint32)

	mu  sync.Mutex
	log []Access
}

var _ hw.Window = &Recorder{}

func NewRecorder(w hw.Window) *Recorder {
	return &Recorder{Window: w}
}

func (r *Recorder) add(a Access) {
	r.mu.Lock()
	r.log = append(r.log, a)
	r.mu.Unlock()
}

func (r *Recorder) Read32(offset uint32) uint32 {
	value := r.Window.Read32(offset)
	r.add(Access{Op: OpRead, Offset: offset, Value: value})
	return value
}

func (r *Recorder) Write32(offset, value uint32) {
	r.Window.Write32(offset, value)
	r.add(Access{Op: OpWrite, Offset: offset, Value: value})
	if r.OnWrite != nil {
		r.OnWrite(r.Window, offset, value)
	}
}

func (r *Recorder) Read64(offset uint32) uint64 {
	return hw.Read64(r, offset)
}

// Accesses returns a copy of everything recorded so far
func (r *Recorder) Accesses() []Access {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Access(nil), r.log...)
}

// Writes returns recorded writes only
func (r *Recorder) Writes() []Access {
	var writes []Access
	for _, a := range r.Accesses() {
		if a.Op == OpWrite {
			writes = append(writes, a)
		}
	}
	return writes
}

// WritesTo returns recorded writes to a single offset
func (r *Recorder) WritesTo(offset uint32) []Access {
	var writes []Access
	for _, a := range r.Writes() {
		if a.Offset == offset {
			writes = append(writes, a)
		}
	}
	return writes
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.log = nil
	r.mu.Unlock()
}
