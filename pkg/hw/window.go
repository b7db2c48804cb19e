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
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"

	"jinr.ru/greenlab/go-bersim/pkg/log"
)

const (
	DefaultDevMem = "/dev/mem"
)

// Window is a 32-bit register window. Every call is exactly one bus access
// and accesses are issued in program order.
type Window interface {
	Read32(offset uint32) uint32
	Write32(offset, value uint32)
	Read64(offset uint32) uint64
	Close() error
}

// Read64 composes a 64-bit counter out of two words: the word at offset is
// the high half, the word at offset+4 is the low half. High is read first.
func Read64(w Window, offset uint32) uint64 {
	high := w.Read32(offset)
	low := w.Read32(offset + 4)
	return uint64(high)<<32 | uint64(low)
}

// CheckOffset panics with ErrOffset unless a word at offset fits into size bytes
func CheckOffset(offset, size uint32) {
	if offset%4 != 0 || uint64(offset)+4 > uint64(size) {
		panic(ErrOffset{Offset: offset, Size: size})
	}
}

// MappedWindow is a physical memory region mapped from /dev/mem
type MappedWindow struct {
	base uint64
	size uint32
	file *os.File
	mem  []byte
}

var _ Window = &MappedWindow{}

// Open maps size bytes of physical memory at base. The window owns both the
// file descriptor and the mapping until Close.
func Open(devmem string, base uint64, size uint32) (*MappedWindow, error) {
	log.Debug("Mapping window: device: %s base: 0x%X size: 0x%X", devmem, base, size)

	if size == 0 || size%4 != 0 {
		return nil, ErrMapping{Base: base, What: "window size must be a non-zero multiple of 4"}
	}
	if base%uint64(os.Getpagesize()) != 0 {
		return nil, ErrMapping{Base: base, What: "base address is not page aligned"}
	}

	file, err := os.OpenFile(devmem, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, ErrMapping{Base: base, What: "can not open " + devmem, Err: err}
	}

	mem, err := unix.Mmap(int(file.Fd()), int64(base), int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, ErrMapping{Base: base, What: "mmap rejected", Err: err}
	}

	return &MappedWindow{
		base: base,
		size: size,
		file: file,
		mem:  mem,
	}, nil
}

func (w *MappedWindow) Base() uint64 {
	return w.base
}

func (w *MappedWindow) Size() uint32 {
	return w.size
}

func (w *MappedWindow) word(offset uint32) *uint32 {
	if w.mem == nil {
		panic(ErrClosed{Base: w.base})
	}
	CheckOffset(offset, w.size)
	return (*uint32)(unsafe.Pointer(&w.mem[offset]))
}

// Read32 ...
func (w *MappedWindow) Read32(offset uint32) uint32 {
	return atomic.LoadUint32(w.word(offset))
}

// Write32 ...
func (w *MappedWindow) Write32(offset, value uint32) {
	atomic.StoreUint32(w.word(offset), value)
}

// Read64 ...
func (w *MappedWindow) Read64(offset uint32) uint64 {
	return Read64(w, offset)
}

// Close unmaps the window. Closing twice is a no-op.
func (w *MappedWindow) Close() error {
	if w.mem == nil {
		return nil
	}
	log.Debug("Unmapping window: base: 0x%X", w.base)

	var (
		errMap  = unix.Munmap(w.mem)
		errFile = w.file.Close()
	)
	w.mem = nil
	w.file = nil

	if errMap != nil {
		return ErrMapping{Base: w.base, What: "munmap failed", Err: errMap}
	}
	if errFile != nil {
		return ErrMapping{Base: w.base, What: "can not close memory device", Err: errFile}
	}
	return nil
}
