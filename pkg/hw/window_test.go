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
package hw_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"jinr.ru/greenlab/go-bersim/pkg/hw"
	"jinr.ru/greenlab/go-bersim/pkg/hw/hwtest"
	"jinr.ru/greenlab/go-bersim/pkg/regs"
)

// backingFile creates a file that can stand in for the memory device
func backingFile(size int64) string {
	path := filepath.Join(GinkgoT().TempDir(), "mem")
	f, err := os.Create(path)
	Expect(err).NotTo(HaveOccurred())
	Expect(f.Truncate(size)).To(Succeed())
	Expect(f.Close()).To(Succeed())
	return path
}

var _ = Describe("MappedWindow", func() {
	It("should read back what was written", func() {
		w, err := hw.Open(backingFile(int64(regs.WindowSize)), 0, regs.WindowSize)
		Expect(err).NotTo(HaveOccurred())
		defer w.Close()

		w.Write32(0x10, 0xDEADBEEF)
		w.Write32(0x14, 0x00C0FFEE)
		Expect(w.Read32(0x10)).To(Equal(uint32(0xDEADBEEF)))
		Expect(w.Read64(0x10)).To(Equal(uint64(0xDEADBEEF00C0FFEE)))
		Expect(w.Size()).To(Equal(regs.WindowSize))
	})

	It("should share the mapping with the device", func() {
		path := backingFile(int64(regs.WindowSize))
		w, err := hw.Open(path, 0, regs.WindowSize)
		Expect(err).NotTo(HaveOccurred())
		w.Write32(0, 0x04030201)
		Expect(w.Close()).To(Succeed())

		data, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(data[:4]).To(Equal([]byte{0x01, 0x02, 0x03, 0x04}))
	})

	It("should close once", func() {
		w, err := hw.Open(backingFile(int64(regs.WindowSize)), 0, regs.WindowSize)
		Expect(err).NotTo(HaveOccurred())
		Expect(w.Close()).To(Succeed())
		Expect(w.Close()).To(Succeed())
		Expect(func() { w.Read32(0) }).To(PanicWith(hw.ErrClosed{Base: 0}))
	})

	It("should fail without the device", func() {
		_, err := hw.Open(filepath.Join(GinkgoT().TempDir(), "missing"), 0, regs.WindowSize)
		var mapping hw.ErrMapping
		Expect(errors.As(err, &mapping)).To(BeTrue())
		Expect(errors.Is(err, os.ErrNotExist)).To(BeTrue())
	})

	It("should reject unaligned windows", func() {
		_, err := hw.Open(backingFile(int64(regs.WindowSize)), 0x10, regs.WindowSize)
		Expect(err).To(BeAssignableToTypeOf(hw.ErrMapping{}))

		_, err = hw.Open(backingFile(int64(regs.WindowSize)), 0, 6)
		Expect(err).To(BeAssignableToTypeOf(hw.ErrMapping{}))
	})
})

var _ = Describe("BufferWindow", func() {
	It("should compose 64-bit values high word first", func() {
		b := hwtest.NewBufferWindow(regs.WindowSize)
		b.Write32(0x20, 0x00000003)
		b.Write32(0x24, 0xE8000000)
		Expect(b.Read64(0x20)).To(Equal(uint64(0x3E8000000)))

		b.Set64(0x08, 0x0123456789ABCDEF)
		Expect(b.Read32(0x08)).To(Equal(uint32(0x01234567)))
		Expect(b.Read32(0x0C)).To(Equal(uint32(0x89ABCDEF)))
	})

	It("should panic on bad offsets", func() {
		b := hwtest.NewBufferWindow(regs.WindowSize)
		Expect(func() { b.Read32(0x02) }).To(PanicWith(hw.ErrOffset{Offset: 0x02, Size: regs.WindowSize}))
		Expect(func() { b.Write32(regs.WindowSize, 0) }).To(Panic())
		Expect(func() { b.Read32(regs.WindowSize - 4) }).NotTo(Panic())
	})

	It("should refuse access after close", func() {
		b := hwtest.NewBufferWindow(regs.WindowSize)
		Expect(b.Close()).To(Succeed())
		Expect(b.Closed()).To(BeTrue())
		Expect(func() { b.Read32(0) }).To(Panic())
	})
})

var _ = Describe("TraceWindow", func() {
	It("should pass accesses through in order", func() {
		rec := hwtest.NewRecorder(hwtest.NewBufferWindow(regs.WindowSize))
		t := hw.NewTraceWindow(rec, "control")

		t.Write32(0x00, 0x810F)
		Expect(t.Read32(0x00)).To(Equal(uint32(0x810F)))
		Expect(t.Read64(0x08)).To(BeZero())

		Expect(rec.Accesses()).To(Equal([]hwtest.Access{
			{Op: hwtest.OpWrite, Offset: 0x00, Value: 0x810F},
			{Op: hwtest.OpRead, Offset: 0x00, Value: 0x810F},
			{Op: hwtest.OpRead, Offset: 0x08},
			{Op: hwtest.OpRead, Offset: 0x0C},
		}))
	})
})
