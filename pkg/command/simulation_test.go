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
package command_test

import (
	"encoding/binary"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"jinr.ru/greenlab/go-bersim/pkg/command"
	"jinr.ru/greenlab/go-bersim/pkg/config"
	"jinr.ru/greenlab/go-bersim/pkg/regs"
	"jinr.ru/greenlab/go-bersim/pkg/runner"
	"jinr.ru/greenlab/go-bersim/pkg/store"
)

// The simulator memory is emulated by a plain file holding the control
// window followed by the statistics window.
var _ = Describe("Hardware commands", func() {
	var (
		dir string
		mem *os.File
		cfg *config.Config
	)

	statsOffset := int64(regs.WindowSize)

	word := func(offset int64) uint32 {
		buf := make([]byte, 4)
		_, err := mem.ReadAt(buf, offset)
		Expect(err).NotTo(HaveOccurred())
		return binary.LittleEndian.Uint32(buf)
	}

	setWord := func(offset int64, value uint32) {
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, value)
		_, err := mem.WriteAt(buf, offset)
		Expect(err).NotTo(HaveOccurred())
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		var err error
		mem, err = os.Create(filepath.Join(dir, "mem"))
		Expect(err).NotTo(HaveOccurred())
		Expect(mem.Truncate(2 * int64(regs.WindowSize))).To(Succeed())

		cfg = config.NewDefaultConfig()
		cfg.DevMem = mem.Name()
		cfg.ControlBase = 0
		cfg.StatsBase = uint64(regs.WindowSize)
		cfg.LogDir = filepath.Join(dir, "logs")
		cfg.StoreConfig.Path = filepath.Join(dir, "results.db")
	})

	AfterEach(func() {
		mem.Close()
	})

	It("should show status without touching the simulator", func() {
		setWord(0, 0x810F)
		setWord(statsOffset+0x24, 42)
		Expect(command.ShowStatus(cfg)).To(Succeed())
		Expect(word(0)).To(Equal(uint32(0x810F)))
		Expect(word(statsOffset + 0x24)).To(Equal(uint32(42)))
	})

	It("should force a reset", func() {
		setWord(0, 0x810F)
		Expect(command.ForceReset(cfg)).To(Succeed())
		Expect(word(0)).To(BeZero())
	})

	It("should fail without the memory device", func() {
		cfg.DevMem = filepath.Join(dir, "missing")
		Expect(command.ShowStatus(cfg)).NotTo(Succeed())
		Expect(command.RunSimulation(cfg, false)).NotTo(Succeed())
	})

	It("should reject invalid parameters before mapping", func() {
		cfg.DevMem = filepath.Join(dir, "missing")
		cfg.MaxIterations = 32
		Expect(command.RunSimulation(cfg, false)).To(BeAssignableToTypeOf(regs.ErrInvalidParams{}))
		_, err := os.Stat(cfg.LogDir)
		Expect(os.IsNotExist(err)).To(BeTrue())
	})

	It("should run a trial and store its results", func() {
		cfg.Trials = 1
		cfg.Threshold = 5

		// frame errors keep coming after the counters are cleared
		done := make(chan struct{})
		stopped := make(chan struct{})
		go func() {
			defer close(stopped)
			buf := make([]byte, 4)
			binary.LittleEndian.PutUint32(buf, 7)
			for {
				select {
				case <-done:
					return
				case <-time.After(10 * time.Millisecond):
					mem.WriteAt(buf, statsOffset+0x24)
				}
			}
		}()
		defer func() {
			close(done)
			<-stopped
		}()

		Expect(command.RunSimulation(cfg, false)).To(Succeed())
		Expect(word(0)).To(BeZero())

		s, err := store.OpenReadOnly(cfg.StoreConfig.Path)
		Expect(err).NotTo(HaveOccurred())
		defer s.Close()
		sum, err := s.Latest()
		Expect(err).NotTo(HaveOccurred())
		Expect(sum.Cancelled).To(BeFalse())
		Expect(sum.Finished.IsZero()).To(BeFalse())
		Expect(sum.Trials).To(HaveLen(1))
		Expect(sum.Trials[0].Outcome).To(Equal(runner.Completed))
		Expect(sum.Trials[0].Snapshot.FrameErrors).To(Equal(uint64(7)))
		Expect(sum.Trials[0].Report.Warnings).To(ContainElement("No bits processed"))

		logs, err := ioutil.ReadDir(cfg.LogDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(logs).To(HaveLen(1))
		data, err := ioutil.ReadFile(filepath.Join(cfg.LogDir, logs[0].Name()))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("CSV: 0,0,0,0,7"))
	})
})
