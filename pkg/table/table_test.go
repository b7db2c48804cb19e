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

package table_test

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"jinr.ru/greenlab/go-bersim/pkg/stats"
	"jinr.ru/greenlab/go-bersim/pkg/table"
)

var defaultSNRs = []float64{5, 6, 7, 8, 9, 10, 10.5, 11, 11.5, 12, 12.5, 13, 13.5, 13.6, 13.7, 13.8, 13.9, 14}

func rampValues(blocks int) []uint64 {
	values := make([]uint64, 0, blocks*table.BlockLength)
	for b := 0; b < blocks; b++ {
		for k := 0; k < table.BlockLength-1; k++ {
			values = append(values, uint64(k)<<50)
		}
		values = append(values, table.Terminal)
	}
	return values
}

func yamlTable(values []string) []byte {
	var sb strings.Builder
	sb.WriteString("description: test\nvalues:\n")
	for _, v := range values {
		fmt.Fprintf(&sb, "- %q\n", v)
	}
	return []byte(sb.String())
}

var _ = Describe("Table", func() {
	Context("built-in table", func() {
		It("should hold 18 valid blocks", func() {
			t, err := table.Default()
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Len()).To(Equal(18))
			for i := range t.Blocks {
				Expect(t.Blocks[i].Validate()).To(Succeed())
			}
		})

		It("should cover 5 to 14 dB", func() {
			t, err := table.Default()
			Expect(err).NotTo(HaveOccurred())
			for i, want := range defaultSNRs {
				b, err := t.Block(i)
				Expect(err).NotTo(HaveOccurred())
				snr := stats.SNR(b)
				Expect(snr.Valid).To(BeTrue())
				Expect(snr.Value).To(BeNumerically("~", want, 0.05))
			}
		})

		It("should reject out of range block requests", func() {
			t, err := table.Default()
			Expect(err).NotTo(HaveOccurred())
			_, err = t.Block(18)
			Expect(err).To(BeAssignableToTypeOf(table.ErrBlockIndex{}))
			_, err = t.Block(-1)
			Expect(err).To(HaveOccurred())
		})

		It("should survive marshal and parse", func() {
			t, err := table.Default()
			Expect(err).NotTo(HaveOccurred())
			data, err := t.Marshal()
			Expect(err).NotTo(HaveOccurred())
			again, err := table.Parse(data)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Blocks).To(Equal(t.Blocks))
			Expect(again.Description).To(Equal(t.Description))
		})
	})

	Context("validation", func() {
		It("should accept whole blocks", func() {
			t, err := table.New("ramp", rampValues(2))
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Len()).To(Equal(2))
		})

		It("should reject partial blocks", func() {
			_, err := table.New("short", rampValues(1)[:63])
			Expect(err).To(Equal(table.ErrTableSize{Size: 63}))

			_, err = table.New("empty", nil)
			Expect(err).To(Equal(table.ErrTableSize{Size: 0}))
		})

		It("should reject decreasing blocks", func() {
			values := rampValues(2)
			values[table.BlockLength+10] = 0

			_, err := table.New("broken", values)
			Expect(err).To(HaveOccurred())

			var invalid table.ErrInvalidBlock
			Expect(errors.As(err, &invalid)).To(BeTrue())
			Expect(invalid.Block).To(Equal(1))

			var notMonotonic table.ErrNotMonotonic
			Expect(errors.As(err, &notMonotonic)).To(BeTrue())
			Expect(notMonotonic.Index).To(Equal(11))
		})

		It("should reject blocks not ending at the maximum", func() {
			values := rampValues(1)
			values[table.BlockLength-1] = math.MaxUint64 - 1

			_, err := table.New("open", values)
			var terminal table.ErrTerminal
			Expect(errors.As(err, &terminal)).To(BeTrue())
			Expect(terminal.Value).To(Equal(uint64(math.MaxUint64 - 1)))
		})

		It("should reject values that are not numbers", func() {
			values := make([]string, table.BlockLength)
			for i := range values {
				values[i] = "0xffffffffffffffff"
			}
			values[3] = "0xnothex"

			_, err := table.Parse(yamlTable(values))
			var bad table.ErrValue
			Expect(errors.As(err, &bad)).To(BeTrue())
			Expect(bad.Index).To(Equal(3))
		})
	})

	Context("files", func() {
		It("should load a table from disk", func() {
			values := make([]string, table.BlockLength)
			for i := range values {
				values[i] = "0xffffffffffffffff"
			}
			path := filepath.Join(GinkgoT().TempDir(), "flat.yaml")
			Expect(os.WriteFile(path, yamlTable(values), 0644)).To(Succeed())

			t, err := table.Load(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Len()).To(Equal(1))
			Expect(t.Description).To(Equal("test"))
		})

		It("should name the file in errors", func() {
			path := filepath.Join(GinkgoT().TempDir(), "bad.yaml")
			Expect(os.WriteFile(path, yamlTable([]string{"0x1"}), 0644)).To(Succeed())

			_, err := table.Load(path)
			Expect(err).To(MatchError(ContainSubstring(path)))
		})

		It("should fall back to the built-in table", func() {
			t, err := table.LoadOrDefault("")
			Expect(err).NotTo(HaveOccurred())
			Expect(t.Len()).To(Equal(18))
		})
	})

	Context("generation", func() {
		It("should produce valid blocks close to the target SNR", func() {
			t := table.Generate(defaultSNRs)
			Expect(t.Len()).To(Equal(len(defaultSNRs)))
			for i, want := range defaultSNRs {
				Expect(t.Blocks[i].Validate()).To(Succeed())
				snr := stats.SNR(&t.Blocks[i])
				Expect(snr.Valid).To(BeTrue())
				Expect(snr.Value).To(BeNumerically("~", want, 0.1))
			}
		})

		It("should reproduce the built-in table", func() {
			builtin, err := table.Default()
			Expect(err).NotTo(HaveOccurred())
			generated := table.Generate(defaultSNRs)
			for i := range builtin.Blocks {
				Expect(stats.SNR(&generated.Blocks[i]).Value).
					To(BeNumerically("~", stats.SNR(&builtin.Blocks[i]).Value, 0.01))
			}
		})
	})
})
