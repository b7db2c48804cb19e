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
package stats_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"jinr.ru/greenlab/go-bersim/pkg/regs"
	"jinr.ru/greenlab/go-bersim/pkg/stats"
	"jinr.ru/greenlab/go-bersim/pkg/table"
)

func flatBlock() *table.Block {
	b := &table.Block{}
	for k := range b {
		b[k] = table.Terminal
	}
	return b
}

var _ = Describe("Metrics", func() {
	Context("error rates", func() {
		It("should be undefined without processed bits", func() {
			s := stats.Snapshot{BitErrorsPre: 5, BitErrorsPost: 1}
			Expect(stats.BERPre(s).Valid).To(BeFalse())
			Expect(stats.BERPost(s).Valid).To(BeFalse())
			Expect(stats.BERPre(s).String()).To(Equal("N/A"))
		})

		It("should divide errors by totals", func() {
			s := stats.Snapshot{TotalBits: 1000000, BitErrorsPre: 1000, BitErrorsPost: 10, TotalFrames: 100, FrameErrors: 4}
			Expect(stats.BERPre(s)).To(Equal(stats.Defined(1e-3)))
			Expect(stats.BERPost(s)).To(Equal(stats.Defined(1e-5)))
			Expect(stats.CER(s)).To(Equal(stats.Defined(0.04)))
		})

		It("should leave CER undefined without frames", func() {
			Expect(stats.CER(stats.Snapshot{TotalBits: 10, FrameErrors: 3}).Valid).To(BeFalse())
		})
	})

	Context("coding gain", func() {
		It("should be 20 dB for a hundredfold improvement", func() {
			g := stats.CodingGain(stats.Defined(1e-3), stats.Defined(1e-5))
			Expect(g.Valid).To(BeTrue())
			Expect(g.Value).To(BeNumerically("~", 20, 1e-9))
			Expect(g.Format("%.2f dB")).To(Equal("20.00 dB"))
		})

		It("should be undefined when decoding corrected everything", func() {
			Expect(stats.CodingGain(stats.Defined(1e-3), stats.Defined(0)).Valid).To(BeFalse())
		})

		It("should be undefined when decoding made things worse", func() {
			Expect(stats.CodingGain(stats.Defined(1e-5), stats.Defined(1e-3)).Valid).To(BeFalse())
			Expect(stats.CodingGain(stats.Defined(1e-3), stats.Defined(1e-3)).Valid).To(BeFalse())
		})

		It("should be undefined when an input is undefined", func() {
			Expect(stats.CodingGain(stats.Undefined, stats.Defined(1e-3)).Valid).To(BeFalse())
		})
	})

	Context("SNR", func() {
		It("should be undefined when all noise sits at amplitude 0", func() {
			snr := stats.SNR(flatBlock())
			Expect(snr.Valid).To(BeFalse())
			Expect(snr.Format("%.2f dB")).To(Equal("N/A"))
		})

		It("should be undefined without a block", func() {
			Expect(stats.SNR(nil).Valid).To(BeFalse())
		})

		It("should be finite for any spread distribution", func() {
			b := flatBlock()
			b[0] = 1 << 63
			snr := stats.SNR(b)
			Expect(snr.Valid).To(BeTrue())
			Expect(math.IsInf(snr.Value, 0) || math.IsNaN(snr.Value)).To(BeFalse())
		})

		It("should match a hand computed variance", func() {
			// half of the mass at 0, half at 1: var_n = 2 * 0.5 * 1 = 1
			b := flatBlock()
			b[0] = 1 << 63
			Expect(stats.NoiseVariance(b)).To(BeNumerically("~", 1, 1e-12))
			Expect(stats.SNR(b).Value).To(BeNumerically("~", 10*math.Log10(table.SignalVariance), 1e-9))
		})
	})

	Context("consistency", func() {
		It("should flag the overflow pattern exactly", func() {
			Expect(stats.Check(stats.Snapshot{TotalBits: 1, FrameErrors: 4294967296000})).To(HaveLen(1))
			Expect(stats.Check(stats.Snapshot{TotalBits: 1, FrameErrors: 4294967296001})).To(BeEmpty())
			Expect(stats.Check(stats.Snapshot{TotalBits: 1, FrameErrors: 4294967295999})).To(BeEmpty())
			Expect(stats.OverflowSentinel).To(Equal(uint64(4294967296000)))
		})

		It("should flag error counters above the bit total", func() {
			errs := stats.Check(stats.Snapshot{TotalBits: 10, BitErrorsPre: 11, BitErrorsPost: 12})
			Expect(errs).To(HaveLen(2))
			Expect(errs[0]).To(BeAssignableToTypeOf(stats.ErrSnapshotInconsistency{}))
			Expect(errs[0].(stats.ErrSnapshotInconsistency).Counter).To(Equal(regs.CntBitErrorsPre))
			Expect(errs[1].(stats.ErrSnapshotInconsistency).Counter).To(Equal(regs.CntBitErrorsPost))
		})
	})

	Context("evaluation", func() {
		It("should compute every metric of a sane snapshot", func() {
			b, err := table.Default()
			Expect(err).NotTo(HaveOccurred())
			s := stats.Snapshot{TotalBits: 1000000, BitErrorsPre: 1000, BitErrorsPost: 10, TotalFrames: 100, FrameErrors: 4}

			r := stats.Evaluate(s, &b.Blocks[0])
			Expect(r.Warnings).To(BeEmpty())
			Expect(r.BERPre.Valid).To(BeTrue())
			Expect(r.BERPost.Valid).To(BeTrue())
			Expect(r.CER.Valid).To(BeTrue())
			Expect(r.CodingGain.Value).To(BeNumerically("~", 20, 1e-9))
			Expect(r.SNR.Value).To(BeNumerically("~", 5, 0.01))
		})

		It("should suppress rates of an inconsistent snapshot", func() {
			s := stats.Snapshot{TotalBits: 10, BitErrorsPre: 11, TotalFrames: 5, FrameErrors: 1}
			r := stats.Evaluate(s, nil)
			Expect(r.Warnings).To(HaveLen(1))
			Expect(r.BERPre.Valid).To(BeFalse())
			Expect(r.BERPost.Valid).To(BeFalse())
			Expect(r.CER.Valid).To(BeFalse())
			Expect(r.CodingGain.Valid).To(BeFalse())
			Expect(r.Snapshot).To(Equal(s))
		})

		It("should keep bit error rates when only the frame counter overflowed", func() {
			s := stats.Snapshot{TotalBits: 1000, BitErrorsPre: 10, BitErrorsPost: 1, TotalFrames: 5, FrameErrors: stats.OverflowSentinel}
			r := stats.Evaluate(s, nil)
			Expect(r.Warnings).To(HaveLen(1))
			Expect(r.BERPre.Valid).To(BeTrue())
			Expect(r.CER.Valid).To(BeFalse())
		})

		It("should warn about an idle simulator", func() {
			r := stats.Evaluate(stats.Snapshot{}, nil)
			Expect(r.Warnings).To(ConsistOf("No bits processed"))
			Expect(r.BERPre.Valid).To(BeFalse())
		})

		It("should print N/A for undefined values", func() {
			r := stats.Evaluate(stats.Snapshot{TotalBits: 100, BitErrorsPre: 1}, nil)
			Expect(r.Lines()).To(ContainElement(HaveSuffix("Coding gain:       N/A")))
			Expect(r.Lines()).To(ContainElement(HaveSuffix("SNR:               N/A")))
		})
	})

	It("should print counters as a CSV line", func() {
		s := stats.Snapshot{TotalBits: 1, BitErrorsPre: 2, BitErrorsPost: 3, TotalFrames: 4, FrameErrors: 5}
		Expect(s.CSV()).To(Equal("1,2,3,4,5"))
		Expect(s.Counter(regs.CntTotalFrames)).To(Equal(uint64(4)))
	})
})
