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
	"math"

	"jinr.ru/greenlab/go-bersim/pkg/regs"
	"jinr.ru/greenlab/go-bersim/pkg/table"
)

// OverflowSentinel is the frame error count the IP reports when its
// internal counter wraps. A snapshot holding exactly this value is suspect.
const OverflowSentinel uint64 = 1 << 32 * 1000

const two64 = 18446744073709551616.0

// Metric is a derived value that may be undefined
type Metric struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

func Defined(v float64) Metric {
	return Metric{Value: v, Valid: true}
}

var Undefined = Metric{}

// Format prints the value with verb or N/A when undefined
func (m Metric) Format(verb string) string {
	if !m.Valid {
		return "N/A"
	}
	return fmt.Sprintf(verb, m.Value)
}

func (m Metric) String() string {
	return m.Format("%g")
}

func ratio(num, den uint64) Metric {
	if den == 0 {
		return Undefined
	}
	return Defined(float64(num) / float64(den))
}

// BERPre is the channel bit error rate before decoding
func BERPre(s Snapshot) Metric {
	return ratio(s.BitErrorsPre, s.TotalBits)
}

// BERPost is the bit error rate after decoding
func BERPost(s Snapshot) Metric {
	return ratio(s.BitErrorsPost, s.TotalBits)
}

// CER is the codeword (frame) error rate
func CER(s Snapshot) Metric {
	return ratio(s.FrameErrors, s.TotalFrames)
}

// CodingGain is 10*log10(pre/post). Defined only when decoding strictly
// improved a non-zero post-decoding error rate.
func CodingGain(pre, post Metric) Metric {
	if !pre.Valid || !post.Valid || post.Value <= 0 || pre.Value <= post.Value {
		return Undefined
	}
	return Defined(10 * math.Log10(pre.Value/post.Value))
}

// NoiseVariance returns the variance of the signed noise whose absolute
// value follows the distribution of b
func NoiseVariance(b *table.Block) float64 {
	var (
		v    float64
		prev uint64
	)
	for k, c := range b {
		p := float64(c-prev) / two64
		v += p * float64(k*k)
		prev = c
	}
	return 2 * v
}

// SNR in dB of a probability block against the NRZ signal variance
func SNR(b *table.Block) Metric {
	if b == nil {
		return Undefined
	}
	v := NoiseVariance(b)
	if v <= 0 {
		return Undefined
	}
	return Defined(10 * math.Log10(table.SignalVariance/v))
}

// Check returns every inconsistency found in s
func Check(s Snapshot) []error {
	var errs []error
	if s.BitErrorsPre > s.TotalBits {
		errs = append(errs, ErrSnapshotInconsistency{
			Counter: regs.CntBitErrorsPre, Value: s.BitErrorsPre,
			Limit: s.TotalBits, What: "exceeds total bits",
		})
	}
	if s.BitErrorsPost > s.TotalBits {
		errs = append(errs, ErrSnapshotInconsistency{
			Counter: regs.CntBitErrorsPost, Value: s.BitErrorsPost,
			Limit: s.TotalBits, What: "exceeds total bits",
		})
	}
	if s.FrameErrors == OverflowSentinel {
		errs = append(errs, ErrSnapshotInconsistency{
			Counter: regs.CntFrameErrors, Value: s.FrameErrors,
			Limit: OverflowSentinel, What: "matches the 32-bit counter overflow pattern",
		})
	}
	return errs
}

// Report holds everything derived from one snapshot
type Report struct {
	Snapshot   Snapshot `json:"snapshot"`
	BERPre     Metric   `json:"berPre"`
	BERPost    Metric   `json:"berPost"`
	CER        Metric   `json:"cer"`
	CodingGain Metric   `json:"codingGain"`
	SNR        Metric   `json:"snr"`
	Warnings   []string `json:"warnings,omitempty"`
}

// Evaluate derives all metrics of s. Block may be nil when no trial is
// associated with the snapshot, then SNR is undefined.
// Bit error counters above the bit total leave BER, CER and coding gain
// undefined. The overflow pattern leaves CER undefined.
func Evaluate(s Snapshot, b *table.Block) Report {
	r := Report{
		Snapshot: s,
		SNR:      SNR(b),
	}
	if s.TotalBits == 0 {
		r.Warnings = append(r.Warnings, "No bits processed")
	}

	var bitsBroken, framesBroken bool
	for _, err := range Check(s) {
		r.Warnings = append(r.Warnings, err.Error())
		if err.(ErrSnapshotInconsistency).Counter == regs.CntFrameErrors {
			framesBroken = true
		} else {
			bitsBroken = true
		}
	}
	if bitsBroken {
		return r
	}

	r.BERPre = BERPre(s)
	r.BERPost = BERPost(s)
	r.CodingGain = CodingGain(r.BERPre, r.BERPost)
	if !framesBroken {
		r.CER = CER(s)
	}
	return r
}

// Lines renders the human readable result printout
func (r Report) Lines() []string {
	s := r.Snapshot
	return []string{
		fmt.Sprintf("Total bits:        %d", s.TotalBits),
		fmt.Sprintf("Bit errors (pre):  %d", s.BitErrorsPre),
		fmt.Sprintf("Bit errors (post): %d", s.BitErrorsPost),
		fmt.Sprintf("Total frames:      %d", s.TotalFrames),
		fmt.Sprintf("Frame errors:      %d", s.FrameErrors),
		fmt.Sprintf("BER (pre):         %s", r.BERPre.Format("%.2e")),
		fmt.Sprintf("BER (post):        %s", r.BERPost.Format("%.2e")),
		fmt.Sprintf("CER:               %s", r.CER.Format("%.2e")),
		fmt.Sprintf("Coding gain:       %s", r.CodingGain.Format("%.2f dB")),
		fmt.Sprintf("SNR:               %s", r.SNR.Format("%.2f dB")),
	}
}
