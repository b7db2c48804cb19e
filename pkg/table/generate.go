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

package table

import (
	"fmt"
	"math"
	"strings"
)

// SignalVariance is the variance of a +/-127 NRZ symbol stream as seen by
// the IP noise adder
const SignalVariance = 127.0 * 127.0 / 3

const (
	lambdaMin     = 1e-6
	lambdaMax     = 1.0
	fitTolerance  = 1e-4
	fitIterations = 100
	minWeight     = 1e-15
	two64         = 18446744073709551616.0
)

// exponentialPMF is a truncated exponential distribution over amplitude
// levels 0..63 with decay rate lambda
func exponentialPMF(lambda float64) [BlockLength]float64 {
	var (
		p   [BlockLength]float64
		sum float64
	)
	// k = 0 has the largest weight, so exp(-lambda*k) is already normalized to 1 at the peak
	for k := range p {
		p[k] = math.Max(math.Exp(-lambda*float64(k)), minWeight)
		sum += p[k]
	}
	for k := range p {
		p[k] /= sum
	}
	return p
}

func secondMoment(p [BlockLength]float64) float64 {
	var m float64
	for k, pk := range p {
		m += pk * float64(k*k)
	}
	return m
}

// fitLambda bisects the decay rate until the second moment of the PMF
// matches target, returning the best rate seen
func fitLambda(target float64) float64 {
	lo, hi := lambdaMin, lambdaMax
	best, bestErr := 0.1, math.Inf(1)
	for i := 0; i < fitIterations; i++ {
		lambda := (lo + hi) / 2
		m := secondMoment(exponentialPMF(lambda))
		e := math.Abs(m-target) / target
		if e < bestErr {
			best, bestErr = lambda, e
		}
		if e < fitTolerance {
			break
		}
		if m > target {
			lo = lambda
		} else {
			hi = lambda
		}
	}
	return best
}

// toThreshold scales a probability to the 64-bit threshold range
func toThreshold(c float64) uint64 {
	if c <= 0 {
		return 0
	}
	v := c * float64(math.MaxUint64)
	if v >= two64 {
		return math.MaxUint64
	}
	return uint64(v)
}

// GenerateBlock builds a block whose noise amplitude distribution gives
// roughly snrDB against SignalVariance
func GenerateBlock(snrDB float64) Block {
	varN := SignalVariance / math.Pow(10, snrDB/10)
	p := exponentialPMF(fitLambda(varN / 2))

	var (
		b   Block
		cum float64
	)
	for k := range p {
		cum = math.Min(cum+p[k], 1)
		b[k] = toThreshold(cum)
		if k > 0 && b[k] < b[k-1] {
			b[k] = b[k-1]
		}
	}
	b[BlockLength-1] = Terminal
	return b
}

// Generate builds a table with one block per target SNR
func Generate(snrs []float64) *Table {
	t := &Table{
		Description: describe(snrs),
		Blocks:      make([]Block, len(snrs)),
	}
	for i, snr := range snrs {
		t.Blocks[i] = GenerateBlock(snr)
	}
	return t
}

func describe(snrs []float64) string {
	s := make([]string, len(snrs))
	for i, snr := range snrs {
		s[i] = fmt.Sprintf("%g", snr)
	}
	return fmt.Sprintf("AWGN, %d SNR points: %s dB", len(snrs), strings.Join(s, ", "))
}
