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
	_ "embed"
	"fmt"
	"io/ioutil"
	"math"
	"strconv"

	"sigs.k8s.io/yaml"

	"jinr.ru/greenlab/go-bersim/pkg/log"
)

const (
	// BlockLength is the number of noise amplitude levels per block
	BlockLength = 64
	// Terminal is the value every block must end with
	Terminal uint64 = math.MaxUint64
)

//go:embed default.yaml
var defaultTable []byte

// Block is a quantized cumulative distribution of the absolute noise
// amplitude: Block[k]/2^64 is the probability that |n| <= k.
type Block [BlockLength]uint64

// Validate checks that b is non-decreasing and ends at Terminal
func (b *Block) Validate() error {
	for k := 1; k < BlockLength; k++ {
		if b[k] < b[k-1] {
			return ErrNotMonotonic{Index: k, Prev: b[k-1], Value: b[k]}
		}
	}
	if b[BlockLength-1] != Terminal {
		return ErrTerminal{Value: b[BlockLength-1]}
	}
	return nil
}

// File is the on-disk form of a table
type File struct {
	Description string   `json:"description,omitempty"`
	Values      []string `json:"values"`
}

// Table is a validated sequence of blocks, one block per trial
type Table struct {
	Description string
	Blocks      []Block
}

func (t *Table) Len() int {
	return len(t.Blocks)
}

// Block returns block i
func (t *Table) Block(i int) (*Block, error) {
	if i < 0 || i >= len(t.Blocks) {
		return nil, ErrBlockIndex{Index: i, Len: len(t.Blocks)}
	}
	return &t.Blocks[i], nil
}

// New partitions values into consecutive blocks and validates them
func New(description string, values []uint64) (*Table, error) {
	if len(values) == 0 || len(values)%BlockLength != 0 {
		return nil, ErrTableSize{Size: len(values)}
	}
	t := &Table{
		Description: description,
		Blocks:      make([]Block, len(values)/BlockLength),
	}
	for i := range t.Blocks {
		copy(t.Blocks[i][:], values[i*BlockLength:(i+1)*BlockLength])
		if err := t.Blocks[i].Validate(); err != nil {
			return nil, ErrInvalidBlock{Block: i, Err: err}
		}
	}
	return t, nil
}

// Parse decodes a YAML table. Values are unsigned integers in any base
// strconv.ParseUint understands, usually hexadecimal with 0x prefix.
func Parse(data []byte) (*Table, error) {
	f := &File{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, err
	}
	values := make([]uint64, 0, len(f.Values))
	for i, s := range f.Values {
		v, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return nil, ErrValue{Index: i, Value: s, Err: err}
		}
		values = append(values, v)
	}
	return New(f.Description, values)
}

// Load reads and validates a table file
func Load(path string) (*Table, error) {
	log.Debug("Loading probability table: %s", path)
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Default returns the table built into the binary
func Default() (*Table, error) {
	return Parse(defaultTable)
}

// LoadOrDefault loads path or falls back to the built-in table if path is empty
func LoadOrDefault(path string) (*Table, error) {
	if path == "" {
		return Default()
	}
	return Load(path)
}

// Marshal encodes the table in the same format Parse reads
func (t *Table) Marshal() ([]byte, error) {
	f := &File{
		Description: t.Description,
		Values:      make([]string, 0, len(t.Blocks)*BlockLength),
	}
	for _, b := range t.Blocks {
		for _, v := range b {
			f.Values = append(f.Values, fmt.Sprintf("0x%016x", v))
		}
	}
	return yaml.Marshal(f)
}
