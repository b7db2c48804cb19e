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
)

// ErrTableSize returned when the number of values is not a whole number of blocks
type ErrTableSize struct {
	Size int
}

func (e ErrTableSize) Error() string {
	return fmt.Sprintf("Table size %d is not a positive multiple of %d", e.Size, BlockLength)
}

// ErrValue returned when a table value can not be parsed
type ErrValue struct {
	Index int
	Value string
	Err   error
}

func (e ErrValue) Error() string {
	return fmt.Sprintf("Wrong table value #%d %q: %s", e.Index, e.Value, e.Err)
}

func (e ErrValue) Unwrap() error {
	return e.Err
}

// ErrNotMonotonic returned when a block decreases
type ErrNotMonotonic struct {
	Index int
	Prev  uint64
	Value uint64
}

func (e ErrNotMonotonic) Error() string {
	return fmt.Sprintf("Value at level %d decreases: 0x%016x < 0x%016x", e.Index, e.Value, e.Prev)
}

// ErrTerminal returned when a block does not end with the maximum value
type ErrTerminal struct {
	Value uint64
}

func (e ErrTerminal) Error() string {
	return fmt.Sprintf("Last value must be 0x%016x, got 0x%016x", Terminal, e.Value)
}

// ErrInvalidBlock wraps a validation error with the block number
type ErrInvalidBlock struct {
	Block int
	Err   error
}

func (e ErrInvalidBlock) Error() string {
	return fmt.Sprintf("Invalid block %d: %s", e.Block, e.Err)
}

func (e ErrInvalidBlock) Unwrap() error {
	return e.Err
}

// ErrBlockIndex returned when a block outside of the table is requested
type ErrBlockIndex struct {
	Index int
	Len   int
}

func (e ErrBlockIndex) Error() string {
	return fmt.Sprintf("Block %d requested, table has %d blocks", e.Index, e.Len)
}
