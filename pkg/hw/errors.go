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
	"fmt"
)

// ErrMapping returned when a physical memory window can not be mapped.
// Usually the process is not privileged enough to open /dev/mem.
type ErrMapping struct {
	Base uint64
	What string
	Err  error
}

func (e ErrMapping) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Error while mapping window 0x%X: %s: %s", e.Base, e.What, e.Err)
	}
	return fmt.Sprintf("Error while mapping window 0x%X: %s", e.Base, e.What)
}

func (e ErrMapping) Unwrap() error {
	return e.Err
}

// ErrOffset is the panic value for an access outside of a window
type ErrOffset struct {
	Offset uint32
	Size   uint32
}

func (e ErrOffset) Error() string {
	return fmt.Sprintf("Register offset 0x%X is unaligned or outside of window of size 0x%X", e.Offset, e.Size)
}

// ErrClosed is the panic value for an access to an unmapped window
type ErrClosed struct {
	Base uint64
}

func (e ErrClosed) Error() string {
	return fmt.Sprintf("Window 0x%X is not mapped", e.Base)
}
