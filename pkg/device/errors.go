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
package device

import (
	"errors"
	"fmt"
	"strings"

	"jinr.ru/greenlab/go-bersim/pkg/regs"
)

// ErrConfigurationVerification returned when the readback after a load does
// not show an armed simulator. The trial goes on, polling tells the rest.
type ErrConfigurationVerification struct {
	Control regs.ControlWord
	Index   uint32
}

func (e ErrConfigurationVerification) Error() string {
	var what []string
	if !e.Control.Started() {
		what = append(what, fmt.Sprintf("START bit not set in control register 0x%08X", uint32(e.Control)))
	}
	if e.Index != regs.IndexSentinel {
		what = append(what, fmt.Sprintf("index register not idle: 0x%08X", e.Index))
	}
	return "Configuration may have failed: " + strings.Join(what, ", ")
}

// ErrResetIncomplete returned when registers do not reach the expected
// state after a stop or reset procedure. Procedures are never retried.
type ErrResetIncomplete struct {
	Procedure string
	Control   regs.ControlWord
	Index     uint32
}

func (e ErrResetIncomplete) Error() string {
	return fmt.Sprintf("%s may be incomplete: control: 0x%08X index: 0x%08X",
		e.Procedure, uint32(e.Control), e.Index)
}

// ErrNotConfigured returned by Start when no parameters were programmed yet
type ErrNotConfigured struct{}

func (e ErrNotConfigured) Error() string {
	return "Simulator is not configured"
}

// IsWarning reports whether err is a non-fatal protocol warning
func IsWarning(err error) bool {
	var (
		verify ErrConfigurationVerification
		reset  ErrResetIncomplete
	)
	return errors.As(err, &verify) || errors.As(err, &reset)
}
