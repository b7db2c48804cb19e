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

package regs

import (
	"fmt"
)

// ErrInvalidParams returned when a trial configuration does not fit the control word
type ErrInvalidParams struct {
	What string
}

func (e ErrInvalidParams) Error() string {
	return fmt.Sprintf("Invalid simulation parameters: %s", e.What)
}
