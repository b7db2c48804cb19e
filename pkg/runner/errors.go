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
package runner

import (
	"fmt"
)

// ErrTrials returned when more trials are requested than the table has blocks
type ErrTrials struct {
	Trials int
	Blocks int
}

func (e ErrTrials) Error() string {
	return fmt.Sprintf("Can not run %d trials, table has %d blocks", e.Trials, e.Blocks)
}

// ErrThreshold returned for a zero frame error threshold
type ErrThreshold struct{}

func (e ErrThreshold) Error() string {
	return "Frame error threshold must be positive"
}
