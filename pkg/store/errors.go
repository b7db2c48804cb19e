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
package store

import (
	"fmt"
)

// ErrRunNotFound returned when there is no run with the given id
type ErrRunNotFound struct {
	ID string
}

func (e ErrRunNotFound) Error() string {
	return fmt.Sprintf("Run not found: %s", e.ID)
}

// ErrTrialNotFound returned when a run has no trial with the given number
type ErrTrialNotFound struct {
	RunID string
	Trial int
}

func (e ErrTrialNotFound) Error() string {
	return fmt.Sprintf("Trial %d not found in run %s", e.Trial, e.RunID)
}

// ErrBusy returned when another process keeps the database open
type ErrBusy struct {
	Path string
	Err  error
}

func (e ErrBusy) Error() string {
	return fmt.Sprintf("Result store %s is busy, is a run in progress? (%s)", e.Path, e.Err)
}

func (e ErrBusy) Unwrap() error {
	return e.Err
}
