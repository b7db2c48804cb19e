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
package command

import (
	"fmt"
	"strings"
)

// ErrResponse returned when the API server answers with anything but 200
type ErrResponse struct {
	Status  string
	Message string
}

func (e ErrResponse) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		return fmt.Sprintf("API request failed: %s", e.Status)
	}
	return fmt.Sprintf("API request failed: %s: %s", e.Status, msg)
}

// ErrFormat returned for an unknown export format
type ErrFormat struct {
	Format string
}

func (e ErrFormat) Error() string {
	return fmt.Sprintf("Unknown format %q. Must be one of: json, yaml", e.Format)
}

// ErrNoSNR returned when a table is generated without target SNRs
type ErrNoSNR struct{}

func (e ErrNoSNR) Error() string {
	return "At least one target SNR is required"
}
