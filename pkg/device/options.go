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
	"time"
)

const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultStopAttempts = 3
)

type options struct {
	pause        func(time.Duration)
	pollInterval time.Duration
	stopAttempts int
}

func defaultOptions() *options {
	return &options{
		pause:        time.Sleep,
		pollInterval: DefaultPollInterval,
		stopAttempts: DefaultStopAttempts,
	}
}

// Option tunes a Sequencer or a Collector
type Option func(*options)

// WithPause replaces time.Sleep for the fixed protocol delays
func WithPause(pause func(time.Duration)) Option {
	return func(o *options) {
		o.pause = pause
	}
}

// WithPollInterval sets how often PollUntilDone reads the counters
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		o.pollInterval = d
	}
}

// WithStopAttempts sets how many times GracefulStop clears START before
// escalating to ForcedStop
func WithStopAttempts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.stopAttempts = n
		}
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}
