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
package session

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"jinr.ru/greenlab/go-bersim/pkg/log"
)

// State of a cancellation token
type State int

const (
	Running State = iota
	// SoftStop: the control loop stops at its next checkpoint after a force reset
	SoftStop
	// HardStop: the process exits right away
	HardStop
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case SoftStop:
		return "soft stop"
	case HardStop:
		return "hard stop"
	}
	return "unknown"
}

// Token is a two stage cancellation token. The first signal cancels its
// context, the second one calls the hard stop handler.
type Token struct {
	ctx    context.Context
	cancel context.CancelFunc
	onHard func()

	mu    sync.Mutex
	state State
}

// NewToken returns a running token. onHard is called once on the second
// signal, usually atexit.Exit.
func NewToken(parent context.Context, onHard func()) *Token {
	ctx, cancel := context.WithCancel(parent)
	return &Token{
		ctx:    ctx,
		cancel: cancel,
		onHard: onHard,
	}
}

func (t *Token) Context() context.Context {
	return t.ctx
}

func (t *Token) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Signal moves the token one stage forward and returns the new state
func (t *Token) Signal() State {
	t.mu.Lock()
	if t.state == HardStop {
		t.mu.Unlock()
		return HardStop
	}
	t.state++
	state := t.state
	t.mu.Unlock()

	switch state {
	case SoftStop:
		log.Warning("Stop requested, finishing at the next checkpoint. Repeat to exit immediately")
		t.cancel()
	case HardStop:
		log.Warning("Second stop request, exiting")
		if t.onHard != nil {
			t.onHard()
		}
	}
	return state
}

// Release cancels the context without changing the state
func (t *Token) Release() {
	t.cancel()
}

// Watch feeds OS signals into the token until the returned function is
// called. SIGINT and SIGTERM are watched if no signals are given.
func (t *Token) Watch(signals ...os.Signal) func() {
	if len(signals) == 0 {
		signals = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	ch := make(chan os.Signal, 2)
	done := make(chan struct{})
	signal.Notify(ch, signals...)

	go func() {
		for {
			select {
			case sig := <-ch:
				log.Info("Received signal: %s", sig)
				if t.Signal() == HardStop {
					return
				}
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
		})
	}
}
