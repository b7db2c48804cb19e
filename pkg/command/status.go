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
	"jinr.ru/greenlab/go-bersim/pkg/config"
	"jinr.ru/greenlab/go-bersim/pkg/device"
	"jinr.ru/greenlab/go-bersim/pkg/log"
	"jinr.ru/greenlab/go-bersim/pkg/session"
	"jinr.ru/greenlab/go-bersim/pkg/stats"
)

func logStatus(sess *session.Session) {
	st := sess.Sequencer().Status()
	log.Info("Control: %s", st.Control)
	log.Info("Index:   0x%08X", st.Index)
	log.Info("Running: %t", st.Running())
}

func logCounters(col *device.Collector) {
	report := stats.Evaluate(col.Read(), nil)
	for _, line := range report.Lines() {
		log.Info("   %s", line)
	}
	for _, w := range report.Warnings {
		log.Warning("   %s", w)
	}
}

// ShowStatus prints registers, counters and metrics without changing
// anything on the simulator
func ShowStatus(cfg *config.Config) error {
	sess, err := session.Open(SessionConfig(cfg, false))
	if err != nil {
		return err
	}
	defer sess.Close()
	showStatus(sess)
	return nil
}

func showStatus(sess *session.Session) {
	log.Info("Simulator status:")
	logStatus(sess)
	log.Info("Statistics:")
	logCounters(sess.Collector())
}

// ForceReset prints the status, resets the controller and prints the
// status again. An incomplete reset is returned.
func ForceReset(cfg *config.Config) error {
	sess, err := session.Open(SessionConfig(cfg, false))
	if err != nil {
		return err
	}
	defer sess.Close()
	return forceReset(sess)
}

func forceReset(sess *session.Session) error {
	log.Info("Status before reset:")
	logStatus(sess)
	err := sess.Sequencer().ForceReset()
	log.Info("Status after reset:")
	logStatus(sess)
	return err
}
