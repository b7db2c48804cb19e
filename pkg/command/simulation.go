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
	"context"

	"github.com/tebeka/atexit"

	"jinr.ru/greenlab/go-bersim/pkg/config"
	"jinr.ru/greenlab/go-bersim/pkg/log"
	"jinr.ru/greenlab/go-bersim/pkg/metrics"
	"jinr.ru/greenlab/go-bersim/pkg/runner"
	"jinr.ru/greenlab/go-bersim/pkg/session"
	"jinr.ru/greenlab/go-bersim/pkg/srv/api"
	"jinr.ru/greenlab/go-bersim/pkg/store"
	"jinr.ru/greenlab/go-bersim/pkg/table"
)

// SessionConfig maps the hardware config onto a session
func SessionConfig(cfg *config.Config, resetOnClose bool) session.Config {
	return session.Config{
		DevMem:       cfg.DevMem,
		ControlBase:  cfg.ControlBase,
		StatsBase:    cfg.StatsBase,
		Size:         cfg.Size,
		Trace:        cfg.Trace,
		ResetOnClose: resetOnClose,
	}
}

// RunnerConfig maps the run config onto the orchestrator config
func RunnerConfig(cfg *config.Config) runner.Config {
	return runner.Config{
		Params:       cfg.RunConfig.Params(),
		Threshold:    cfg.Threshold,
		Trials:       cfg.Trials,
		InitialReset: true,
	}
}

// hardStop returns the handler for the second stop signal. It runs on the
// signal goroutine, so the session is abandoned before the atexit handlers run.
func hardStop(sess *session.Session) func() {
	return func() {
		sess.Abandon()
		log.Error("Exiting without waiting for the current operation")
		atexit.Exit(1)
	}
}

// RunSimulation runs every configured trial on the hardware. A run stopped
// by a signal is not an error.
func RunSimulation(cfg *config.Config, withApi bool) error {
	t, err := table.LoadOrDefault(cfg.Table)
	if err != nil {
		return err
	}
	rcfg := RunnerConfig(cfg)
	if err := rcfg.Validate(t); err != nil {
		return err
	}

	logPath, err := log.AddFile(cfg.LogDir)
	if err != nil {
		return err
	}
	atexit.Register(log.Close)
	defer log.Close()
	log.Info("Writing log to %s", logPath)

	st, err := store.Open(cfg.StoreConfig.Path)
	if err != nil {
		return err
	}
	defer st.Close()
	exporter := metrics.NewExporter()

	sess, err := session.Open(SessionConfig(cfg, true))
	if err != nil {
		return err
	}
	defer sess.Close()

	token := session.NewToken(context.Background(), hardStop(sess))
	stop := token.Watch()
	defer stop()

	if withApi {
		apiCtx, apiCancel := context.WithCancel(context.Background())
		defer apiCancel()
		srv := api.NewApiServer(apiCtx, cfg.ApiConfig, st, exporter.Handler())
		go func() {
			if err := srv.Run(); err != nil {
				log.Error("API server stopped: %s", err)
			}
		}()
	}

	r, err := runner.NewRunner(sess.Sequencer(), sess.Collector(), t, rcfg,
		runner.WithReporter(runner.Reporters{runner.LogReporter{}, st, exporter}))
	if err != nil {
		return err
	}
	sum, err := r.Run(token.Context())
	if err != nil {
		return err
	}
	log.Info("Results of run %s saved to %s", sum.ID, st.Path())
	return nil
}
