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
// Package api serves stored run results and live metrics over HTTP.
// It never touches the simulator registers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"jinr.ru/greenlab/go-bersim/pkg/config"
	"jinr.ru/greenlab/go-bersim/pkg/log"
	"jinr.ru/greenlab/go-bersim/pkg/runner"
	"jinr.ru/greenlab/go-bersim/pkg/srv/ifc"
	"jinr.ru/greenlab/go-bersim/pkg/store"
)

const (
	ApiPrefix       = "/api"
	MetricsPath     = "/metrics"
	ShutdownTimeout = 5 * time.Second
)

type ApiServer struct {
	context.Context
	*config.ApiConfig
	*mux.Router
	results ifc.Results
	metrics http.Handler
}

var _ ifc.ApiServer = &ApiServer{}

// NewApiServer creates a server over results. metrics may be nil, then
// /metrics is not served.
func NewApiServer(ctx context.Context, cfg *config.ApiConfig, results ifc.Results, metrics http.Handler) *ApiServer {
	log.Info("Initializing API server with address: %s port: %d", cfg.Address, cfg.Port)
	s := &ApiServer{
		Context:   ctx,
		ApiConfig: cfg,
		results:   results,
		metrics:   metrics,
	}
	s.configureRouter()
	return s
}

func (s *ApiServer) Addr() string {
	return fmt.Sprintf("%s:%d", s.Address, s.Port)
}

// Handler is the router wrapped with access logging and panic recovery
func (s *ApiServer) Handler() http.Handler {
	return handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{}))(
		handlers.LoggingHandler(log.Writer(), s.Router))
}

// Run serves until the context is done
func (s *ApiServer) Run() error {
	log.Info("Starting API server: %s", s.Addr())
	httpServer := &http.Server{
		Handler: s.Handler(),
		Addr:    s.Addr(),
	}
	go func() {
		<-s.Context.Done()
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			log.Error("Error while shutting down API server: %s", err)
		}
	}()
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *ApiServer) configureRouter() {
	s.Router = mux.NewRouter()
	subRouter := s.Router.PathPrefix(ApiPrefix).Subrouter()
	subRouter.HandleFunc("/runs", s.handleListRuns()).Methods("GET")
	// must be registered before /runs/{run}
	subRouter.HandleFunc("/runs/latest", s.handleLatest()).Methods("GET")
	subRouter.HandleFunc("/runs/{run}", s.handleGetRun()).Methods("GET")
	subRouter.HandleFunc("/runs/{run}/trials/{trial:[0-9]+}", s.handleGetTrial()).Methods("GET")
	if s.metrics != nil {
		s.Router.Handle(MetricsPath, s.metrics).Methods("GET")
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Error while encoding response: %s", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var (
		runErr   store.ErrRunNotFound
		trialErr store.ErrTrialNotFound
		busyErr  store.ErrBusy
	)
	switch {
	case errors.As(err, &runErr), errors.As(err, &trialErr):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &busyErr):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *ApiServer) handleListRuns() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling list runs request")
		runs, err := s.results.ListRuns()
		if err != nil {
			writeError(w, err)
			return
		}
		if runs == nil {
			runs = []*runner.Summary{}
		}
		writeJSON(w, runs)
	}
}

func (s *ApiServer) handleLatest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Handling latest run request")
		run, err := s.results.Latest()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, run)
	}
}

func (s *ApiServer) handleGetRun() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling get run request: run: %s", vars["run"])
		run, err := s.results.GetRun(vars["run"])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, run)
	}
}

func (s *ApiServer) handleGetTrial() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		log.Debug("Handling get trial request: run: %s trial: %s", vars["run"], vars["trial"])
		trial, err := strconv.Atoi(vars["trial"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		res, err := s.results.GetTrial(vars["run"], trial)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, res)
	}
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	log.Error("API handler panic: %s", fmt.Sprint(v...))
}
