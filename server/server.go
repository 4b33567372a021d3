// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Ruminat/Asq-Server/auth"
	"github.com/Ruminat/Asq-Server/engine"
	"github.com/Ruminat/Asq-Server/morph"
)

// Server serves the /asq translation endpoint over HTTP.
type Server struct {
	cfg      Config
	engine   *engine.Engine
	analyzer morph.Analyzer
	logger   *logrus.Logger
	http     *http.Server
}

// New returns a Server that translates requests through eng, tokenizing
// query text with analyzer.
func New(cfg Config, eng *engine.Engine, analyzer morph.Analyzer, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	cfg = cfg.WithDefaults()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	s := &Server{cfg: cfg, engine: eng, analyzer: analyzer, logger: logger}
	s.http = &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      s.router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/asq", s.requireAuth(s.handleAsq)).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	return handlers.CombinedLoggingHandler(s.logger.Writer(), r)
}

// requireAuth checks the X-API-Key header against s.cfg.Auth before
// delegating to next, the same Allowed(permission) gate the teacher applies
// per connection applied here per request.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get("X-API-Key")
		if err := s.cfg.Auth.Allowed(apiKey, auth.ReadPerm); err != nil {
			writeJSON(w, http.StatusUnauthorized, asqResponse{Status: "error", Message: "not authorized"})
			return
		}
		next(w, r)
	}
}

// ListenAndServe starts the HTTP server, blocking until it stops.
func (s *Server) ListenAndServe() error {
	s.logger.WithField("address", s.cfg.ListenAddress).Info("asq server listening")
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
