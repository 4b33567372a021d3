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
	"encoding/json"
	"net/http"
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/Ruminat/Asq-Server/asqerr"
)

// queryAuditor is implemented by an auth.Audit; handleAsq reports the
// outcome of every translation through it when the configured Authenticator
// supports it.
type queryAuditor interface {
	Query(apiKey, query string, d time.Duration, err error)
}

// asqRequest is the POST /asq request body: a Russian query string against
// a named schema.
type asqRequest struct {
	Schema string `json:"schema"`
	Query  string `json:"query"`
}

// asqResponse is the POST /asq response body. SQL is set only when Status
// is "ok"; Message is set only when Status is "error".
type asqResponse struct {
	Status  string `json:"status"`
	SQL     string `json:"sql,omitempty"`
	Message string `json:"message,omitempty"`
}

func (s *Server) handleAsq(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewV4().String()
	log := s.logger.WithField("request_id", requestID)

	var req asqRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.WithError(err).Warn("malformed request body")
		writeJSON(w, http.StatusBadRequest, asqResponse{Status: "error", Message: "malformed request body"})
		return
	}

	started := time.Now()
	result, err := s.engine.Translate(r.Context(), req.Schema, req.Query, s.analyzer)
	if auditor, ok := s.cfg.Auth.(queryAuditor); ok {
		auditor.Query(r.Header.Get("X-API-Key"), req.Query, time.Since(started), err)
	}
	if err != nil {
		status, resp := errorResponse(err)
		log.WithError(err).WithField("status", status).Warn("translation failed")
		writeJSON(w, status, resp)
		return
	}

	log.WithField("sql", result.SQL).Info("translated query")
	writeJSON(w, http.StatusOK, asqResponse{Status: "ok", SQL: result.SQL})
}

// errorResponse maps a translation error to an HTTP status and body: the
// four user-input Kinds (empty query, ambiguous/missing column, unjoinable
// tables) are client errors, a database failure is a server error, and
// anything else (morphological analyzer failure) is a generic server error
// logged but not attributed to a Kind.
func errorResponse(err error) (int, asqResponse) {
	switch {
	case asqerr.ErrEmptyQuery.Is(err), asqerr.ErrAmbiguousColumn.Is(err),
		asqerr.ErrColumnNotInTable.Is(err), asqerr.ErrUnjoinable.Is(err):
		return http.StatusBadRequest, asqResponse{Status: "error", Message: err.Error()}
	case asqerr.ErrDatabaseFailure.Is(err):
		return http.StatusBadGateway, asqResponse{Status: "error", Message: err.Error()}
	default:
		return http.StatusInternalServerError, asqResponse{Status: "error", Message: err.Error()}
	}
}

func writeJSON(w http.ResponseWriter, status int, body asqResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
