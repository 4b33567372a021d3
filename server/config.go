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

// Package server exposes the engine over a single HTTP endpoint: POST
// /asq translates a Russian query string to SQL, GET /healthz reports
// liveness. It replaces the teacher's MySQL wire-protocol listener with a
// plain JSON API, the only transport spec.md actually calls for.
package server

import (
	"time"

	"github.com/Ruminat/Asq-Server/auth"
)

// Config configures a Server. The zero value is valid except for
// ListenAddress, which callers must set.
type Config struct {
	// ListenAddress is the address (host:port) the HTTP server binds to.
	ListenAddress string
	// ReadTimeout bounds how long reading a request may take.
	ReadTimeout time.Duration
	// WriteTimeout bounds how long writing a response may take.
	WriteTimeout time.Duration
	// LogLevel is a logrus level name ("debug", "info", "warn", "error").
	// Empty means "info".
	LogLevel string
	// Auth authenticates the API key sent in the X-API-Key header. A nil
	// Auth accepts every request (auth.None's behavior).
	Auth auth.Authenticator
}

// WithDefaults returns a copy of c with zero-valued fields replaced by
// sensible defaults.
func (c Config) WithDefaults() Config {
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Auth == nil {
		c.Auth = auth.None{}
	}
	return c
}
