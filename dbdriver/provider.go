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

// Package dbdriver is the boundary between the engine and whatever actually
// holds the schema a query is compiled against: a live database's
// information-schema tables in production, a fixed in-memory catalog in
// tests. It mirrors the way the teacher's driver package isolates the
// analyzer/engine from the concrete database underneath a connection.
package dbdriver

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/Ruminat/Asq-Server/asqerr"
	"github.com/Ruminat/Asq-Server/catalog"
)

// CatalogProvider resolves the catalog.Catalog a query against schema should
// be compiled against. Implementations may reload from a live database on
// every call or serve a cached snapshot — the engine doesn't care which.
type CatalogProvider interface {
	Catalog(ctx context.Context, schema string) (*catalog.Catalog, error)
}

// StaticProvider is a CatalogProvider over a fixed catalog.Catalog, built
// once at startup. It's what cmd/asqserver wires up when run against a
// schema snapshot instead of a live database connection, and what every
// engine/server test uses in place of a real database.
type StaticProvider struct {
	mu  sync.RWMutex
	cat *catalog.Catalog
}

// NewStaticProvider returns a CatalogProvider that always serves cat.
func NewStaticProvider(cat *catalog.Catalog) *StaticProvider {
	return &StaticProvider{cat: cat}
}

// Catalog returns the provider's fixed catalog. schema is accepted (not
// validated) for interface parity with a provider backed by a database that
// actually distinguishes schemas.
func (s *StaticProvider) Catalog(ctx context.Context, schema string) (*catalog.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cat == nil {
		return nil, asqerr.ErrDatabaseFailure.New("no catalog loaded")
	}
	return s.cat, nil
}

// Reload swaps in a freshly-built catalog.Catalog, e.g. after a schema
// migration — the next Catalog call sees it.
func (s *StaticProvider) Reload(cat *catalog.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cat = cat
}

// WrapLoadError wraps a lower-level error (a failed information-schema
// query, a malformed foreign-key row) as an asqerr.ErrDatabaseFailure,
// preserving the original error as its cause.
func WrapLoadError(err error) error {
	if err == nil {
		return nil
	}
	return asqerr.ErrDatabaseFailure.Wrap(err, errors.Cause(err).Error())
}
