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

// Package asqerr defines the typed error Kinds the structparser, planner and
// dbdriver packages raise,
// so callers (the HTTP server, tests) can distinguish failure categories
// with errors.Is/errors.As-style Kind.Is checks instead of string matching.
package asqerr

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrEmptyQuery is raised when a query resolves to no tables and no
	// columns at all — nothing for the planner to build SQL from.
	ErrEmptyQuery = errors.NewKind("Запрос не содержит ни столбцов, ни таблиц!")

	// ErrAmbiguousColumn is raised when a column lemma resolves to more
	// than one catalog column and the query doesn't qualify it with a
	// table name.
	ErrAmbiguousColumn = errors.NewKind("column «%s» is ambiguous, qualify it with a table name")

	// ErrColumnNotInTable is raised when a query qualifies a column with a
	// table that doesn't have it.
	ErrColumnNotInTable = errors.NewKind("table «%s» has no column «%s»")

	// ErrUnjoinable is raised when the planner can't find a foreign-key
	// path connecting every table a query touches.
	ErrUnjoinable = errors.NewKind("Невозможно соединить таблицы из запроса!")

	// ErrDatabaseFailure wraps an error from the catalog/database
	// collaborator (connection failure, catalog reload failure, ...).
	ErrDatabaseFailure = errors.NewKind("database failure: %s")
)
