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

// Package catalog describes the database a query is compiled against:
// tables and columns with their Russian-language lemma synonyms, the
// foreign-key graph between tables, and a precomputed shortest-join-path
// table the planner package consumes directly.
package catalog

import "sort"

// ObjectKind tags whether a catalog Object is a Table or a Column.
type ObjectKind int

const (
	KindTable ObjectKind = iota
	KindColumn
)

// Object is anything a Russian lemma can resolve to: a Table or a Column.
type Object interface {
	Kind() ObjectKind
	ObjectName() string
	ObjectLemmas() []string
}

// Table is one table in the catalog.
type Table struct {
	Schema string   `json:"schema"`
	Name   string   `json:"name"`
	Lemmas []string `json:"lemmas"`
}

func (t *Table) Kind() ObjectKind     { return KindTable }
func (t *Table) ObjectName() string   { return t.Name }
func (t *Table) ObjectLemmas() []string { return t.Lemmas }

// Column is one column of one table in the catalog.
type Column struct {
	Schema string   `json:"schema"`
	Table  string   `json:"table"`
	Name   string   `json:"name"`
	Lemmas []string `json:"lemmas"`
}

func (c *Column) Kind() ObjectKind     { return KindColumn }
func (c *Column) ObjectName() string   { return c.Name }
func (c *Column) ObjectLemmas() []string { return c.Lemmas }

// ColumnPair is one (local column, referenced column) pair of a foreign key.
// A composite FK has more than one pair.
type ColumnPair struct {
	Local      string `json:"local"`
	Referenced string `json:"referenced"`
}

// ForeignKey is one named constraint from FromTable to ToTable.
type ForeignKey struct {
	Name      string       `json:"name"`
	FromTable string       `json:"from_table"`
	ToTable   string       `json:"to_table"`
	Columns   []ColumnPair `json:"columns"`
}

// Index maps a Russian lemma to every Object it names. Most lemmas name
// exactly one Object, but nothing stops a schema from reusing a word (both
// employees.employee_id and departments.department_id answer to
// "номер") — callers that need a single answer must disambiguate, the
// index itself never silently picks one.
type Index map[string][]Object

// Graph is the directed foreign-key multigraph: Graph[from][to] lists every
// constraint from table "from" to table "to", ordered by constraint name
// for determinism (the original relied on dict iteration order, which in
// Go has none).
type Graph map[string]map[string][]*ForeignKey

// Catalog is the full, immutable description of one schema.
type Catalog struct {
	Tables  map[string]*Table
	Columns map[string]*Column // keyed by "table.column"
	Index   Index
	Graph   Graph
	Paths   Paths
}

// New builds a Catalog from its tables, columns and foreign keys, computing
// the lemma index and shortest-path table eagerly — catalogs are small and
// built once per server lifetime, not once per query.
func New(tables []*Table, columns []*Column, fks []*ForeignKey) *Catalog {
	c := &Catalog{
		Tables:  make(map[string]*Table, len(tables)),
		Columns: make(map[string]*Column, len(columns)),
		Index:   make(Index),
		Graph:   make(Graph),
	}
	for _, t := range tables {
		c.Tables[t.Name] = t
		c.addToIndex(t)
	}
	for _, col := range columns {
		c.Columns[col.Table+"."+col.Name] = col
		c.addToIndex(col)
	}
	for _, fk := range fks {
		if c.Graph[fk.FromTable] == nil {
			c.Graph[fk.FromTable] = make(map[string][]*ForeignKey)
		}
		c.Graph[fk.FromTable][fk.ToTable] = append(c.Graph[fk.FromTable][fk.ToTable], fk)
	}
	for _, byTo := range c.Graph {
		for to := range byTo {
			sort.Slice(byTo[to], func(i, j int) bool { return byTo[to][i].Name < byTo[to][j].Name })
		}
	}
	c.Paths = computePaths(c.Graph, tableNames(tables))
	return c
}

func (c *Catalog) addToIndex(o Object) {
	for _, lemma := range o.ObjectLemmas() {
		c.Index[lemma] = append(c.Index[lemma], o)
	}
}

// Resolve returns every Object a lemma names, or nil if none.
func (c *Catalog) Resolve(lemma string) []Object {
	return c.Index[lemma]
}

// ColumnsOf returns every Column belonging to table, sorted by name.
func (c *Catalog) ColumnsOf(table string) []*Column {
	var cols []*Column
	for _, col := range c.Columns {
		if col.Table == table {
			cols = append(cols, col)
		}
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].Name < cols[j].Name })
	return cols
}

// HasColumn reports whether table has a column named name.
func (c *Catalog) HasColumn(table, name string) bool {
	_, ok := c.Columns[table+"."+name]
	return ok
}

func tableNames(tables []*Table) []string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	sort.Strings(names)
	return names
}
