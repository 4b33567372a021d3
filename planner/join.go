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

package planner

import (
	"fmt"
	"strings"

	"github.com/Ruminat/Asq-Server/asqerr"
	"github.com/Ruminat/Asq-Server/catalog"
)

// connectTables joins every table in tables, picking the shortest
// foreign-key path between the first table and whichever of the rest is
// closest to it, then folding in the remaining tables one shortest hop at a
// time until every table has a prefix.
func (b *builder) connectTables(tables []string) error {
	anchor := tables[0]
	rest := tables[1:]

	if target, ok := nearestReachable(b.cat, anchor, rest, true); ok {
		if err := b.createConnection(anchor, target); err != nil {
			return err
		}
	} else if target, ok := nearestReachable(b.cat, anchor, rest, false); ok {
		if err := b.createConnection(target, anchor); err != nil {
			return err
		}
	} else {
		return asqerr.ErrUnjoinable.New()
	}
	return b.connectRemaining(tables)
}

// nearestReachable returns whichever of candidates has the shortest known
// path to/from anchor (forward: anchor -> candidate; otherwise candidate ->
// anchor), and whether any candidate is reachable at all.
func nearestReachable(cat *catalog.Catalog, anchor string, candidates []string, forward bool) (string, bool) {
	best := ""
	bestLen := -1
	for _, c := range candidates {
		key := catalog.PathKey{From: anchor, To: c}
		if !forward {
			key = catalog.PathKey{From: c, To: anchor}
		}
		path, ok := cat.Paths[key]
		if !ok {
			continue
		}
		if bestLen == -1 || len(path) < bestLen {
			best, bestLen = c, len(path)
		}
	}
	return best, bestLen != -1
}

// connectRemaining folds in tables that aren't connected yet, one shortest
// hop at a time, until every table in tables has been given a prefix.
func (b *builder) connectRemaining(tables []string) error {
	for {
		var added, left []string
		for _, t := range tables {
			if _, ok := b.prefixes[t]; ok {
				added = append(added, t)
			} else {
				left = append(left, t)
			}
		}
		if len(left) == 0 {
			return nil
		}

		mainTable, refTable, ok := nearestConnection(b.cat, added, left, true)
		if !ok {
			mainTable, refTable, ok = nearestConnection(b.cat, added, left, false)
		}
		if !ok {
			return asqerr.ErrUnjoinable.New()
		}
		if err := b.createConnection(mainTable, refTable); err != nil {
			return err
		}
	}
}

func nearestConnection(cat *catalog.Catalog, added, left []string, forward bool) (string, string, bool) {
	bestMain, bestRef := "", ""
	bestLen := -1
	for _, t1 := range added {
		for _, t2 := range left {
			key := catalog.PathKey{From: t1, To: t2}
			if !forward {
				key = catalog.PathKey{From: t2, To: t1}
			}
			path, ok := cat.Paths[key]
			if !ok {
				continue
			}
			if bestLen == -1 || len(path) < bestLen {
				if forward {
					bestMain, bestRef = t1, t2
				} else {
					bestMain, bestRef = t2, t1
				}
				bestLen = len(path)
			}
		}
	}
	return bestMain, bestRef, bestLen != -1
}

// createConnection walks the shortest path from tableA to tableB, adding a
// JOIN for every table along it that doesn't have a prefix yet.
func (b *builder) createConnection(tableA, tableB string) error {
	if b.counter == 0 {
		b.addTable(tableA)
	}
	path, ok := b.cat.Paths[catalog.PathKey{From: tableA, To: tableB}]
	if !ok {
		return asqerr.ErrUnjoinable.New()
	}
	mainTable := tableA
	for _, table := range path {
		if _, exists := b.prefixes[table]; !exists {
			if err := b.addJoin(mainTable, table); err != nil {
				return err
			}
		}
		mainTable = table
	}
	return nil
}

func (b *builder) addJoin(mainTable, refTable string) error {
	b.addPrefix(refTable)
	fks := b.cat.Graph[mainTable][refTable]
	if len(fks) == 0 {
		return asqerr.ErrUnjoinable.New()
	}
	fk := fks[0]

	onClause := make([]string, 0, len(fk.Columns))
	for _, pair := range fk.Columns {
		onClause = append(onClause, fmt.Sprintf("%s%s = %s%s",
			b.prefixes[mainTable], pair.Local, b.prefixes[refTable], pair.Referenced))
	}
	synonym := strings.TrimSuffix(b.prefixes[refTable], ".")
	b.from = append(b.from, fmt.Sprintf("JOIN %s %s ON %s", refTable, synonym, strings.Join(onClause, " AND ")))
	return nil
}

func (b *builder) addTable(table string) {
	b.addPrefix(table)
	synonym := strings.TrimSuffix(b.prefixes[table], ".")
	b.from = append(b.from, fmt.Sprintf("%s %s", table, synonym))
}

func (b *builder) addPrefix(table string) string {
	if p, ok := b.prefixes[table]; ok {
		return p
	}
	b.counter++
	prefix := fmt.Sprintf("\"t-%d\".", b.counter)
	b.prefixes[table] = prefix
	return prefix
}
