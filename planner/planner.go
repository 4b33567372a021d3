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

// Package planner turns a resolved intent.Tree into canonical Oracle SQL: it
// joins every table the tree touches along the shortest foreign-key path the
// catalog knows, assigns each table a "t-N" prefix once more than one table
// is involved, and renders the SELECT/FROM/WHERE/GROUP BY/HAVING/ORDER BY
// clauses from the tree's column expressions and condition chains.
package planner

import (
	"strings"

	"github.com/Ruminat/Asq-Server/asqerr"
	"github.com/Ruminat/Asq-Server/catalog"
	"github.com/Ruminat/Asq-Server/intent"
)

// Planner builds SQL against one fixed catalog.
type Planner struct {
	cat *catalog.Catalog
}

// New returns a Planner that plans queries against cat.
func New(cat *catalog.Catalog) *Planner {
	return &Planner{cat: cat}
}

// builder holds the per-query state a Plan call accumulates: which prefix
// (`"t-1".`, `"t-2".`, ...) each table has been assigned, and the rendered
// clause lines.
type builder struct {
	cat      *catalog.Catalog
	prefixes map[string]string
	counter  int
	from     []string
}

// Plan renders tree as a single canonical Oracle SQL statement.
func (p *Planner) Plan(tree *intent.Tree) (string, error) {
	if len(tree.TablesUsed) == 0 {
		return "", asqerr.ErrEmptyQuery.New()
	}

	b := &builder{cat: p.cat, prefixes: make(map[string]string)}
	if len(tree.TablesUsed) == 1 {
		table := tree.TablesUsed[0]
		b.from = append(b.from, table)
		b.prefixes[table] = ""
	} else if err := b.connectTables(tree.TablesUsed); err != nil {
		return "", err
	}

	selectLines := make([]string, 0, len(tree.Select))
	for _, expr := range tree.Select {
		line, err := renderExpr(expr, b.prefixes)
		if err != nil {
			return "", err
		}
		selectLines = append(selectLines, line)
	}

	whereLines, err := renderConditionChain(tree.Where, b.prefixes)
	if err != nil {
		return "", err
	}
	groupByLines := make([]string, 0, len(tree.GroupBy))
	for _, expr := range tree.GroupBy {
		line, err := renderExpr(expr, b.prefixes)
		if err != nil {
			return "", err
		}
		groupByLines = append(groupByLines, line)
	}
	havingLines, err := renderConditionChain(tree.Having, b.prefixes)
	if err != nil {
		return "", err
	}
	orderByLines := make([]string, 0, len(tree.OrderBy))
	for _, oc := range tree.OrderBy {
		line, err := renderExpr(oc.Expr, b.prefixes)
		if err != nil {
			return "", err
		}
		if oc.Desc {
			line += " DESC"
		}
		orderByLines = append(orderByLines, line)
	}

	return stringify(selectLines, b.from, whereLines, groupByLines, havingLines, orderByLines), nil
}

func stringify(selectLines, fromLines, whereLines, groupByLines, havingLines, orderByLines []string) string {
	query := []string{"SELECT " + strings.Join(selectLines, ", ")}
	query = append(query, "FROM "+strings.Join(fromLines, "\n  "))
	if len(whereLines) > 0 {
		query = append(query, "WHERE "+strings.Join(whereLines, "\n  "))
	}
	if len(groupByLines) > 0 {
		query = append(query, "GROUP BY "+strings.Join(groupByLines, ", "))
	}
	if len(havingLines) > 0 {
		query = append(query, "HAVING "+strings.Join(havingLines, "\n  "))
	}
	if len(orderByLines) > 0 {
		query = append(query, "ORDER BY "+strings.Join(orderByLines, ", "))
	}
	return strings.Join(query, "\n")
}
