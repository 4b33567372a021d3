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

// Package structparser lifts the automata.Capture values a query matched
// into a typed intent.Tree, resolving every column and table mention
// against a catalog.Catalog along the way.
package structparser

import (
	"reflect"

	"github.com/Ruminat/Asq-Server/asqerr"
	"github.com/Ruminat/Asq-Server/automata"
	"github.com/Ruminat/Asq-Server/catalog"
	"github.com/Ruminat/Asq-Server/grammar"
	"github.com/Ruminat/Asq-Server/intent"
)

type parser struct {
	cat        *catalog.Catalog
	tree       *intent.Tree
	whereTail  *intent.Condition
	havingTail *intent.Condition
}

// Parse walks every surviving Capture (already disjoint — see
// automata.Resolve) and builds the query's intent.Tree against cat.
func Parse(captures []automata.Capture, cat *catalog.Catalog) (*intent.Tree, error) {
	p := &parser{cat: cat, tree: &intent.Tree{}}
	for _, c := range captures {
		if err := p.parseTopLevel(c); err != nil {
			return nil, err
		}
	}
	if len(p.tree.TablesUsed) == 0 && len(p.tree.Select) == 0 {
		return nil, asqerr.ErrEmptyQuery.New()
	}
	return p.tree, nil
}

func (p *parser) parseTopLevel(c automata.Capture) error {
	switch c.Pattern {
	case grammar.SelectExpr:
		return p.parseSelect(c.Structure.Elements)
	case grammar.WhereExpr:
		return p.parseWhere(c.Structure.Elements)
	case grammar.GroupByExpr:
		return p.parseGroupBy(c.Structure.Elements)
	case grammar.OrderByExpr:
		return p.parseOrderBy(c.Structure.Elements)
	}
	return nil
}

func (p *parser) parseSelect(elements []automata.Element) error {
	for _, el := range elements {
		s, ok := el.(*automata.Structure)
		if !ok {
			continue
		}
		switch s.Name {
		case grammar.ListOfTables:
			for _, maybeTable := range s.Elements {
				if err := p.tryAddTable(maybeTable); err != nil {
					return err
				}
			}
		case grammar.ListOfColumns:
			if err := p.parseColumns(s.Elements); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *parser) parseColumns(elements []automata.Element) error {
	table, err := p.tryToGetTable(elements[len(elements)-1])
	if err != nil {
		return err
	}
	for _, el := range elements {
		if !automata.IsStructure(el, grammar.ColumnExpr) {
			continue
		}
		expr, err := p.parseColumnExpr(el.(*automata.Structure).Elements, table)
		if err != nil {
			return err
		}
		p.tree.Select = appendUniqueExpr(p.tree.Select, expr)
	}
	return nil
}

func (p *parser) tryAddTable(el automata.Element) error {
	pt, ok := el.(*automata.PatternToken)
	if !ok || pt.Prim != grammar.Table {
		return nil
	}
	table, err := p.lookupTable(pt.Token.LemmaOrText())
	if err != nil {
		return err
	}
	p.tree.UseTable(table.Name)
	p.tree.Select = appendUniqueExpr(p.tree.Select, &intent.ColumnExpr{Kind: intent.ExprTableStar, Table: table.Name})
	return nil
}

// tryToGetTable returns the Table a trailing "(table)?" grammar element
// names, or nil (not an error) if that element isn't a table token at all
// — the optional quantifier means it's frequently absent.
func (p *parser) tryToGetTable(el automata.Element) (*catalog.Table, error) {
	pt, ok := el.(*automata.PatternToken)
	if !ok || pt.Prim != grammar.Table {
		return nil, nil
	}
	return p.lookupTable(pt.Token.LemmaOrText())
}

// lookupTable resolves a table lemma against the catalog. The grammar only
// ever matches a token against the table Primitive after the catalog has
// already classified it as a table lemma, so a miss here means the catalog
// changed out from under an in-flight parse — an internal-consistency
// failure, not a user-facing one.
func (p *parser) lookupTable(lemma string) (*catalog.Table, error) {
	for _, obj := range p.cat.Resolve(lemma) {
		if t, ok := obj.(*catalog.Table); ok {
			return t, nil
		}
	}
	return nil, asqerr.ErrDatabaseFailure.New("table lemma «" + lemma + "» no longer resolves against the catalog")
}

func (p *parser) parseGroupBy(elements []automata.Element) error {
	table, err := p.tryToGetTable(elements[len(elements)-1])
	if err != nil {
		return err
	}
	for _, el := range elements {
		if !automata.IsStructure(el, grammar.ColumnExpr) {
			continue
		}
		expr, err := p.parseColumnExpr(el.(*automata.Structure).Elements, table)
		if err != nil {
			return err
		}
		p.tree.GroupBy = appendUniqueExpr(p.tree.GroupBy, expr)
	}
	return nil
}

func (p *parser) parseOrderBy(elements []automata.Element) error {
	for _, el := range elements {
		if automata.IsStructure(el, grammar.SortColumn) {
			if err := p.parseSortColumn(el.(*automata.Structure).Elements); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *parser) parseSortColumn(sortColumn []automata.Element) error {
	isDesc := len(sortColumn) > 0 && automata.IsStructure(sortColumn[len(sortColumn)-1], grammar.Desc)
	for _, el := range sortColumn {
		if !automata.IsStructure(el, grammar.ColumnExpr) {
			continue
		}
		expr, err := p.parseColumnExpr(el.(*automata.Structure).Elements, nil)
		if err != nil {
			return err
		}
		oc := &intent.OrderColumn{Expr: expr, Desc: isDesc}
		p.tree.OrderBy = appendUniqueOrder(p.tree.OrderBy, oc)
	}
	return nil
}

func appendUniqueExpr(list []*intent.ColumnExpr, expr *intent.ColumnExpr) []*intent.ColumnExpr {
	for _, existing := range list {
		if reflect.DeepEqual(existing, expr) {
			return list
		}
	}
	return append(list, expr)
}

func appendUniqueOrder(list []*intent.OrderColumn, oc *intent.OrderColumn) []*intent.OrderColumn {
	for _, existing := range list {
		if reflect.DeepEqual(existing, oc) {
			return list
		}
	}
	return append(list, oc)
}
