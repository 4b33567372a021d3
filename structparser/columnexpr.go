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

package structparser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Ruminat/Asq-Server/asqerr"
	"github.com/Ruminat/Asq-Server/automata"
	"github.com/Ruminat/Asq-Server/catalog"
	"github.com/Ruminat/Asq-Server/grammar"
	"github.com/Ruminat/Asq-Server/intent"
)

// parseColumnExpr builds the ColumnExpr a columnExpr/columnLiteralExpr
// Structure's Elements describe: zero or more leading "operator" Structures
// wrapping a trailing column token or literal. table, when non-nil, is the
// table a query named explicitly for this clause (e.g. "SELECT ... FROM
// employees") and disambiguates a polysemous column lemma.
func (p *parser) parseColumnExpr(elements []automata.Element, table *catalog.Table) (*intent.ColumnExpr, error) {
	if len(elements) == 0 {
		return nil, fmt.Errorf("structparser: empty column expression")
	}
	target, err := p.parseColumnOrLiteral(elements[len(elements)-1], table)
	if err != nil {
		return nil, err
	}
	for i := len(elements) - 2; i >= 0; i-- {
		opStruct, ok := elements[i].(*automata.Structure)
		if !ok || opStruct.Name != grammar.Operator {
			continue
		}
		name, err := operatorName(opStruct)
		if err != nil {
			return nil, err
		}
		target = &intent.ColumnExpr{Kind: intent.ExprOperator, Operator: name, Operand: target}
	}
	return target, nil
}

// operatorName extracts the uppercased primitive name an "operator"
// Structure wraps — ROUND, AVG, MAX, MIN, COUNT or SUM — reaching two levels
// deep: operator -> function|aggregateFunction -> the matched primitive.
func operatorName(opStruct *automata.Structure) (string, error) {
	if len(opStruct.Elements) != 1 {
		return "", fmt.Errorf("structparser: malformed operator structure")
	}
	inner, ok := opStruct.Elements[0].(*automata.Structure)
	if !ok || len(inner.Elements) != 1 {
		return "", fmt.Errorf("structparser: malformed operator structure")
	}
	pt, ok := inner.Elements[0].(*automata.PatternToken)
	if !ok {
		return "", fmt.Errorf("structparser: malformed operator structure")
	}
	return strings.ToUpper(pt.Prim.Name), nil
}

func (p *parser) parseColumnOrLiteral(el automata.Element, table *catalog.Table) (*intent.ColumnExpr, error) {
	switch v := el.(type) {
	case *automata.PatternToken:
		if v.Prim != grammar.Column {
			return nil, fmt.Errorf("structparser: expected a column token")
		}
		return p.resolveColumn(v.Token.LemmaOrText(), table)
	case *automata.Structure:
		if v.Name == grammar.Literal {
			return p.parseLiteral(v)
		}
	}
	return nil, fmt.Errorf("structparser: unrecognized column expression tail")
}

// resolveColumn disambiguates a column lemma against the catalog. A lemma
// naming exactly one column needs no help. One naming several is resolved
// against the explicit table when the grammar matched one for this clause
// (and fails if that table has none of them); only when there is no
// explicit table is it resolved against the tables the query has already
// touched elsewhere. Failures are reported through asqerr's typed Kinds
// instead of a raw error message.
func (p *parser) resolveColumn(lemma string, table *catalog.Table) (*intent.ColumnExpr, error) {
	var candidates []*catalog.Column
	for _, obj := range p.cat.Resolve(lemma) {
		if c, ok := obj.(*catalog.Column); ok {
			candidates = append(candidates, c)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Table != candidates[j].Table {
			return candidates[i].Table < candidates[j].Table
		}
		return candidates[i].Name < candidates[j].Name
	})

	var chosen *catalog.Column
	switch {
	case len(candidates) == 0:
		return nil, asqerr.ErrDatabaseFailure.New("column lemma «" + lemma + "» no longer resolves against the catalog")
	case len(candidates) == 1:
		chosen = candidates[0]
	case table != nil:
		for _, c := range candidates {
			if c.Table == table.Name {
				chosen = c
				break
			}
		}
		if chosen == nil {
			return nil, asqerr.ErrColumnNotInTable.New(table.Name, lemma)
		}
	default:
		for _, c := range candidates {
			if p.tree.HasTable(c.Table) {
				chosen = c
				break
			}
		}
		if chosen == nil {
			return nil, asqerr.ErrAmbiguousColumn.New(lemma)
		}
	}

	p.tree.UseTable(chosen.Table)
	return &intent.ColumnExpr{Kind: intent.ExprColumn, Table: chosen.Table, Column: chosen.Name}, nil
}

func (p *parser) parseLiteral(lit *automata.Structure) (*intent.ColumnExpr, error) {
	if len(lit.Elements) != 1 {
		return nil, fmt.Errorf("structparser: malformed literal structure")
	}
	switch v := lit.Elements[0].(type) {
	case *automata.PatternToken:
		return &intent.ColumnExpr{Kind: intent.ExprLiteral, Literal: v.Token.Text}, nil
	case *automata.Structure:
		text, err := parseStringContent(v)
		if err != nil {
			return nil, err
		}
		return &intent.ColumnExpr{Kind: intent.ExprLiteral, Literal: text, LiteralIsString: true}, nil
	}
	return nil, fmt.Errorf("structparser: malformed literal structure")
}

func parseStringContent(s *automata.Structure) (string, error) {
	for _, el := range s.Elements {
		cs, ok := el.(*automata.Structure)
		if !ok {
			continue
		}
		if cs.Name != grammar.StringQuoteContent && cs.Name != grammar.StringDoubleQuoteContent {
			continue
		}
		var parts []string
		for _, tok := range cs.Elements {
			if pt, ok := tok.(*automata.PatternToken); ok {
				parts = append(parts, pt.Token.Text)
			}
		}
		return strings.Join(parts, " "), nil
	}
	return "", fmt.Errorf("structparser: malformed string literal")
}
