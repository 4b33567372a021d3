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

	"github.com/Ruminat/Asq-Server/automata"
	"github.com/Ruminat/Asq-Server/grammar"
	"github.com/Ruminat/Asq-Server/intent"
)

// parseWhere walks a whereExpr Structure's elements: a leading
// compare/check condition, then zero or more (logicalConnector,
// compare/check) pairs chaining further conditions onto it.
func (p *parser) parseWhere(elements []automata.Element) error {
	if len(elements) == 0 {
		return nil
	}
	if err := p.parseCondition(intent.ConnectorAnd, elements[0]); err != nil {
		return err
	}
	for i := 1; i+1 < len(elements); i += 2 {
		connector := connectorFromToken(elements[i])
		if err := p.parseCondition(connector, elements[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func connectorFromToken(el automata.Element) intent.Connector {
	pt, ok := el.(*automata.PatternToken)
	if !ok {
		return intent.ConnectorAnd
	}
	switch pt.Token.LemmaOrText() {
	case "или":
		return intent.ConnectorOr
	default:
		return intent.ConnectorAnd
	}
}

// parseCondition turns one compare/check Structure into an intent.Condition
// and links it onto the chain connector joins it to. A condition whose
// column expression nests an aggregateFunction (e.g. "avg(salary) > 1000")
// belongs to HAVING rather than WHERE — the grammar can't tell the two
// clauses apart on its own, so this scan is what routes it.
func (p *parser) parseCondition(connector intent.Connector, el automata.Element) error {
	condition, ok := el.(*automata.Structure)
	if !ok {
		return fmt.Errorf("structparser: expected a compare/check structure")
	}

	result := &intent.Condition{}
	inHaving := false

	for _, item := range condition.Elements {
		switch {
		case automata.IsPrimitive(item, grammar.Not):
			result.Not = true
		case automata.IsPrimitive(item, grammar.IsNull):
			result.Kind = intent.ConditionCheck
			result.IsNotNull = false
		case automata.IsPrimitive(item, grammar.IsNotNull):
			result.Kind = intent.ConditionCheck
			result.IsNotNull = true
		case automata.IsStructure(item, grammar.CompareOperator):
			result.Kind = intent.ConditionCompare
			op, viaNot, err := compareOpFromStructure(item.(*automata.Structure))
			if err != nil {
				return err
			}
			result.Op = op
			if viaNot {
				result.Not = true
			}
		case automata.IsStructure(item, grammar.ColumnExpr) || automata.IsStructure(item, grammar.ColumnLiteralExpr):
			s := item.(*automata.Structure)
			if structureNestsAggregate(s) {
				inHaving = true
			}
			expr, err := p.parseColumnExpr(s.Elements, nil)
			if err != nil {
				return err
			}
			if result.Left == nil {
				result.Left = expr
			} else {
				result.Right = expr
			}
		}
	}

	if inHaving {
		p.havingTail = p.appendCondition(&p.tree.Having, p.havingTail, connector, result)
	} else {
		p.whereTail = p.appendCondition(&p.tree.Where, p.whereTail, connector, result)
	}
	return nil
}

// appendCondition links result onto the end of the chain rooted at *head,
// setting connector on the previous tail (the conjunction that joins it to
// result), and returns the new tail.
func (p *parser) appendCondition(head **intent.Condition, tail *intent.Condition, connector intent.Connector, result *intent.Condition) *intent.Condition {
	if tail == nil {
		*head = result
		return result
	}
	tail.Connector = connector
	tail.Next = result
	return result
}

// structureNestsAggregate reports whether a columnExpr/columnLiteralExpr
// Structure wraps an aggregateFunction anywhere among its leading operator
// elements.
func structureNestsAggregate(s *automata.Structure) bool {
	for _, el := range s.Elements {
		opStruct, ok := el.(*automata.Structure)
		if !ok || opStruct.Name != grammar.Operator {
			continue
		}
		for _, inner := range opStruct.Elements {
			if automata.IsStructure(inner, grammar.AggregateFunction) {
				return true
			}
		}
	}
	return false
}

// compareOpFromStructure extracts the CompareOp a compareOperator Structure
// matched. For ge/le it also reports whether the alternative that matched
// was the negated one ("не меньше" = "not less" = ge) — the grammar encodes
// ge/le as `[gt,or,eq] | [not,lt]` and `[lt,or,eq] | [not,gt]`
// (patterns.py's own ge/le definitions), so that branch carries a leading
// "not" primitive that belongs to the condition's overall negation, not just
// to this sub-structure.
func compareOpFromStructure(s *automata.Structure) (intent.CompareOp, bool, error) {
	if len(s.Elements) == 0 {
		return "", false, fmt.Errorf("structparser: empty compare operator structure")
	}
	switch e := s.Elements[0].(type) {
	case *automata.PatternToken:
		switch e.Prim {
		case grammar.Gt:
			return intent.OpGt, false, nil
		case grammar.Lt:
			return intent.OpLt, false, nil
		case grammar.Eq:
			return intent.OpEq, false, nil
		}
	case *automata.Structure:
		viaNot := len(e.Elements) > 0 && automata.IsPrimitive(e.Elements[0], grammar.Not)
		switch e.Name {
		case grammar.Ge:
			return intent.OpGe, viaNot, nil
		case grammar.Le:
			return intent.OpLe, viaNot, nil
		}
	}
	return "", false, fmt.Errorf("structparser: unrecognized compare operator")
}
