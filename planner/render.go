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

	"github.com/Ruminat/Asq-Server/intent"
)

// renderExpr renders a ColumnExpr to its SQL text, qualifying column and
// table-star references with whatever prefix connectTables assigned their
// table (the empty string when the query only touches one table).
func renderExpr(expr *intent.ColumnExpr, prefixes map[string]string) (string, error) {
	switch expr.Kind {
	case intent.ExprColumn:
		return prefixes[expr.Table] + expr.Column, nil
	case intent.ExprTableStar:
		prefix, ok := prefixes[expr.Table]
		if !ok {
			prefix = expr.Table + "."
		}
		return prefix + "*", nil
	case intent.ExprLiteral:
		if expr.LiteralIsString {
			return "'" + expr.Literal + "'", nil
		}
		return expr.Literal, nil
	case intent.ExprOperator:
		inner, err := renderExpr(expr.Operand, prefixes)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s)", expr.Operator, inner), nil
	}
	return "", fmt.Errorf("planner: unrecognized column expression kind %d", expr.Kind)
}

// renderConditionChain renders a Condition chain's links as a list of SQL
// lines, each one (after the first) prefixed with the logical connector
// that joins it to the line before.
func renderConditionChain(head *intent.Condition, prefixes map[string]string) ([]string, error) {
	var lines []string
	var prev *intent.Condition
	for c := head; c != nil; c = c.Next {
		body, err := renderCondition(c, prefixes)
		if err != nil {
			return nil, err
		}
		if prev != nil {
			body = string(prev.Connector) + " " + body
		}
		lines = append(lines, body)
		prev = c
	}
	return lines, nil
}

func renderCondition(c *intent.Condition, prefixes map[string]string) (string, error) {
	prefix := ""
	if c.Not {
		prefix = "NOT "
	}
	if c.Kind == intent.ConditionCheck {
		target, err := renderExpr(c.Left, prefixes)
		if err != nil {
			return "", err
		}
		op := "IS NULL"
		if c.IsNotNull {
			op = "IS NOT NULL"
		}
		return fmt.Sprintf("%s%s %s", prefix, target, op), nil
	}

	left, err := renderExpr(c.Left, prefixes)
	if err != nil {
		return "", err
	}
	right, err := renderExpr(c.Right, prefixes)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%s %s %s", prefix, left, string(c.Op), right), nil
}
