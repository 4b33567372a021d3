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

// Package intent defines the typed query-intent tree a structparser.Parse
// call produces: which tables and columns a query touches and how its
// SELECT/WHERE/GROUP BY/HAVING/ORDER BY clauses are shaped, independent of
// any SQL dialect.
package intent

// ColumnExprKind tags which variant of ColumnExpr a node is.
type ColumnExprKind int

const (
	// ExprColumn references a single catalog column. Table always holds the
	// column's table, whether or not the query named it explicitly.
	ExprColumn ColumnExprKind = iota
	// ExprTableStar means "every column of this table" — produced when a
	// query names a table directly in its column list.
	ExprTableStar
	// ExprLiteral is a number or quoted string constant.
	ExprLiteral
	// ExprOperator wraps another ColumnExpr in a function call: ROUND(),
	// AVG(), MAX(), MIN(), COUNT(), SUM().
	ExprOperator
)

// ColumnExpr is one column-shaped value in a query: a bare column, a whole
// table's columns, a literal, or an operator applied to a nested
// ColumnExpr. Operators nest arbitrarily deep ("round(avg(salary))"
// round-trips as ExprOperator{ROUND, ExprOperator{AVG, ExprColumn{salary}}}).
type ColumnExpr struct {
	Kind    ColumnExprKind
	Table   string
	Column  string
	Literal string
	// LiteralIsString distinguishes a quoted-string Literal from a numeric
	// one — the two render differently in SQL (quoted vs bare).
	LiteralIsString bool
	Operator        string
	Operand         *ColumnExpr
}

// CompareOp is one of the five comparison operators a Condition can use.
type CompareOp string

const (
	OpGt CompareOp = ">"
	OpLt CompareOp = "<"
	OpEq CompareOp = "="
	OpGe CompareOp = ">="
	OpLe CompareOp = "<="
)

// Connector joins one Condition to the next in a chain.
type Connector string

const (
	ConnectorNone Connector = ""
	ConnectorAnd  Connector = "AND"
	ConnectorOr   Connector = "OR"
)

// ConditionKind tags which variant of Condition a node is.
type ConditionKind int

const (
	// ConditionCompare is "left OP right", e.g. "salary > 1000".
	ConditionCompare ConditionKind = iota
	// ConditionCheck is "column IS [NOT] NULL".
	ConditionCheck
)

// Condition is one link of a WHERE/HAVING clause's chain. Connector joins
// this Condition to Next; the last Condition in a chain has
// Connector == ConnectorNone and Next == nil.
type Condition struct {
	Kind      ConditionKind
	Not       bool
	Left      *ColumnExpr
	Op        CompareOp
	Right     *ColumnExpr
	IsNotNull bool
	Connector Connector
	Next      *Condition
}

// OrderColumn is one column of an ORDER BY clause, with its sort direction.
// Ascending is the default when a query doesn't say otherwise.
type OrderColumn struct {
	Expr *ColumnExpr
	Desc bool
}

// Tree is the complete, catalog-resolved intent of one query. TablesUsed
// accumulates every table mentioned anywhere while parsing the other
// fields — the planner uses it to decide what to join.
type Tree struct {
	TablesUsed []string
	Select     []*ColumnExpr
	Where      *Condition
	GroupBy    []*ColumnExpr
	Having     *Condition
	OrderBy    []*OrderColumn
}

// UseTable records table as touched by the query, if not already recorded.
func (t *Tree) UseTable(table string) {
	for _, existing := range t.TablesUsed {
		if existing == table {
			return
		}
	}
	t.TablesUsed = append(t.TablesUsed, table)
}

// HasTable reports whether table has already been recorded as touched.
func (t *Tree) HasTable(table string) bool {
	for _, existing := range t.TablesUsed {
		if existing == table {
			return true
		}
	}
	return false
}
