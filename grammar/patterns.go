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

package grammar

import "github.com/Ruminat/Asq-Server/automata"

// Pattern names. structparser walks captured automata.Structure values by
// these names, so they are exported as constants instead of bare strings.
const (
	StringQuoteContent       = "stringQuoteContent"
	StringDoubleQuoteContent = "stringDoubleQuoteContent"
	String                   = "string"
	Literal                  = "literal"
	Function                 = "function"
	AggregateFunction        = "aggregateFunction"
	Operator                 = "operator"
	ColumnExpr               = "columnExpr"
	ColumnLiteralExpr        = "columnLiteralExpr"
	ListOfTables             = "listOfTables"
	ListOfColumns            = "listOfColumns"
	SelectExpr               = "selectExpr"
	Ge                       = "ge"
	Le                       = "le"
	CompareOperator          = "compareOperator"
	Compare                  = "compare"
	Check                    = "check"
	WhereExpr                = "whereExpr"
	GroupByExpr              = "groupByExpr"
	Asc                      = "asc"
	Desc                     = "desc"
	SortColumn               = "sortColumn"
	OrderByExpr              = "orderByExpr"
)

// TopLevel lists the Patterns that an incoming query is matched against
// independently: columns/tables, conditions, grouping and ordering. Their
// surviving captures reach the structure parser in the order they appear in
// the query, not in the order of this list.
var TopLevel = []string{SelectExpr, WhereExpr, GroupByExpr, OrderByExpr}

// Registry holds every Pattern declared in this package.
var Registry = automata.NewRegistry()

// Compiled is Registry, compiled once at package init. Every Machine the
// engine package starts is built against this CompiledSet.
var Compiled *automata.CompiledSet

func init() {
	a := automata.Atom
	r := automata.Ref
	seq := automata.Seq
	alt := automata.Alt
	quant := automata.Quant

	define := Registry.Define

	define(StringQuoteContent, quant(a(NonQuote), automata.Star))
	define(StringDoubleQuoteContent, quant(a(NonDoubleQuote), automata.Star))
	define(String, alt(
		seq(a(Quote), r(StringQuoteContent), a(Quote)),
		seq(a(DoubleQuote), r(StringDoubleQuoteContent), a(DoubleQuote)),
	))
	define(Literal, alt(a(Number), r(String)))

	define(Function, a(Round))
	define(AggregateFunction, alt(a(Avg), a(Max), a(Min), a(Count), a(Sum)))
	define(Operator, alt(r(Function), r(AggregateFunction)))

	define(ColumnExpr, seq(quant(r(Operator), automata.Star), a(Column)))
	define(ColumnLiteralExpr, seq(quant(r(Operator), automata.Star), alt(a(Column), r(Literal))))
	define(ListOfTables, seq(a(Table)))
	define(ListOfColumns, seq(
		r(ColumnExpr),
		quant(seq(a(Connector), r(ColumnExpr)), automata.Star),
		quant(a(Table), automata.Optional),
	))
	define(SelectExpr, seq(alt(r(ListOfColumns), r(ListOfTables))))

	define(Ge, alt(seq(a(Gt), a(Or), a(Eq)), seq(a(Not), a(Lt))))
	define(Le, alt(seq(a(Lt), a(Or), a(Eq)), seq(a(Not), a(Gt))))
	define(CompareOperator, alt(a(Gt), a(Lt), a(Eq), r(Ge), r(Le)))
	define(Compare, seq(
		quant(a(Not), automata.Optional),
		r(ColumnLiteralExpr),
		r(CompareOperator),
		r(ColumnLiteralExpr),
	))
	define(Check, seq(
		quant(a(Not), automata.Optional),
		alt(a(IsNull), a(IsNotNull)),
		r(ColumnExpr),
	))
	define(WhereExpr, seq(
		alt(r(Compare), r(Check)),
		quant(seq(a(LogicalConnector), alt(r(Compare), r(Check))), automata.Star),
	))

	define(GroupByExpr, seq(
		a(GroupPreposition),
		r(ColumnExpr),
		quant(seq(a(Connector), quant(a(GroupPreposition), automata.Optional), r(ColumnExpr)), automata.Star),
		quant(a(Table), automata.Optional),
	))

	define(Asc, seq(a(By), a(AscP)))
	define(Desc, seq(a(By), a(DescP)))
	define(SortColumn, seq(
		quant(a(By), automata.Optional),
		r(ColumnExpr),
		quant(alt(r(Asc), r(Desc)), automata.Optional),
	))
	define(OrderByExpr, seq(
		a(Sort),
		r(SortColumn),
		quant(seq(a(Connector), r(SortColumn)), automata.Star),
	))

	Compiled = automata.CompileAll(Registry)
}
