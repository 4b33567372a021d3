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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ruminat/Asq-Server/asqerr"
	"github.com/Ruminat/Asq-Server/automata"
	"github.com/Ruminat/Asq-Server/catalog"
	"github.com/Ruminat/Asq-Server/grammar"
	"github.com/Ruminat/Asq-Server/intent"
	"github.com/Ruminat/Asq-Server/token"
)

func hrFixture() *catalog.Catalog {
	tables := []*catalog.Table{
		{Schema: "hr", Name: "employees", Lemmas: []string{"сотрудник"}},
		{Schema: "hr", Name: "departments", Lemmas: []string{"отдел"}},
	}
	columns := []*catalog.Column{
		{Schema: "hr", Table: "employees", Name: "salary", Lemmas: []string{"зарплата"}},
		{Schema: "hr", Table: "employees", Name: "department_id", Lemmas: []string{"номер"}},
		{Schema: "hr", Table: "departments", Name: "department_id", Lemmas: []string{"номер"}},
		{Schema: "hr", Table: "departments", Name: "name", Lemmas: []string{"название"}},
	}
	fks := []*catalog.ForeignKey{
		{Name: "emp_dept_fk", FromTable: "employees", ToTable: "departments",
			Columns: []catalog.ColumnPair{{Local: "department_id", Referenced: "department_id"}}},
	}
	return catalog.New(tables, columns, fks)
}

func word(text string, index int) token.Token {
	return token.New(text, token.KindText, text, "", index)
}

func col(lemma string, index int) token.Token {
	return token.New(lemma, token.KindColumn, lemma, "", index)
}

func num(text string, index int) token.Token {
	return token.New(text, token.KindNumber, text, "", index)
}

// captureOf feeds stream through the compiled Pattern named pattern,
// reconstructs every finished run, resolves their overlaps with
// automata.Resolve and returns the single surviving Capture, failing the
// test if anything other than exactly one survives.
func captureOf(t *testing.T, pattern string, stream []token.Token) automata.Capture {
	t.Helper()
	m := automata.NewMachine(grammar.Compiled, pattern)
	for _, tok := range stream {
		m.Feed(tok)
	}
	finished := m.Finish(len(stream))
	captures := make([]automata.Capture, 0, len(finished))
	for _, run := range finished {
		span, structure := automata.Reconstruct(run, pattern)
		captures = append(captures, automata.Capture{Pattern: pattern, Span: span, Structure: structure})
	}
	resolved := automata.Resolve(captures)
	require.Len(t, resolved, 1)
	return resolved[0]
}

func TestParseSelectColumn(t *testing.T) {
	cat := hrFixture()
	stream := []token.Token{col("зарплата", 0)}
	capture := captureOf(t, grammar.SelectExpr, stream)

	tree, err := Parse([]automata.Capture{capture}, cat)
	require.NoError(t, err)
	require.Len(t, tree.Select, 1)
	assert.Equal(t, intent.ExprColumn, tree.Select[0].Kind)
	assert.Equal(t, "employees", tree.Select[0].Table)
	assert.Equal(t, "salary", tree.Select[0].Column)
	assert.Contains(t, tree.TablesUsed, "employees")
}

func TestParseSelectAggregateColumn(t *testing.T) {
	cat := hrFixture()
	stream := []token.Token{word("средний", 0), col("зарплата", 1)}
	capture := captureOf(t, grammar.SelectExpr, stream)

	tree, err := Parse([]automata.Capture{capture}, cat)
	require.NoError(t, err)
	require.Len(t, tree.Select, 1)
	expr := tree.Select[0]
	assert.Equal(t, intent.ExprOperator, expr.Kind)
	assert.Equal(t, "AVG", expr.Operator)
	require.NotNil(t, expr.Operand)
	assert.Equal(t, "salary", expr.Operand.Column)
}

func TestParseSelectListOfTables(t *testing.T) {
	cat := hrFixture()
	stream := []token.Token{token.New("сотрудники", token.KindTable, "сотрудник", "", 0)}
	capture := captureOf(t, grammar.SelectExpr, stream)

	tree, err := Parse([]automata.Capture{capture}, cat)
	require.NoError(t, err)
	require.Len(t, tree.Select, 1)
	assert.Equal(t, intent.ExprTableStar, tree.Select[0].Kind)
	assert.Equal(t, "employees", tree.Select[0].Table)
}

func TestParseCompareWhere(t *testing.T) {
	cat := hrFixture()
	stream := []token.Token{
		col("зарплата", 0),
		word("больше", 1),
		num("1000", 2),
	}
	capture := captureOf(t, grammar.WhereExpr, stream)

	tree, err := Parse([]automata.Capture{capture}, cat)
	require.NoError(t, err)
	require.NotNil(t, tree.Where)
	assert.Equal(t, intent.ConditionCompare, tree.Where.Kind)
	assert.Equal(t, intent.OpGt, tree.Where.Op)
	require.NotNil(t, tree.Where.Left)
	assert.Equal(t, "salary", tree.Where.Left.Column)
	require.NotNil(t, tree.Where.Right)
	assert.Equal(t, "1000", tree.Where.Right.Literal)
	assert.Nil(t, tree.Where.Next)
}

func TestParseHavingRoutesAggregateCondition(t *testing.T) {
	cat := hrFixture()
	stream := []token.Token{
		word("средний", 0),
		col("зарплата", 1),
		word("больше", 2),
		num("1000", 3),
	}
	capture := captureOf(t, grammar.WhereExpr, stream)

	tree, err := Parse([]automata.Capture{capture}, cat)
	require.NoError(t, err)
	assert.Nil(t, tree.Where)
	require.NotNil(t, tree.Having)
	assert.Equal(t, intent.OpGt, tree.Having.Op)
	assert.Equal(t, "AVG", tree.Having.Left.Operator)
}

func TestParseGeViaNotLtSetsNotFlag(t *testing.T) {
	cat := hrFixture()
	stream := []token.Token{
		col("зарплата", 0),
		word("не", 1),
		word("меньше", 2),
		num("1000", 3),
	}
	capture := captureOf(t, grammar.WhereExpr, stream)

	tree, err := Parse([]automata.Capture{capture}, cat)
	require.NoError(t, err)
	require.NotNil(t, tree.Where)
	assert.Equal(t, intent.OpGe, tree.Where.Op)
	assert.True(t, tree.Where.Not)
}

func TestParseCompareWhereQuotedStringLiteralJoinsWithSpaces(t *testing.T) {
	cat := hrFixture()
	stream := []token.Token{
		col("название", 0),
		word("=", 1),
		word("'", 2),
		word("new", 3),
		word("york", 4),
		word("'", 5),
	}
	capture := captureOf(t, grammar.WhereExpr, stream)

	tree, err := Parse([]automata.Capture{capture}, cat)
	require.NoError(t, err)
	require.NotNil(t, tree.Where)
	require.NotNil(t, tree.Where.Right)
	assert.True(t, tree.Where.Right.LiteralIsString)
	assert.Equal(t, "new york", tree.Where.Right.Literal)
}

func TestParseAmbiguousColumnWithoutTable(t *testing.T) {
	cat := hrFixture()
	stream := []token.Token{col("номер", 0)}
	capture := captureOf(t, grammar.SelectExpr, stream)

	_, err := Parse([]automata.Capture{capture}, cat)
	require.Error(t, err)
	assert.True(t, asqerr.ErrAmbiguousColumn.Is(err))
}
