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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ruminat/Asq-Server/automata"
	"github.com/Ruminat/Asq-Server/token"
)

func col(text string, index int) token.Token {
	return token.New(text, token.KindColumn, text, "", index)
}

func tbl(text string, index int) token.Token {
	return token.New(text, token.KindTable, text, "", index)
}

func word(text string, index int) token.Token {
	return token.New(text, token.KindText, text, "", index)
}

func TestAggregateColumnExpr(t *testing.T) {
	m := automata.NewMachine(Compiled, ColumnExpr)
	stream := []token.Token{word("средний", 0), col("зарплата", 1)}
	for _, tok := range stream {
		m.Feed(tok)
	}
	// Two runs cover both tokens (the operator is taken by the loop edge or
	// the finishing edge of its '*'), and a third starts at "зарплата".
	finished := m.Finish(len(stream))
	require.Len(t, finished, 3)

	_, structure := automata.Reconstruct(finished[0], ColumnExpr)
	require.Len(t, structure.Elements, 2)
	assert.True(t, automata.IsStructure(structure.Elements[0], Operator))
}

func TestListOfTables(t *testing.T) {
	m := automata.NewMachine(Compiled, ListOfTables)
	stream := []token.Token{tbl("сотрудники", 0)}
	m.Feed(stream[0])
	finished := m.Finish(len(stream))
	require.Len(t, finished, 1)
}

func TestCompareWithGe(t *testing.T) {
	m := automata.NewMachine(Compiled, Compare)
	stream := []token.Token{
		col("зарплата", 0),
		word("больше", 1),
		word("или", 2),
		word("равный", 3),
		token.New("1000", token.KindNumber, "1000", "", 4),
	}
	for _, tok := range stream {
		m.Feed(tok)
	}
	finished := m.Finish(len(stream))
	require.Len(t, finished, 1)
}
