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

package automata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ruminat/Asq-Server/token"
)

func textIs(s string) *Primitive {
	return &Primitive{Name: s, Test: func(t token.Token) bool { return t.Text == s }}
}

func toks(words ...string) []token.Token {
	out := make([]token.Token, len(words))
	for i, w := range words {
		out[i] = token.New(w, token.KindText, "", "", i)
	}
	return out
}

func runMachine(t *testing.T, set *CompiledSet, pattern string, words ...string) []*Run {
	t.Helper()
	m := NewMachine(set, pattern)
	stream := toks(words...)
	for _, tok := range stream {
		m.Feed(tok)
	}
	return m.Finish(len(stream))
}

func TestSequenceMatch(t *testing.T) {
	reg := NewRegistry()
	hello, world := textIs("hello"), textIs("world")
	reg.Define("greeting", Seq(Atom(hello), Atom(world)))
	set := CompileAll(reg)

	finished := runMachine(t, set, "greeting", "hello", "world")
	require.Len(t, finished, 1)

	span, structure := Reconstruct(finished[0], "greeting")
	assert.Equal(t, Span{Start: 0, End: 1}, span)
	require.Len(t, structure.Elements, 2)
	assert.True(t, IsPrimitive(structure.Elements[0], hello))
	assert.True(t, IsPrimitive(structure.Elements[1], world))
}

func TestAlternation(t *testing.T) {
	reg := NewRegistry()
	cat, dog := textIs("cat"), textIs("dog")
	reg.Define("pet", Alt(Atom(cat), Atom(dog)))
	set := CompileAll(reg)

	for _, word := range []string{"cat", "dog"} {
		finished := runMachine(t, set, "pet", word)
		require.Lenf(t, finished, 1, "word=%s", word)
		_, structure := Reconstruct(finished[0], "pet")
		require.Len(t, structure.Elements, 1)
	}

	finished := runMachine(t, set, "pet", "fish")
	assert.Len(t, finished, 0)
}

func TestQuantifierStar(t *testing.T) {
	reg := NewRegistry()
	a, b := textIs("a"), textIs("b")
	reg.Define("run", Seq(Quant(Atom(a), Star), Atom(b)))
	set := CompileAll(reg)

	// A match may start at each of the three "a"s, and the last "a" before
	// "b" can be taken by the loop edge or the finishing edge: 3×2 runs,
	// plus the run that starts at "b" itself.
	finished := runMachine(t, set, "run", "a", "a", "a", "b")
	require.Len(t, finished, 7)
	_, structure := Reconstruct(finished[0], "run")
	require.Len(t, structure.Elements, 4)

	finished = runMachine(t, set, "run", "b")
	require.Len(t, finished, 1)
	_, structure = Reconstruct(finished[0], "run")
	require.Len(t, structure.Elements, 1)
}

func TestQuantifierOptional(t *testing.T) {
	reg := NewRegistry()
	not, null := textIs("not"), textIs("null")
	reg.Define("isNull", Seq(Quant(Atom(not), Optional), Atom(null)))
	set := CompileAll(reg)

	// One run starts at "not", another starts at "null" and skips it.
	finished := runMachine(t, set, "isNull", "not", "null")
	require.Len(t, finished, 2)

	finished = runMachine(t, set, "isNull", "null")
	require.Len(t, finished, 1)
}

// TestNestedRefCapture mirrors the real grammar's operator-wrapping-
// aggregateFunction-wrapping-avg shape: a Ref whose own body is itself a
// Ref to a Primitive. Reconstruct must come out two levels deep, not
// flattened, which is only possible if Ref boundaries are paired by
// Transition identity rather than by "stack currently empty".
func TestNestedRefCapture(t *testing.T) {
	reg := NewRegistry()
	avg := textIs("avg")
	column := textIs("salary")
	reg.Define("aggregateFunction", Atom(avg))
	reg.Define("operator", Ref("aggregateFunction"))
	reg.Define("columnExpr", Seq(Quant(Ref("operator"), Star), Atom(column)))
	set := CompileAll(reg)

	// Two runs cover "avg salary" (the operator is taken by the loop edge or
	// the finishing edge of the '*'), and a third starts at "salary".
	finished := runMachine(t, set, "columnExpr", "avg", "salary")
	require.Len(t, finished, 3)

	_, structure := Reconstruct(finished[0], "columnExpr")
	require.Len(t, structure.Elements, 2)

	operatorElem, ok := structure.Elements[0].(*Structure)
	require.True(t, ok)
	assert.Equal(t, "operator", operatorElem.Name)
	require.Len(t, operatorElem.Elements, 1)

	aggElem, ok := operatorElem.Elements[0].(*Structure)
	require.True(t, ok)
	assert.Equal(t, "aggregateFunction", aggElem.Name)
	require.Len(t, aggElem.Elements, 1)
	assert.True(t, IsPrimitive(aggElem.Elements[0], avg))

	assert.True(t, IsPrimitive(structure.Elements[1], column))
}

// TestRecursivePattern proves a Pattern can refer to itself: balanced
// parentheses, which a plain (non-recursive) NFA construction can't express.
func TestRecursivePattern(t *testing.T) {
	reg := NewRegistry()
	open, close := textIs("("), textIs(")")
	reg.Define("balanced", Seq(Atom(open), Quant(Ref("balanced"), Optional), Atom(close)))
	set := CompileAll(reg)

	// The inner "( )" finishes first (on the third token), the outer pair
	// on the last token.
	finished := runMachine(t, set, "balanced", "(", "(", ")", ")")
	require.Len(t, finished, 2)

	_, structure := Reconstruct(finished[1], "balanced")
	require.Len(t, structure.Elements, 3)
	nested, ok := structure.Elements[1].(*Structure)
	require.True(t, ok)
	assert.Equal(t, "balanced", nested.Name)
	assert.Len(t, nested.Elements, 2)
}

func TestResolveOverlap(t *testing.T) {
	short := Capture{Pattern: "a", Span: Span{Start: 0, End: 1}, Structure: &Structure{Name: "a"}}
	long := Capture{Pattern: "b", Span: Span{Start: 0, End: 3}, Structure: &Structure{Name: "b"}}
	disjoint := Capture{Pattern: "c", Span: Span{Start: 5, End: 6}, Structure: &Structure{Name: "c"}}

	result := Resolve([]Capture{short, long, disjoint})
	require.Len(t, result, 2)
	names := map[string]bool{}
	for _, c := range result {
		names[c.Pattern] = true
	}
	assert.True(t, names["b"])
	assert.True(t, names["c"])
	assert.False(t, names["a"])
}

func TestResolveDeduplicatesIdenticalSpans(t *testing.T) {
	a := Capture{Pattern: "x", Span: Span{Start: 0, End: 2}, Structure: &Structure{Name: "x"}}
	b := Capture{Pattern: "x", Span: Span{Start: 0, End: 2}, Structure: &Structure{Name: "x"}}

	result := Resolve([]Capture{a, b})
	assert.Len(t, result, 1)
}
