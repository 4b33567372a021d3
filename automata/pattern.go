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

// Package automata implements the Abstract Regular Expression engine: a
// generalized NFA that matches patterns over token.Token streams instead of
// characters, with composition, alternation, quantifiers and recursive
// sub-patterns with capture.
//
// The design follows Mark-Jason Dominus's "How Regexes Work" construction
// (the same one the original Ruminat/Asq-Server core used), re-expressed as
// tagged Go values instead of Python's duck-typed pattern/tuple/list
// overloading.
package automata

import "github.com/Ruminat/Asq-Server/token"

// Quantifier is one of the three repetition operators a Pattern node may
// carry. There is no bare "exactly one" quantifier because an un-quantified
// node already means exactly one.
type Quantifier int

const (
	// Optional matches its sub-pattern zero or one times ('?').
	Optional Quantifier = iota
	// Star matches its sub-pattern zero or more times ('*').
	Star
	// Plus matches its sub-pattern one or more times ('+').
	Plus
)

// Primitive is a named, stateless predicate over a single Token. It is the
// only thing a Pattern's Atom node ever wraps.
type Primitive struct {
	Name string
	Test func(token.Token) bool `hash:"ignore"`
}

// nodeKind tags which variant of the Pattern value tree a Node holds.
type nodeKind int

const (
	nodeAtom nodeKind = iota
	nodeRef
	nodeSeq
	nodeAlt
	nodeQuant
)

// Node is one element of a Pattern's body. A Pattern compiles its Node tree
// to exactly one NFA fragment; Atom/Sequence/Alternation/Quantified nodes
// are inlined eagerly during compilation, Ref nodes never are — that
// indirection is what lets two Patterns refer to each other cyclically.
type Node struct {
	kind    nodeKind
	prim    *Primitive
	refName string
	items   []Node
	sub     *Node
	quant   Quantifier
}

// Atom wraps a Primitive as a single-token matcher.
func Atom(p *Primitive) Node {
	return Node{kind: nodeAtom, prim: p}
}

// Ref refers to another named Pattern by name, resolved against the
// CompiledSet at match time. Using a Ref never inlines the referenced Pattern's
// body — this is what makes recursive grammars (a Pattern that refers to
// itself, directly or through others) possible.
func Ref(name string) Node {
	return Node{kind: nodeRef, refName: name}
}

// Seq requires every item to match consecutively, in order.
func Seq(items ...Node) Node {
	return Node{kind: nodeSeq, items: items}
}

// Alt requires at least one of the alternatives to match; every alternative
// that matches yields its own Run.
func Alt(items ...Node) Node {
	return Node{kind: nodeAlt, items: items}
}

// Quant applies a quantifier to a sub-node.
func Quant(n Node, q Quantifier) Node {
	return Node{kind: nodeQuant, sub: &n, quant: q}
}

// Pattern is a named, composite description. It compiles to exactly one NFA
// fragment with one entry state and a set of accept-transitions.
type Pattern struct {
	Name string
	Body Node
}

// Registry resolves Ref nodes by name. Patterns are declared once (usually
// at package-init time by the grammar package) and never mutated after a
// Machine has compiled against them.
type Registry struct {
	patterns map[string]*Pattern
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{patterns: make(map[string]*Pattern)}
}

// Define registers a named Pattern and returns it. Defining the same name
// twice replaces the previous definition.
func (r *Registry) Define(name string, body Node) *Pattern {
	p := &Pattern{Name: name, Body: body}
	r.patterns[name] = p
	return p
}

// Get looks up a previously Defined Pattern by name.
func (r *Registry) Get(name string) (*Pattern, bool) {
	p, ok := r.patterns[name]
	return p, ok
}

// MustGet panics if name was never Defined, the same way the original
// source's module-level Pattern() calls would raise at import time on a typo.
func (r *Registry) MustGet(name string) *Pattern {
	p, ok := r.patterns[name]
	if !ok {
		panic("automata: undefined pattern " + name)
	}
	return p
}

// Names returns every registered pattern name, in registration order is not
// guaranteed (map iteration) — callers that need determinism should sort.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.patterns))
	for n := range r.patterns {
		names = append(names, n)
	}
	return names
}
