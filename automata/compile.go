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

// transitionKind tags what a Transition consumes to be taken.
type transitionKind int

const (
	// transPrimitive is taken when its Primitive matches the current token.
	transPrimitive transitionKind = iota
	// transRef is taken unconditionally, invoking another Pattern's machine.
	transRef
	// transEpsilon is taken unconditionally without consuming anything.
	transEpsilon
)

// State is one node of a compiled NFA fragment.
type State struct {
	id          int
	Transitions []*Transition
}

// Transition is one outgoing edge of a State. Next == nil marks it as an
// accept-transition for the fragment it belongs to. connectMachines rewires
// a fragment's accept-transitions when another fragment follows it; those
// left at the end of a Pattern's compiled fragment keep Next == nil, and a
// Machine treats taking one as finishing that Pattern.
type Transition struct {
	Kind    transitionKind
	Prim    *Primitive
	RefName string
	Next    *State
}

// Graph is a fully compiled Pattern: one entry state, standing for "start
// trying to match this Pattern here".
type Graph struct {
	PatternName string
	Entry       *State
}

// CompiledSet holds the compiled Graph for every Pattern known to a
// Registry, keyed by name. Ref transitions are resolved against a
// CompiledSet at match time, never at compile time, so two Patterns may
// refer to each other regardless of declaration order.
type CompiledSet struct {
	graphs map[string]*Graph
}

// Graph returns the compiled Graph for a Pattern name, or nil if unknown.
func (c *CompiledSet) Graph(name string) *Graph {
	return c.graphs[name]
}

// compileCtx hands out unique state ids within one CompileAll call. Ids
// exist only for debugging/printing; matching never relies on their value.
type compileCtx struct {
	nextID int
}

func (ctx *compileCtx) newState(transitions []*Transition) *State {
	ctx.nextID++
	return &State{id: ctx.nextID, Transitions: transitions}
}

// CompileAll compiles every Pattern registered on reg into a CompiledSet.
// Compile each Pattern's own Node tree into an NFA fragment; Ref nodes are
// left unresolved (by name) so cyclic grammars compile without special
// casing.
func CompileAll(reg *Registry) *CompiledSet {
	set := &CompiledSet{graphs: make(map[string]*Graph, len(reg.patterns))}
	ctx := &compileCtx{}
	for name, p := range reg.patterns {
		entry := compileNode(p.Body, ctx)
		set.graphs[name] = &Graph{PatternName: name, Entry: entry}
	}
	return set
}

// compileNode is the recursive NFA builder, one case per Node kind. It
// mirrors the classic Dominus "regex from patterns" construction: atoms and
// refs become one-transition fragments, sequences chain fragments end to
// end, alternations union fragment entries, and quantifiers splice a loop
// or a skip-edge onto a fragment's own entry state.
func compileNode(n Node, ctx *compileCtx) *State {
	switch n.kind {
	case nodeAtom:
		return ctx.newState([]*Transition{{Kind: transPrimitive, Prim: n.prim}})
	case nodeRef:
		return ctx.newState([]*Transition{{Kind: transRef, RefName: n.refName}})
	case nodeSeq:
		return compileSeq(n.items, ctx)
	case nodeAlt:
		machines := make([]*State, len(n.items))
		for i, item := range n.items {
			machines[i] = compileNode(item, ctx)
		}
		return combineMachines(machines)
	case nodeQuant:
		return compileQuant(compileNode(*n.sub, ctx), n.quant)
	default:
		panic("automata: unknown node kind")
	}
}

func compileSeq(items []Node, ctx *compileCtx) *State {
	if len(items) == 0 {
		return ctx.newState([]*Transition{{Kind: transEpsilon}})
	}
	acc := compileNode(items[len(items)-1], ctx)
	for i := len(items) - 2; i >= 0; i-- {
		acc = connectMachines(compileNode(items[i], ctx), acc)
	}
	return acc
}

// connectMachines rewires every accept-transition reachable from a's entry
// state to point at b's entry state, then returns a's entry state as the
// combined fragment. a and b are not touched again after this call.
func connectMachines(a, b *State) *State {
	for _, s := range reachableStates(a) {
		for _, t := range s.Transitions {
			if t.Next == nil {
				t.Next = b
			}
		}
	}
	return a
}

// combineMachines unions the entry transitions of several fragments into a
// single new entry state — picking any one of them matches that fragment.
func combineMachines(machines []*State) *State {
	var transitions []*Transition
	for _, m := range machines {
		transitions = append(transitions, m.Transitions...)
	}
	return &State{id: -1, Transitions: transitions}
}

// reachableStates does a visited-set walk over every State reachable from
// start by following non-nil Transition.Next pointers. Quantified fragments
// can contain self-loops (Star/Plus splice a back-edge onto their own
// entry), so the visited set is required for termination, not just
// efficiency.
func reachableStates(start *State) []*State {
	visited := map[*State]bool{}
	var order []*State
	var walk func(*State)
	walk = func(s *State) {
		if visited[s] {
			return
		}
		visited[s] = true
		order = append(order, s)
		for _, t := range s.Transitions {
			if t.Next != nil {
				walk(t.Next)
			}
		}
	}
	walk(start)
	return order
}

// compileQuant splices repetition onto a fragment's entry state in place,
// the same way the original engine spliced '+'/'*'/'?' onto a machine
// after the fact rather than building a separate loop construct.
func compileQuant(machine *State, q Quantifier) *State {
	switch q {
	case Plus, Star:
		// Every accept-transition of the fragment gets looped back to the
		// fragment's own entry, and duplicated (pattern unchanged, Next
		// reset to nil) so the fragment can still also finish normally.
		var ends []*Transition
		for _, s := range reachableStates(machine) {
			for _, t := range s.Transitions {
				if t.Next == nil {
					ends = append(ends, t)
				}
			}
		}
		for _, t := range ends {
			owner := findOwner(machine, t)
			t.Next = machine
			owner.Transitions = append(owner.Transitions, &Transition{Kind: t.Kind, Prim: t.Prim, RefName: t.RefName})
		}
		if q == Star {
			addOptionalSkip(machine)
		}
		return machine
	case Optional:
		addOptionalSkip(machine)
		return machine
	default:
		panic("automata: unknown quantifier")
	}
}

// findOwner returns the State whose Transitions slice contains t. Needed
// because compileQuant walks transitions without tracking which state
// owns each one, and appending the duplicate accept-edge has to land on
// the same state as the original.
func findOwner(start *State, t *Transition) *State {
	for _, s := range reachableStates(start) {
		for _, owned := range s.Transitions {
			if owned == t {
				return s
			}
		}
	}
	panic("automata: transition has no owner state")
}

// addOptionalSkip adds a bare epsilon accept-edge directly on machine's own
// entry state, unless one is already present — this is what lets a '?' or
// '*' fragment match zero occurrences without consuming a token.
func addOptionalSkip(machine *State) {
	for _, t := range machine.Transitions {
		if t.Kind == transEpsilon && t.Next == nil {
			return
		}
	}
	machine.Transitions = append(machine.Transitions, &Transition{Kind: transEpsilon})
}
