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

import "github.com/Ruminat/Asq-Server/token"

// Run is one live thread of a Machine: the position it has reached in the
// NFA, the token (if any) that got it there, the thread it branched from,
// and the stack of open Ref invocations it is nested inside.
//
// Run is immutable and persistent: Feed never mutates an existing Run, it
// only creates new ones that point at their parent. A finished match is
// reconstructed by walking Parent pointers back to the root, never by
// mutating shared state while matching is in progress.
type Run struct {
	Token      *token.Token
	Transition *Transition
	Parent     *Run
	Frames     []*Run
}

// Machine runs one compiled Pattern's Graph against a token stream,
// tracking every live Run in parallel the way a textbook NFA simulator
// tracks a set of active states, except a Run also carries the capture
// bookkeeping a plain NFA state doesn't need.
type Machine struct {
	set      *CompiledSet
	graph    *Graph
	current  []*Run
	finished []*Run
}

// NewMachine starts a fresh Machine for patternName, resolved against set.
func NewMachine(set *CompiledSet, patternName string) *Machine {
	return &Machine{set: set, graph: set.Graph(patternName)}
}

// Feed advances every live Run by one token, seeding a brand new attempt to
// start the Pattern at this token as well — a match may start anywhere in
// the stream, not just at position zero.
func (m *Machine) Feed(tok token.Token) {
	live := m.current
	m.current = nil
	for _, run := range live {
		if run.Transition.Next == nil {
			// Accept-transitions are never left in m.current (see
			// processTransition): a run only survives a Feed if it still
			// has somewhere to go.
			continue
		}
		for _, t := range run.Transition.Next.Transitions {
			m.processTransition(t, &tok, run)
		}
	}
	for _, t := range m.graph.Entry.Transitions {
		m.processTransition(t, &tok, nil)
	}
}

// Finish flushes any run whose remaining path to acceptance is pure
// epsilon/Ref cascade, by feeding one sentinel token that cannot satisfy
// any real Primitive. index is the ordinal to stamp the sentinel with —
// callers pass len(tokens).
func (m *Machine) Finish(index int) []*Run {
	sentinel := token.New("", token.KindText, "", "", index)
	m.Feed(sentinel)
	return m.finished
}

// processTransition is the heart of the engine: given one outgoing
// Transition from wherever a thread currently is, decide whether it fires
// against tok, and if so what Run (if any) that produces.
func (m *Machine) processTransition(t *Transition, tok *token.Token, parent *Run) {
	switch t.Kind {
	case transEpsilon:
		if t.Next != nil {
			for _, next := range t.Next.Transitions {
				m.processTransition(next, tok, parent)
			}
			return
		}
		m.accept(parent, tok, false)

	case transPrimitive:
		if !t.Prim.Test(*tok) {
			return
		}
		run := &Run{Token: tok, Transition: t, Parent: parent, Frames: copyFrames(parent)}
		if t.Next != nil {
			m.current = append(m.current, run)
			return
		}
		m.accept(run, tok, true)

	case transRef:
		run := &Run{Token: nil, Transition: t, Parent: parent, Frames: copyFrames(parent)}
		run.Frames = append(run.Frames, run)
		graph := m.set.Graph(t.RefName)
		for _, next := range graph.Entry.Transitions {
			m.processTransition(next, tok, run)
		}
	}
}

// accept is reached whenever a thread completes a fragment with nothing
// left to consume locally. If the thread isn't nested inside any open Ref
// invocation, it is a genuine, full match. Otherwise it has to return
// control to whichever Pattern invoked the one it just finished, possibly
// cascading through several levels of invocation at once (a() calling b()
// calling c(), with c and b both finishing on the same token).
//
// This is an explicit loop rather than mutual recursion through
// processTransition so that a deeply nested grammar can't grow the call
// stack with frame-stack depth — only with NFA-fragment depth, which is
// bounded by the grammar itself.
//
// consumed reports whether tok was matched by the step that finished the
// fragment. If it was, whatever follows the returned-to Ref waits in
// m.current for the next token; otherwise it is tried against tok at once.
func (m *Machine) accept(run *Run, tok *token.Token, consumed bool) {
	for {
		if len(run.Frames) == 0 {
			m.finished = append(m.finished, run)
			return
		}
		frames := run.Frames[:len(run.Frames)-1]
		invocation := run.Frames[len(run.Frames)-1]
		ret := invocation.Transition
		next := &Run{Token: nil, Transition: ret, Parent: run, Frames: frames}
		if ret.Next != nil {
			if consumed {
				m.current = append(m.current, next)
				return
			}
			for _, t := range ret.Next.Transitions {
				m.processTransition(t, tok, next)
			}
			return
		}
		run = next
	}
}

func copyFrames(parent *Run) []*Run {
	if parent == nil {
		return nil
	}
	frames := make([]*Run, len(parent.Frames))
	copy(frames, parent.Frames)
	return frames
}
