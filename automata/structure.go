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

// Element is one item of a Structure's Elements list: either a nested
// *Structure (produced by a Ref) or a *PatternToken (produced by an Atom).
type Element interface {
	isElement()
}

// PatternToken pairs the Primitive that matched with the Token it matched.
type PatternToken struct {
	Prim  *Primitive
	Token token.Token
}

func (*PatternToken) isElement() {}

// Structure is the capture tree produced by reconstructing a finished Run:
// one node per Pattern invocation encountered along the way, each holding
// the Elements it matched in the order they were matched.
type Structure struct {
	Name     string
	Elements []Element
}

func (*Structure) isElement() {}

// Span is the inclusive range of token indexes a match covers.
type Span struct {
	Start int
	End   int
}

// Reconstruct walks a finished Run back to its root and rebuilds the
// capture tree, returning the token span it covers and a Structure named
// name holding its top-level Elements.
//
// Because the Run chain is walked in reverse (finish to start), the
// algorithm below sees a Ref boundary twice: once as the point where
// accept() returned control past it (the walk meets this first, since it
// happened later) and once as the point where it was first invoked (met
// last). Matching the two by the identity of the underlying Transition —
// rather than by "is the stack currently empty", which only works for
// single-level nesting — is what lets a Ref call another Ref (for example
// an operator wrapping an aggregate function) and still come out correctly
// nested instead of flattened.
func Reconstruct(run *Run, name string) (Span, *Structure) {
	type frame struct {
		open *Transition
		s    *Structure
	}
	var stack []frame
	var top []Element
	span := Span{Start: -1, End: -1}

	push := func(e Element) {
		if len(stack) > 0 {
			stack[len(stack)-1].s.Elements = append(stack[len(stack)-1].s.Elements, e)
			return
		}
		top = append(top, e)
	}

	for r := run; r != nil; r = r.Parent {
		t := r.Transition
		switch t.Kind {
		case transRef:
			if len(stack) > 0 && stack[len(stack)-1].open == t {
				closed := stack[len(stack)-1].s
				stack = stack[:len(stack)-1]
				reverseElements(closed.Elements)
				push(closed)
				continue
			}
			stack = append(stack, frame{open: t, s: &Structure{Name: t.RefName}})
		case transPrimitive:
			if span.Start == -1 || r.Token.Index < span.Start {
				span.Start = r.Token.Index
			}
			if r.Token.Index > span.End {
				span.End = r.Token.Index
			}
			push(&PatternToken{Prim: t.Prim, Token: *r.Token})
		}
	}
	reverseElements(top)
	return span, &Structure{Name: name, Elements: top}
}

func reverseElements(e []Element) {
	for i, j := 0, len(e)-1; i < j; i, j = i+1, j-1 {
		e[i], e[j] = e[j], e[i]
	}
}

// IsStructure reports whether e is a *Structure named name.
func IsStructure(e Element, name string) bool {
	s, ok := e.(*Structure)
	return ok && s.Name == name
}

// IsPrimitive reports whether e is a *PatternToken matching Primitive p.
func IsPrimitive(e Element, p *Primitive) bool {
	pt, ok := e.(*PatternToken)
	return ok && pt.Prim == p
}
