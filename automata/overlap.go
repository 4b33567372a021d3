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
	"sort"

	"github.com/mitchellh/hashstructure"
)

// Capture pairs a reconstructed Structure with the Pattern name that
// produced it and the token span it covers. A single Feed/Finish pass over
// several top-level Patterns (selectExpr, whereExpr, ...) produces one
// Capture per surviving Run of each; Resolve is what turns that raw,
// possibly-overlapping pile into the disjoint set a Structure parser can
// walk left to right.
type Capture struct {
	Pattern   string
	Span      Span
	Structure *Structure
}

// Resolve kills overlapping Captures so only non-overlapping ones survive:
// a longer span always wins over one it overlaps; equal-length overlapping
// spans are deduplicated if structurally identical, and otherwise broken by
// a deterministic (but arbitrary) ordering so the result never depends on
// slice iteration order. Survivors are returned in ascending Span.Start
// order.
//
// Structural identity is computed with a content hash instead of the
// original implementation's debug-string comparison, so two Structures
// that parse the same but were built from different Run chains still
// compare equal. Primitives are hashed by Name only.
func Resolve(captures []Capture) []Capture {
	alive := make([]bool, len(captures))
	hashes := make([]uint64, len(captures))
	for i := range captures {
		alive[i] = true
		h, err := hashstructure.Hash(captures[i].Structure, nil)
		if err != nil {
			panic("automata: unhashable structure: " + err.Error())
		}
		hashes[i] = h
	}

	for i := 0; i < len(captures); i++ {
		if !alive[i] {
			continue
		}
		for j := i + 1; j < len(captures); j++ {
			if !alive[j] || !spansOverlap(captures[i].Span, captures[j].Span) {
				continue
			}
			li, lj := spanLength(captures[i].Span), spanLength(captures[j].Span)
			switch {
			case li > lj:
				alive[j] = false
			case lj > li:
				alive[i] = false
			case hashes[i] == hashes[j]:
				alive[j] = false
			case hashes[i] < hashes[j]:
				alive[j] = false
			default:
				alive[i] = false
			}
			if !alive[i] {
				break
			}
		}
	}

	result := make([]Capture, 0, len(captures))
	for i, ok := range alive {
		if ok {
			result = append(result, captures[i])
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Span.Start < result[j].Span.Start })
	return result
}

func spansOverlap(a, b Span) bool {
	return a.Start <= b.End && b.Start <= a.End
}

func spanLength(s Span) int {
	return s.End - s.Start
}
