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

package catalog

import "sort"

// PathKey is the lookup key into Paths: an ordered (from, to) table pair.
type PathKey struct {
	From string
	To   string
}

// Paths maps every reachable (from, to) table pair to the sequence of
// tables a forward foreign-key walk visits after From, ending at To. A
// missing key means To isn't reachable from From by following foreign
// keys forward.
type Paths map[PathKey][]string

// computePaths runs one BFS per table over the forward foreign-key graph,
// replacing the original implementation's recursive enumerate-then-
// pick-shortest search. Neighbors are visited in sorted table-name order
// so that, among several equally short paths, the same one is always
// chosen — the original relied on Python dict iteration order for this,
// which CPython happens to preserve but which Go maps don't.
func computePaths(graph Graph, tables []string) Paths {
	paths := make(Paths)
	for _, from := range tables {
		for to, path := range bfsFrom(graph, from) {
			if to == from {
				continue
			}
			paths[PathKey{From: from, To: to}] = path
		}
	}
	return paths
}

func bfsFrom(graph Graph, start string) map[string][]string {
	visited := map[string]bool{start: true}
	result := map[string][]string{start: nil}
	queue := []string{start}

	for len(queue) > 0 {
		table := queue[0]
		queue = queue[1:]

		neighbors := make([]string, 0, len(graph[table]))
		for next := range graph[table] {
			neighbors = append(neighbors, next)
		}
		sort.Strings(neighbors)

		for _, next := range neighbors {
			if visited[next] {
				continue
			}
			visited[next] = true
			path := append(append([]string(nil), result[table]...), next)
			result[next] = path
			queue = append(queue, next)
		}
	}
	return result
}
