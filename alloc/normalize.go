// Copyright 2026 The Rackwise Authors
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

package alloc

import (
	"sort"

	"github.com/rackwise/rackwise"
)

// pair is a canonical rack pair: A <= B under the active peer sort.
type pair struct {
	A, B string
}

// demandIndex is the folded demand list: per canonical pair, the total
// demanded count of each endpoint type, plus the deterministic pair
// iteration order.
type demandIndex struct {
	counts map[pair]map[rackwise.EndpointType]int
	pairs  []pair
}

// normalizeDemands folds the project's demand list. Duplicate demands
// over the same canonical pair and endpoint type are summed.
func normalizeDemands(p *rackwise.Project) *demandIndex {
	strategy := p.Settings.Ordering.PeerSort
	idx := &demandIndex{counts: make(map[pair]map[rackwise.EndpointType]int)}
	for _, d := range p.Demands {
		a, b := strategy.PairKey(d.Src, d.Dst)
		pk := pair{A: a, B: b}
		byType, ok := idx.counts[pk]
		if !ok {
			byType = make(map[rackwise.EndpointType]int)
			idx.counts[pk] = byType
			idx.pairs = append(idx.pairs, pk)
		}
		byType[d.EndpointType] += d.Count
	}
	sort.Slice(idx.pairs, func(i, j int) bool {
		pi, pj := idx.pairs[i], idx.pairs[j]
		if pi.A != pj.A {
			return strategy.Less(pi.A, pj.A)
		}
		return strategy.Less(pi.B, pj.B)
	})
	return idx
}

// count returns the folded demand for one pair and endpoint type.
func (idx *demandIndex) count(pk pair, t rackwise.EndpointType) int {
	return idx.counts[pk][t]
}
