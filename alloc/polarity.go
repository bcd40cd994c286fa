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

import "github.com/rackwise/rackwise"

// mpoCores is the number of fiber cores in an MPO-12 trunk.
const mpoCores = 12

// lcPortsPerTrunk is how many LC duplex ports one MPO-12 trunk serves
// on a breakout module.
const lcPortsPerTrunk = 6

// MPOPassThroughCore maps a source core onto the destination core of a
// Type-B pass-through: core k lands on core 13-k.
func MPOPassThroughCore(src int) int {
	return mpoCores + 1 - src
}

// LCFiberPair returns the trunk fiber pair serving local LC port
// k in 1..6: fibers (2k-1, 2k).
func LCFiberPair(local int) (a, b int) {
	return 2*local - 1, 2 * local
}

// ComplementVariant returns the breakout variant of the peer-side
// module. AF and A are a complementary pair; any other variant maps to
// itself.
func ComplementVariant(v rackwise.PolarityVariant) rackwise.PolarityVariant {
	switch v {
	case rackwise.PolarityAF:
		return rackwise.PolarityA
	case rackwise.PolarityA:
		return rackwise.PolarityAF
	}
	return v
}
