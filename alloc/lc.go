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

// planLC allocates one LC breakout category (lc_mmf or lc_smf): pairs
// of 12-port breakout modules fed by two MPO-12 trunks each. LC ports
// 1..6 ride trunk 1, ports 7..12 ride trunk 2; LC port p uses the
// fiber pair (2k-1, 2k) with k = ((p-1) mod 6)+1.
//
// The configured breakout variant goes on the canonical-pair A side;
// the peer side gets the complementary variant (AF <-> A).
func (al *allocator) planLC(endpoint rackwise.EndpointType, fiber rackwise.FiberKind) {
	cfg := al.project.Settings.FixedProfiles.LC
	media := rackwise.Media(endpoint)
	variantA := cfg.BreakoutVariant
	variantB := ComplementVariant(variantA)
	category := rackwise.CategoryLCMMF
	if fiber == rackwise.FiberSMF {
		category = rackwise.CategoryLCSMF
	}

	for _, pk := range al.demands.pairs {
		count := al.demands.count(pk, endpoint)
		if count == 0 {
			continue
		}
		slotPairs := (count + mpoCores - 1) / mpoCores
		for i := 0; i < slotPairs; i++ {
			slotA, slotB, ok := al.reservePair(category, pk)
			if !ok {
				break
			}
			seq := i + 1
			al.addDedicatedModule(slotA, rackwise.ModuleLCBreakout, string(endpoint), pk.B, seq, fiberPtr(fiber), variantA)
			al.addDedicatedModule(slotB, rackwise.ModuleLCBreakout, string(endpoint), pk.A, seq, fiberPtr(fiber), variantB)

			used := count - mpoCores*i
			if used > mpoCores {
				used = mpoCores
			}
			al.addPairDetail(pk, string(endpoint), slotA, slotB, used)

			// Both trunks exist as soon as the slot pair does, even
			// when only the first is carrying sessions.
			trunkByMPO := [2]string{}
			for mpoPort := 1; mpoPort <= 2; mpoPort++ {
				trunkByMPO[mpoPort-1] = al.addCable(media, slotA, mpoPort, slotB, mpoPort,
					polarityPtr(cfg.TrunkPolarity), fiberPtr(fiber))
			}

			for lcPort := 1; lcPort <= used; lcPort++ {
				mpoPort := 1
				if lcPort > lcPortsPerTrunk {
					mpoPort = 2
				}
				local := (lcPort-1)%lcPortsPerTrunk + 1
				fiberA, fiberB := LCFiberPair(local)
				al.addSession(sessionSpec{
					media:   media,
					cableID: trunkByMPO[mpoPort-1],
					adapter: rackwise.ModuleLCBreakout,
					src:     slotA,
					dst:     slotB,
					srcPort: lcPort,
					dstPort: lcPort,
					fiberA:  intPtr(fiberA),
					fiberB:  intPtr(fiberB),
				})
			}
		}
	}
}
