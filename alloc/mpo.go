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

// planMPO allocates the mpo_e2e category: 12-port pass-through module
// pairs, one trunk per used port, src and dst ports aligned.
//
// Only Type-B pass-through is implemented. The requested variant and
// trunk polarity are normalized to B; a warning records the override
// when the configuration asked for something else.
func (al *allocator) planMPO() {
	cfg := al.project.Settings.FixedProfiles.MPO

	planned := false
	for _, pk := range al.demands.pairs {
		count := al.demands.count(pk, rackwise.EndpointMPO12)
		if count == 0 {
			continue
		}
		if !planned {
			planned = true
			if cfg.PassThroughVariant != rackwise.PolarityB {
				al.warnf("mpo_e2e: pass_through_variant %q is not supported; modules use Type-B", cfg.PassThroughVariant)
			}
			if cfg.TrunkPolarity != rackwise.PolarityB {
				al.warnf("mpo_e2e: trunk_polarity %q is not supported; trunks use Type-B", cfg.TrunkPolarity)
			}
		}

		slotPairs := (count + mpoCores - 1) / mpoCores
		for i := 0; i < slotPairs; i++ {
			slotA, slotB, ok := al.reservePair(rackwise.CategoryMPOE2E, pk)
			if !ok {
				break
			}
			seq := i + 1
			al.addDedicatedModule(slotA, rackwise.ModuleMPO12PassThrough, "mpo", pk.B, seq, nil, rackwise.PolarityB)
			al.addDedicatedModule(slotB, rackwise.ModuleMPO12PassThrough, "mpo", pk.A, seq, nil, rackwise.PolarityB)

			used := count - mpoCores*i
			if used > mpoCores {
				used = mpoCores
			}
			al.addPairDetail(pk, string(rackwise.MediaMPO12), slotA, slotB, used)

			for port := 1; port <= used; port++ {
				cableID := al.addCable(rackwise.MediaMPO12, slotA, port, slotB, port, polarityPtr(rackwise.PolarityB), nil)
				al.addSession(sessionSpec{
					media:   rackwise.MediaMPO12,
					cableID: cableID,
					adapter: rackwise.ModuleMPO12PassThrough,
					src:     slotA,
					dst:     slotB,
					srcPort: port,
					dstPort: port,
					srcCore: intPtr(port),
					dstCore: intPtr(MPOPassThroughCore(port)),
				})
			}
		}
	}
}

// addDedicatedModule records one dedicated module. The canonical ID
// string carries the rack-local position, a media tag, the peer rack,
// and the 1-based sequence of the slot pair within the (pair, media)
// allocation.
func (al *allocator) addDedicatedModule(slot rackwise.SlotRef, moduleType rackwise.ModuleType, mediaTag, peer string, seq int, fiber *rackwise.FiberKind, variant rackwise.PolarityVariant) {
	canonical := slot.RackID + "|" + itoa(slot.U) + "|" + itoa(slot.Slot) + "|" + mediaTag + "|" + peer + "|" + itoa(seq)
	al.modules = append(al.modules, rackwise.Module{
		ModuleID:        rackwise.StableID(rackwise.IDPrefixModule, canonical),
		RackID:          slot.RackID,
		PanelU:          slot.U,
		Slot:            slot.Slot,
		ModuleType:      moduleType,
		FiberKind:       fiber,
		PolarityVariant: polarityPtr(variant),
		PeerRackID:      strPtr(peer),
		Dedicated:       1,
	})
}
