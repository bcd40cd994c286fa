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

// utpPortsPerModule is the port count of one shared UTP module.
const utpPortsPerModule = 6

// utpPort is one reserved RJ45 port on a shared module.
type utpPort struct {
	slot rackwise.SlotRef
	port int
}

// planUTP allocates the utp category. Unlike the fiber planners, UTP
// is peer-aggregating: each rack packs the ports it owes all of its
// peers into shared 6-port modules, peers taken in peer-sort order,
// and the pairing step then patches the k-th reserved port on one side
// of a pair to the k-th on the other.
func (al *allocator) planUTP() {
	// Per-rack, per-peer port counts: each demand contributes to both
	// directed views.
	peerCounts := make(map[string]map[string]int)
	for _, pk := range al.demands.pairs {
		n := al.demands.count(pk, rackwise.EndpointUTPRJ45)
		if n == 0 {
			continue
		}
		for _, side := range [2][2]string{{pk.A, pk.B}, {pk.B, pk.A}} {
			rack, peer := side[0], side[1]
			if peerCounts[rack] == nil {
				peerCounts[rack] = make(map[string]int)
			}
			peerCounts[rack][peer] += n
		}
	}

	racks := make([]string, 0, len(peerCounts))
	for rack := range peerCounts {
		racks = append(racks, rack)
	}
	al.strategy.SortStrings(racks)

	ports := make(map[string]map[string][]utpPort, len(racks))
	for _, rack := range racks {
		peers := make([]string, 0, len(peerCounts[rack]))
		for peer := range peerCounts[rack] {
			peers = append(peers, peer)
		}
		al.strategy.SortStrings(peers)

		ports[rack] = make(map[string][]utpPort, len(peers))
		var current *rackwise.SlotRef
		usedInSlot := 0
	assign:
		for _, peer := range peers {
			for remaining := peerCounts[rack][peer]; remaining > 0; remaining-- {
				if current == nil || usedInSlot == utpPortsPerModule {
					slot, err := al.arenas[rack].reserve()
					if err != nil {
						al.errorf("%s %s: %v", rackwise.CategoryUTP, rack, err)
						break assign
					}
					current = &slot
					usedInSlot = 0
					al.addSharedModule(slot)
				}
				usedInSlot++
				ports[rack][peer] = append(ports[rack][peer], utpPort{slot: *current, port: usedInSlot})
			}
		}
	}

	for _, pk := range al.demands.pairs {
		if al.demands.count(pk, rackwise.EndpointUTPRJ45) == 0 {
			continue
		}
		aPorts := ports[pk.A][pk.B]
		bPorts := ports[pk.B][pk.A]
		if len(aPorts) != len(bPorts) {
			al.warnf("utp: allocation mismatch for pair %s-%s (%d vs %d ports)", pk.A, pk.B, len(aPorts), len(bPorts))
		}
		n := len(aPorts)
		if len(bPorts) < n {
			n = len(bPorts)
		}
		for k := 0; k < n; k++ {
			a, b := aPorts[k], bPorts[k]
			cableID := al.addCable(rackwise.MediaUTPRJ45, a.slot, a.port, b.slot, b.port, nil, nil)
			al.addSession(sessionSpec{
				media:   rackwise.MediaUTPRJ45,
				cableID: cableID,
				adapter: rackwise.ModuleUTP6xRJ45,
				src:     a.slot,
				dst:     b.slot,
				srcPort: a.port,
				dstPort: b.port,
			})
		}
	}
}

// addSharedModule records one shared UTP module. Shared modules have
// no peer and no polarity; their canonical ID is position plus the
// media tag.
func (al *allocator) addSharedModule(slot rackwise.SlotRef) {
	canonical := slot.RackID + "|" + itoa(slot.U) + "|" + itoa(slot.Slot) + "|utp"
	al.modules = append(al.modules, rackwise.Module{
		ModuleID:   rackwise.StableID(rackwise.IDPrefixModule, canonical),
		RackID:     slot.RackID,
		PanelU:     slot.U,
		Slot:       slot.Slot,
		ModuleType: rackwise.ModuleUTP6xRJ45,
		Dedicated:  0,
	})
}
