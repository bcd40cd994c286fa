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
	"fmt"
	"sort"

	"github.com/rackwise/rackwise"
)

// collect materializes panels from the arenas' panel sets, applies the
// explicit sort steps, assigns cable sequence numbers, and computes
// metrics and the input hash. Every ordering guarantee of the artifact
// is imposed here, not by planner insertion order.
func (al *allocator) collect() (*rackwise.Artifact, error) {
	proj := al.project
	slotsPerU := proj.Settings.Panel.SlotsPerU

	panels := make([]rackwise.Panel, 0)
	for _, r := range proj.Racks {
		a := al.arenas[r.ID]
		for u := range a.panelUs {
			canonical := fmt.Sprintf("%s|%d|%d", r.ID, u, slotsPerU)
			panels = append(panels, rackwise.Panel{
				PanelID:   rackwise.StableID(rackwise.IDPrefixPanel, canonical),
				RackID:    r.ID,
				U:         u,
				SlotsPerU: slotsPerU,
			})
		}
	}
	sort.Slice(panels, func(i, j int) bool {
		if panels[i].RackID != panels[j].RackID {
			return rackwise.NaturalLess(panels[i].RackID, panels[j].RackID)
		}
		return panels[i].U < panels[j].U
	})

	modules := al.modules
	if modules == nil {
		modules = make([]rackwise.Module, 0)
	}
	sort.Slice(modules, func(i, j int) bool {
		mi, mj := modules[i], modules[j]
		if mi.RackID != mj.RackID {
			return rackwise.NaturalLess(mi.RackID, mj.RackID)
		}
		if mi.PanelU != mj.PanelU {
			return mi.PanelU < mj.PanelU
		}
		return mi.Slot < mj.Slot
	})

	cables := make([]rackwise.Cable, 0, len(al.cables))
	for _, c := range al.cables {
		cables = append(cables, c)
	}
	sort.Slice(cables, func(i, j int) bool { return cables[i].CableID < cables[j].CableID })
	for i := range cables {
		cables[i].CableSeq = i + 1
	}

	sessions := al.sessions
	if sessions == nil {
		sessions = make([]rackwise.Session, 0)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].SessionID < sessions[j].SessionID })

	hash, err := rackwise.InputHash(proj)
	if err != nil {
		return nil, fmt.Errorf("computing input hash: %w", err)
	}

	warnings := al.warnings
	if warnings == nil {
		warnings = make([]string, 0)
	}
	errs := al.errs
	if errs == nil {
		errs = make([]string, 0)
	}

	return &rackwise.Artifact{
		Project:   proj,
		InputHash: hash,
		Panels:    panels,
		Modules:   modules,
		Cables:    cables,
		Sessions:  sessions,
		Metrics: rackwise.Metrics{
			RackCount:    len(proj.Racks),
			PanelCount:   len(panels),
			ModuleCount:  len(modules),
			CableCount:   len(cables),
			SessionCount: len(sessions),
		},
		Warnings:    warnings,
		Errors:      errs,
		PairDetails: al.pairDetails,
	}, nil
}
