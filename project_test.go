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

package rackwise

import (
	"strings"
	"testing"
)

func validProject() *Project {
	p := &Project{
		Version: 1,
		Meta:    ProjectMeta{Name: "valid"},
		Racks: []Rack{
			{ID: "R1", Name: "rack one"},
			{ID: "R2", Name: "rack two"},
		},
		Demands: []Demand{
			{ID: "D1", Src: "R1", Dst: "R2", EndpointType: EndpointUTPRJ45, Count: 1},
		},
	}
	p.Normalize()
	return p
}

func TestNormalizeDefaults(t *testing.T) {
	p := validProject()
	if p.Racks[0].MaxU != 42 {
		t.Errorf("max_u default = %d, want 42", p.Racks[0].MaxU)
	}
	if p.Settings.Panel.SlotsPerU != 4 {
		t.Errorf("slots_per_u default = %d, want 4", p.Settings.Panel.SlotsPerU)
	}
	if p.Settings.Panel.AllocationDirection != DirectionTopDown {
		t.Errorf("allocation_direction default = %q", p.Settings.Panel.AllocationDirection)
	}
	if p.Settings.Ordering.PeerSort != PeerSortNatural {
		t.Errorf("peer_sort default = %q", p.Settings.Ordering.PeerSort)
	}
	want := []SlotCategory{CategoryMPOE2E, CategoryLCMMF, CategoryLCSMF, CategoryUTP}
	got := p.Settings.Ordering.SlotCategoryPriority
	if len(got) != len(want) {
		t.Fatalf("priority default = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("priority[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if p.Settings.FixedProfiles.LC.TrunkPolarity != PolarityA {
		t.Errorf("lc trunk_polarity default = %q", p.Settings.FixedProfiles.LC.TrunkPolarity)
	}
	if p.Settings.FixedProfiles.MPO.PassThroughVariant != PolarityB {
		t.Errorf("mpo pass_through_variant default = %q", p.Settings.FixedProfiles.MPO.PassThroughVariant)
	}
}

func TestNormalizePolarityVariantSpellings(t *testing.T) {
	for i, tc := range []struct {
		in, want PolarityVariant
	}{
		{"Type-B", PolarityB},
		{"type_af", PolarityAF},
		{"a", PolarityA},
		{"AF", PolarityAF},
		{"TYPEB", PolarityB},
		{"bogus", "bogus"},
	} {
		if got := NormalizePolarityVariant(tc.in); got != tc.want {
			t.Errorf("test %d: NormalizePolarityVariant(%q) = %q, want %q", i, tc.in, got, tc.want)
		}
	}
}

func TestNormalizeKeepsEmptyPriority(t *testing.T) {
	p := validProject()
	p.Settings.Ordering.SlotCategoryPriority = []SlotCategory{}
	p.Normalize()
	if len(p.Settings.Ordering.SlotCategoryPriority) != 0 {
		t.Error("explicitly empty priority list was replaced with the default")
	}
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name    string
		mutate  func(*Project)
		wantErr string
	}{
		{"valid", func(p *Project) {}, ""},
		{"bad version", func(p *Project) { p.Version = 2 }, "unsupported project version"},
		{"no racks", func(p *Project) { p.Racks = nil }, "no racks"},
		{"duplicate rack id", func(p *Project) {
			p.Racks = append(p.Racks, Rack{ID: "R1", Name: "dup", MaxU: 42})
		}, "rack ids must be unique"},
		{"bad max_u", func(p *Project) { p.Racks[0].MaxU = -1 }, "max_u must be positive"},
		{"duplicate demand id", func(p *Project) {
			p.Demands = append(p.Demands, Demand{ID: "D1", Src: "R2", Dst: "R1", EndpointType: EndpointMPO12, Count: 1})
		}, "demand ids must be unique"},
		{"unknown src", func(p *Project) { p.Demands[0].Src = "R99" }, "unknown src rack"},
		{"unknown dst", func(p *Project) { p.Demands[0].Dst = "R99" }, "unknown dst rack"},
		{"self loop", func(p *Project) { p.Demands[0].Dst = "R1" }, "same rack"},
		{"bad endpoint", func(p *Project) { p.Demands[0].EndpointType = "coax" }, "unsupported endpoint_type"},
		{"bad count", func(p *Project) { p.Demands[0].Count = 0 }, "count must be positive"},
		{"bad direction", func(p *Project) { p.Settings.Panel.AllocationDirection = "sideways" }, "unsupported allocation_direction"},
		{"bad peer sort", func(p *Project) { p.Settings.Ordering.PeerSort = "alphabetical" }, "unsupported peer_sort strategy"},
		{"unknown category", func(p *Project) {
			p.Settings.Ordering.SlotCategoryPriority = []SlotCategory{CategoryMPOE2E, "bad_category"}
		}, "unknown slot_category_priority entries"},
		{"duplicate category", func(p *Project) {
			p.Settings.Ordering.SlotCategoryPriority = []SlotCategory{CategoryUTP, CategoryUTP}
		}, "duplicate slot_category_priority"},
		{"bad polarity", func(p *Project) { p.Settings.FixedProfiles.LC.TrunkPolarity = "Z" }, "unsupported polarity variant"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := validProject()
			tc.mutate(p)
			err := p.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not contain %q", err, tc.wantErr)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := validProject()
	clone := p.Clone()
	clone.Racks[0].ID = "mutated"
	clone.Demands[0].Count = 99
	clone.Settings.Ordering.SlotCategoryPriority[0] = CategoryUTP
	if p.Racks[0].ID == "mutated" || p.Demands[0].Count == 99 {
		t.Error("Clone shares backing arrays with the original")
	}
	if p.Settings.Ordering.SlotCategoryPriority[0] == CategoryUTP {
		t.Error("Clone shares the priority list with the original")
	}
}
