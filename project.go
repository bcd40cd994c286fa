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
	"fmt"
	"strings"
)

// Project is the top of a patching project description. It is the
// validated input to the allocator: a set of racks, an unordered list
// of inter-rack connectivity demands, and the settings that govern
// packing and ordering. Only version 1 documents are supported.
type Project struct {
	Version  int         `json:"version"`
	Meta     ProjectMeta `json:"project"`
	Racks    []Rack      `json:"racks"`
	Demands  []Demand    `json:"demands"`
	Settings Settings    `json:"settings"`
}

// ProjectMeta carries the human-facing name and an optional note.
type ProjectMeta struct {
	Name string `json:"name"`
	Note string `json:"note,omitempty"`
}

// Rack describes one rack. ID is the caller-supplied identity used in
// demands, labels, and physical diff keys; MaxU bounds how many
// U-positions the allocator may fill (default 42).
type Rack struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	MaxU int    `json:"max_u,omitempty"`
}

// Demand asks for Count connections of one endpoint type between two
// distinct racks. The pair is unordered; the allocator canonicalizes
// it under the configured peer sort.
type Demand struct {
	ID           string       `json:"id"`
	Src          string       `json:"src"`
	Dst          string       `json:"dst"`
	EndpointType EndpointType `json:"endpoint_type"`
	Count        int          `json:"count"`
}

// Settings groups the fixed media profiles, the ordering discipline,
// and the panel geometry.
type Settings struct {
	FixedProfiles FixedProfiles `json:"fixed_profiles"`
	Ordering      Ordering      `json:"ordering"`
	Panel         PanelSettings `json:"panel"`
}

// FixedProfiles are the per-media wiring profiles.
type FixedProfiles struct {
	LC  LCProfile  `json:"lc"`
	MPO MPOProfile `json:"mpo_e2e"`
}

// LCProfile configures the LC-over-MPO breakout media: the polarity of
// the trunk cables (default A) and the breakout variant assigned to
// the canonical-pair A side (default AF; the peer side always gets the
// complementary variant).
type LCProfile struct {
	TrunkPolarity   PolarityVariant `json:"trunk_polarity,omitempty"`
	BreakoutVariant PolarityVariant `json:"breakout_variant,omitempty"`
}

// MPOProfile configures the MPO end-to-end media. Only Type-B
// pass-through is implemented; requesting any other trunk polarity or
// pass-through variant is normalized back to B with a warning.
type MPOProfile struct {
	TrunkPolarity      PolarityVariant `json:"trunk_polarity,omitempty"`
	PassThroughVariant PolarityVariant `json:"pass_through_variant,omitempty"`
}

// Ordering controls the two orderings that shape the whole design:
// which slot categories are planned first, and how rack pairs and UTP
// peers are sorted.
//
// A nil SlotCategoryPriority means the default order. An explicitly
// empty list is honored as-is: no category is planned at all, because
// omitting a category from the list skips its allocation entirely.
type Ordering struct {
	SlotCategoryPriority []SlotCategory `json:"slot_category_priority,omitempty"`
	PeerSort             PeerSort       `json:"peer_sort,omitempty"`
}

// PanelSettings is the rack-side panel geometry: how many slots a 1U
// panel holds (default 4), whether panels fill top-down from U1 or
// bottom-up from max_u, and how U positions are labeled in renderings.
type PanelSettings struct {
	SlotsPerU           int                 `json:"slots_per_u,omitempty"`
	AllocationDirection AllocationDirection `json:"allocation_direction,omitempty"`
	ULabelMode          ULabelMode          `json:"u_label_mode,omitempty"`
}

// EndpointType identifies the physical medium a demand asks for.
type EndpointType string

// The supported endpoint types.
const (
	EndpointMMFLCDuplex EndpointType = "mmf_lc_duplex"
	EndpointSMFLCDuplex EndpointType = "smf_lc_duplex"
	EndpointMPO12       EndpointType = "mpo12"
	EndpointUTPRJ45     EndpointType = "utp_rj45"
)

func (t EndpointType) valid() bool {
	switch t {
	case EndpointMMFLCDuplex, EndpointSMFLCDuplex, EndpointMPO12, EndpointUTPRJ45:
		return true
	}
	return false
}

// SlotCategory names one planner in the slot-category priority list.
type SlotCategory string

// The slot categories, in their default priority order.
const (
	CategoryMPOE2E SlotCategory = "mpo_e2e"
	CategoryLCMMF  SlotCategory = "lc_mmf"
	CategoryLCSMF  SlotCategory = "lc_smf"
	CategoryUTP    SlotCategory = "utp"
)

func (c SlotCategory) valid() bool {
	switch c {
	case CategoryMPOE2E, CategoryLCMMF, CategoryLCSMF, CategoryUTP:
		return true
	}
	return false
}

// DefaultSlotCategoryPriority returns the default planner order.
func DefaultSlotCategoryPriority() []SlotCategory {
	return []SlotCategory{CategoryMPOE2E, CategoryLCMMF, CategoryLCSMF, CategoryUTP}
}

// PeerSort selects the comparison key used for canonical pairs, pair
// iteration order, and UTP peer order within a rack.
type PeerSort string

// The peer-sort strategies.
const (
	PeerSortNatural       PeerSort = "natural_trailing_digits"
	PeerSortLexicographic PeerSort = "lexicographic"
)

// AllocationDirection says whether panels fill from U1 toward max_u
// (top_down) or from max_u toward U1 (bottom_up).
type AllocationDirection string

// The allocation directions.
const (
	DirectionTopDown  AllocationDirection = "top_down"
	DirectionBottomUp AllocationDirection = "bottom_up"
)

// ULabelMode controls U labeling in renderings; it has no effect on
// allocation.
type ULabelMode string

// The U-label modes.
const (
	ULabelAscending  ULabelMode = "ascending"
	ULabelDescending ULabelMode = "descending"
)

// PolarityVariant is a module or trunk polarity type (A, AF, or B).
type PolarityVariant string

// The polarity variants.
const (
	PolarityA  PolarityVariant = "A"
	PolarityAF PolarityVariant = "AF"
	PolarityB  PolarityVariant = "B"
)

// NormalizePolarityVariant maps the spellings that appear in the wild
// ("Type-B", "type_af", "b") onto the canonical variant names. Unknown
// spellings are returned unchanged so validation can name them.
func NormalizePolarityVariant(v PolarityVariant) PolarityVariant {
	var b strings.Builder
	for _, r := range strings.ToUpper(string(v)) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	switch b.String() {
	case "TYPEA", "A":
		return PolarityA
	case "TYPEAF", "AF":
		return PolarityAF
	case "TYPEB", "B":
		return PolarityB
	}
	return v
}

// FiberKind distinguishes multi-mode from single-mode fiber.
type FiberKind string

// The fiber kinds.
const (
	FiberMMF FiberKind = "mmf"
	FiberSMF FiberKind = "smf"
)

// DefaultMaxU is the rack height assumed when a rack does not specify
// one.
const DefaultMaxU = 42

// DefaultSlotsPerU is the panel slot count assumed when the panel
// settings do not specify one.
const DefaultSlotsPerU = 4

// Normalize fills in defaults and canonicalizes polarity spellings in
// place. It is idempotent, and it is the form of the project that the
// artifact echoes and the input hash commits to.
func (p *Project) Normalize() {
	for i := range p.Racks {
		if p.Racks[i].MaxU == 0 {
			p.Racks[i].MaxU = DefaultMaxU
		}
	}
	s := &p.Settings
	if s.Panel.SlotsPerU == 0 {
		s.Panel.SlotsPerU = DefaultSlotsPerU
	}
	if s.Panel.AllocationDirection == "" {
		s.Panel.AllocationDirection = DirectionTopDown
	}
	if s.Panel.ULabelMode == "" {
		s.Panel.ULabelMode = ULabelAscending
	}
	if s.Ordering.PeerSort == "" {
		s.Ordering.PeerSort = PeerSortNatural
	}
	if s.Ordering.SlotCategoryPriority == nil {
		s.Ordering.SlotCategoryPriority = DefaultSlotCategoryPriority()
	}
	if s.FixedProfiles.LC.TrunkPolarity == "" {
		s.FixedProfiles.LC.TrunkPolarity = PolarityA
	}
	if s.FixedProfiles.LC.BreakoutVariant == "" {
		s.FixedProfiles.LC.BreakoutVariant = PolarityAF
	}
	if s.FixedProfiles.MPO.TrunkPolarity == "" {
		s.FixedProfiles.MPO.TrunkPolarity = PolarityB
	}
	if s.FixedProfiles.MPO.PassThroughVariant == "" {
		s.FixedProfiles.MPO.PassThroughVariant = PolarityB
	}
	s.FixedProfiles.LC.TrunkPolarity = NormalizePolarityVariant(s.FixedProfiles.LC.TrunkPolarity)
	s.FixedProfiles.LC.BreakoutVariant = NormalizePolarityVariant(s.FixedProfiles.LC.BreakoutVariant)
	s.FixedProfiles.MPO.TrunkPolarity = NormalizePolarityVariant(s.FixedProfiles.MPO.TrunkPolarity)
	s.FixedProfiles.MPO.PassThroughVariant = NormalizePolarityVariant(s.FixedProfiles.MPO.PassThroughVariant)
}

// Validate checks the cross-field constraints the allocator relies on.
// It does not mutate the project; call Normalize first. The returned
// error is fatal in the sense of the error-handling contract: a
// project that fails validation must not reach the allocator.
func (p *Project) Validate() error {
	if p.Version != 1 {
		return fmt.Errorf("unsupported project version %d (want 1)", p.Version)
	}
	if len(p.Racks) == 0 {
		return fmt.Errorf("project has no racks")
	}

	rackIDs := make(map[string]struct{}, len(p.Racks))
	for _, r := range p.Racks {
		if r.ID == "" {
			return fmt.Errorf("rack with empty id")
		}
		if _, dup := rackIDs[r.ID]; dup {
			return fmt.Errorf("rack ids must be unique: %q", r.ID)
		}
		rackIDs[r.ID] = struct{}{}
		if r.MaxU < 1 {
			return fmt.Errorf("rack %s: max_u must be positive, got %d", r.ID, r.MaxU)
		}
	}

	demandIDs := make(map[string]struct{}, len(p.Demands))
	for _, d := range p.Demands {
		if d.ID == "" {
			return fmt.Errorf("demand with empty id")
		}
		if _, dup := demandIDs[d.ID]; dup {
			return fmt.Errorf("demand ids must be unique: %q", d.ID)
		}
		demandIDs[d.ID] = struct{}{}
		if _, ok := rackIDs[d.Src]; !ok {
			return fmt.Errorf("demand %s: unknown src rack %q", d.ID, d.Src)
		}
		if _, ok := rackIDs[d.Dst]; !ok {
			return fmt.Errorf("demand %s: unknown dst rack %q", d.ID, d.Dst)
		}
		if d.Src == d.Dst {
			return fmt.Errorf("demand %s: src and dst are the same rack %q", d.ID, d.Src)
		}
		if !d.EndpointType.valid() {
			return fmt.Errorf("demand %s: unsupported endpoint_type %q", d.ID, d.EndpointType)
		}
		if d.Count < 1 {
			return fmt.Errorf("demand %s: count must be positive, got %d", d.ID, d.Count)
		}
	}

	s := p.Settings
	switch s.Panel.AllocationDirection {
	case DirectionTopDown, DirectionBottomUp:
	default:
		return fmt.Errorf("unsupported allocation_direction %q", s.Panel.AllocationDirection)
	}
	switch s.Panel.ULabelMode {
	case ULabelAscending, ULabelDescending:
	default:
		return fmt.Errorf("unsupported u_label_mode %q", s.Panel.ULabelMode)
	}
	if s.Panel.SlotsPerU < 1 {
		return fmt.Errorf("slots_per_u must be positive, got %d", s.Panel.SlotsPerU)
	}
	switch s.Ordering.PeerSort {
	case PeerSortNatural, PeerSortLexicographic:
	default:
		return fmt.Errorf("unsupported peer_sort strategy %q", s.Ordering.PeerSort)
	}
	seenCat := make(map[SlotCategory]struct{}, len(s.Ordering.SlotCategoryPriority))
	for _, c := range s.Ordering.SlotCategoryPriority {
		if !c.valid() {
			return fmt.Errorf("unknown slot_category_priority entries: %q", c)
		}
		if _, dup := seenCat[c]; dup {
			return fmt.Errorf("duplicate slot_category_priority entry %q", c)
		}
		seenCat[c] = struct{}{}
	}
	for _, v := range []PolarityVariant{
		s.FixedProfiles.LC.TrunkPolarity,
		s.FixedProfiles.LC.BreakoutVariant,
		s.FixedProfiles.MPO.TrunkPolarity,
		s.FixedProfiles.MPO.PassThroughVariant,
	} {
		switch v {
		case PolarityA, PolarityAF, PolarityB:
		default:
			return fmt.Errorf("unsupported polarity variant %q", v)
		}
	}
	return nil
}

// Clone returns a deep copy of the project. The allocator normalizes
// its own copy so the caller's value is never mutated.
func (p *Project) Clone() *Project {
	clone := *p
	clone.Racks = append([]Rack(nil), p.Racks...)
	clone.Demands = append([]Demand(nil), p.Demands...)
	if p.Settings.Ordering.SlotCategoryPriority != nil {
		clone.Settings.Ordering.SlotCategoryPriority =
			append([]SlotCategory{}, p.Settings.Ordering.SlotCategoryPriority...)
	}
	return &clone
}

// RackByID returns the rack with the given ID, or nil.
func (p *Project) RackByID(id string) *Rack {
	for i := range p.Racks {
		if p.Racks[i].ID == id {
			return &p.Racks[i]
		}
	}
	return nil
}
