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

// Media identifies the medium a session is carried over. The values
// are the same snake-case tags as the endpoint types they serve.
type Media string

// The session media.
const (
	MediaMPO12       Media = "mpo12"
	MediaMMFLCDuplex Media = "mmf_lc_duplex"
	MediaSMFLCDuplex Media = "smf_lc_duplex"
	MediaUTPRJ45     Media = "utp_rj45"
)

// ModuleType identifies what sits in a panel slot.
type ModuleType string

// The module types.
const (
	ModuleMPO12PassThrough ModuleType = "mpo12_pass_through_12port"
	ModuleLCBreakout       ModuleType = "lc_breakout_2xmpo12_to_12xlcduplex"
	ModuleUTP6xRJ45        ModuleType = "utp_6xrj45"
)

// CableType identifies the physical cable class of a trunk.
type CableType string

// The cable types.
const (
	CableMPO12Trunk CableType = "mpo12_trunk"
	CableUTP        CableType = "utp_cable"
)

// Face is the panel face an endpoint sits on. All generated endpoints
// are on the front face.
const FaceFront = "front"

// SlotRef locates one reserved slot: a rack, a U position, and a slot
// within that U's panel.
type SlotRef struct {
	RackID string `json:"rack_id"`
	U      int    `json:"u"`
	Slot   int    `json:"slot"`
}

// Panel is a 1U enclosure materialized from the arena's panel set.
type Panel struct {
	PanelID   string `json:"panel_id"`
	RackID    string `json:"rack_id"`
	U         int    `json:"u"`
	SlotsPerU int    `json:"slots_per_u"`
}

// Module is one module occupying one slot. Dedicated modules (MPO
// pass-through, LC breakout) serve exactly one peer rack and carry it
// in PeerRackID; shared modules (UTP) serve many peers and leave it
// nil. Dedicated is 0 or 1 for wire compatibility.
type Module struct {
	ModuleID        string           `json:"module_id"`
	RackID          string           `json:"rack_id"`
	PanelU          int              `json:"panel_u"`
	Slot            int              `json:"slot"`
	ModuleType      ModuleType       `json:"module_type"`
	FiberKind       *FiberKind       `json:"fiber_kind"`
	PolarityVariant *PolarityVariant `json:"polarity_variant"`
	PeerRackID      *string          `json:"peer_rack_id"`
	Dedicated       int              `json:"dedicated"`
}

// Cable is one physical trunk between two modules. CableSeq is the
// dense 1..N numbering assigned after sorting cables by ID; it exists
// for field labels only and is not part of the cable's identity.
type Cable struct {
	CableID      string           `json:"cable_id"`
	CableType    CableType        `json:"cable_type"`
	FiberKind    *FiberKind       `json:"fiber_kind"`
	PolarityType *PolarityVariant `json:"polarity_type"`
	CableSeq     int              `json:"cable_seq"`
}

// Session is one end-to-end logical connection: a port on a module on
// one rack patched to a port on a module on the other rack, possibly
// over one fiber pair of a shared trunk.
type Session struct {
	SessionID   string     `json:"session_id"`
	Media       Media      `json:"media"`
	CableID     string     `json:"cable_id"`
	AdapterType ModuleType `json:"adapter_type"`
	LabelA      string     `json:"label_a"`
	LabelB      string     `json:"label_b"`
	SrcRack     string     `json:"src_rack"`
	SrcFace     string     `json:"src_face"`
	SrcU        int        `json:"src_u"`
	SrcSlot     int        `json:"src_slot"`
	SrcPort     int        `json:"src_port"`
	DstRack     string     `json:"dst_rack"`
	DstFace     string     `json:"dst_face"`
	DstU        int        `json:"dst_u"`
	DstSlot     int        `json:"dst_slot"`
	DstPort     int        `json:"dst_port"`
	SrcCore     *int       `json:"src_core"`
	DstCore     *int       `json:"dst_core"`
	FiberA      *int       `json:"fiber_a"`
	FiberB      *int       `json:"fiber_b"`
	Notes       string     `json:"notes"`
}

// Metrics are the simple aggregate counts of an artifact.
type Metrics struct {
	RackCount    int `json:"rack_count"`
	PanelCount   int `json:"panel_count"`
	ModuleCount  int `json:"module_count"`
	CableCount   int `json:"cable_count"`
	SessionCount int `json:"session_count"`
}

// PairDetail is one per-pair diagnostic record: which slot pair a
// planning step consumed and how many ports it used. Type is the
// demand's endpoint tag ("mpo12", "mmf_lc_duplex", ...).
type PairDetail struct {
	Type  string  `json:"type"`
	SlotA SlotRef `json:"slot_a"`
	SlotB SlotRef `json:"slot_b"`
	Used  int     `json:"used"`
}

// Artifact is the complete design produced from one validated project.
// It is deterministic: the same normalized project yields a
// byte-identical artifact. A non-empty Errors slice signals partial
// success (some capacity overflowed); the artifact is still usable.
type Artifact struct {
	Project     *Project                `json:"project"`
	InputHash   string                  `json:"input_hash"`
	Panels      []Panel                 `json:"panels"`
	Modules     []Module                `json:"modules"`
	Cables      []Cable                 `json:"cables"`
	Sessions    []Session               `json:"sessions"`
	Metrics     Metrics                 `json:"metrics"`
	Warnings    []string                `json:"warnings"`
	Errors      []string                `json:"errors"`
	PairDetails map[string][]PairDetail `json:"pair_details"`
}

// PairDetailKey returns the key the pair-details index uses for a
// canonical pair.
func PairDetailKey(a, b string) string { return a + "__" + b }
