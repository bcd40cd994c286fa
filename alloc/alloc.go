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

// Package alloc implements the allocation engine: the pure function
// from a validated project to a design artifact. One slot arena per
// rack hands out (U, slot) positions; one planner per slot category
// turns demands into modules, trunk cables, and sessions; a final
// collection pass materializes panels and applies the explicit sort
// steps that make the artifact deterministic.
//
// Allocate never fails on capacity: rack overflows are recorded in the
// artifact's errors and planning continues with the next pair or
// category. Only a structurally invalid project is a fatal error.
package alloc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rackwise/rackwise"
)

// Allocate computes the design artifact for a project. The input is
// deep-copied and normalized first, so the caller's value is not
// mutated; a project that fails validation returns a nil artifact and
// the validation error.
func Allocate(p *rackwise.Project) (*rackwise.Artifact, error) {
	proj := p.Clone()
	proj.Normalize()
	if err := proj.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project: %w", err)
	}

	al := &allocator{
		project:     proj,
		strategy:    proj.Settings.Ordering.PeerSort,
		arenas:      make(map[string]*arena, len(proj.Racks)),
		cables:      make(map[string]rackwise.Cable),
		pairDetails: make(map[string][]rackwise.PairDetail),
	}
	for _, r := range proj.Racks {
		al.arenas[r.ID] = newArena(r, proj.Settings.Panel)
	}
	al.demands = normalizeDemands(proj)

	for _, category := range proj.Settings.Ordering.SlotCategoryPriority {
		switch category {
		case rackwise.CategoryMPOE2E:
			al.planMPO()
		case rackwise.CategoryLCMMF:
			al.planLC(rackwise.EndpointMMFLCDuplex, rackwise.FiberMMF)
		case rackwise.CategoryLCSMF:
			al.planLC(rackwise.EndpointSMFLCDuplex, rackwise.FiberSMF)
		case rackwise.CategoryUTP:
			al.planUTP()
		}
	}

	return al.collect()
}

// allocator accumulates the design while the planners run. All slices
// are append-only; ordering is imposed afterwards by collect.
type allocator struct {
	project  *rackwise.Project
	strategy rackwise.PeerSort
	demands  *demandIndex
	arenas   map[string]*arena

	modules     []rackwise.Module
	cables      map[string]rackwise.Cable
	sessions    []rackwise.Session
	warnings    []string
	errs        []string
	pairDetails map[string][]rackwise.PairDetail
}

func (al *allocator) warnf(format string, args ...any) {
	al.warnings = append(al.warnings, fmt.Sprintf(format, args...))
}

func (al *allocator) errorf(format string, args ...any) {
	al.errs = append(al.errs, fmt.Sprintf(format, args...))
}

// reservePair claims one slot on each side of a pair in lock-step.
// Reservations are not undoable, so a failure on either side leaves
// any sibling reservation in place; the caller stops planning the
// pair.
func (al *allocator) reservePair(category rackwise.SlotCategory, pk pair) (slotA, slotB rackwise.SlotRef, ok bool) {
	slotA, err := al.arenas[pk.A].reserve()
	if err != nil {
		al.errorf("%s %s-%s: %v", category, pk.A, pk.B, err)
		return rackwise.SlotRef{}, rackwise.SlotRef{}, false
	}
	slotB, err = al.arenas[pk.B].reserve()
	if err != nil {
		al.errorf("%s %s-%s: %v", category, pk.A, pk.B, err)
		return rackwise.SlotRef{}, rackwise.SlotRef{}, false
	}
	return slotA, slotB, true
}

// addCable records a trunk cable, deduplicating by ID, and returns the
// cable ID. The sequence number is assigned later by collect.
func (al *allocator) addCable(media rackwise.Media, src rackwise.SlotRef, srcPort int, dst rackwise.SlotRef, dstPort int, polarity *rackwise.PolarityVariant, fiber *rackwise.FiberKind) string {
	cableType := rackwise.CableMPO12Trunk
	if media == rackwise.MediaUTPRJ45 {
		cableType = rackwise.CableUTP
	}
	pol := ""
	if polarity != nil {
		pol = string(*polarity)
	}
	canonical := fmt.Sprintf("%s|%s|%d|%d|%d|%s|%d|%d|%d|%s",
		media, src.RackID, src.U, src.Slot, srcPort,
		dst.RackID, dst.U, dst.Slot, dstPort, pol)
	id := rackwise.StableID(rackwise.IDPrefixCable, canonical)
	if _, exists := al.cables[id]; !exists {
		al.cables[id] = rackwise.Cable{
			CableID:      id,
			CableType:    cableType,
			FiberKind:    fiber,
			PolarityType: polarity,
		}
	}
	return id
}

// sessionSpec carries everything that identifies one session. The
// session ID is derived from it.
type sessionSpec struct {
	media            rackwise.Media
	cableID          string
	adapter          rackwise.ModuleType
	src, dst         rackwise.SlotRef
	srcPort, dstPort int
	srcCore, dstCore *int
	fiberA, fiberB   *int
}

func (al *allocator) addSession(s sessionSpec) {
	parts := []string{
		string(s.media),
		s.src.RackID, itoa(s.src.U), itoa(s.src.Slot), itoa(s.srcPort),
		s.dst.RackID, itoa(s.dst.U), itoa(s.dst.Slot), itoa(s.dstPort),
		s.cableID,
		optPair(s.fiberA, s.fiberB),
		optPair(s.srcCore, s.dstCore),
	}
	id := rackwise.StableID(rackwise.IDPrefixSession, strings.Join(parts, "|"))
	al.sessions = append(al.sessions, rackwise.Session{
		SessionID:   id,
		Media:       s.media,
		CableID:     s.cableID,
		AdapterType: s.adapter,
		LabelA:      rackwise.PortLabel(s.src.RackID, s.src.U, s.src.Slot, s.srcPort),
		LabelB:      rackwise.PortLabel(s.dst.RackID, s.dst.U, s.dst.Slot, s.dstPort),
		SrcRack:     s.src.RackID,
		SrcFace:     rackwise.FaceFront,
		SrcU:        s.src.U,
		SrcSlot:     s.src.Slot,
		SrcPort:     s.srcPort,
		DstRack:     s.dst.RackID,
		DstFace:     rackwise.FaceFront,
		DstU:        s.dst.U,
		DstSlot:     s.dst.Slot,
		DstPort:     s.dstPort,
		SrcCore:     s.srcCore,
		DstCore:     s.dstCore,
		FiberA:      s.fiberA,
		FiberB:      s.fiberB,
	})
}

func (al *allocator) addPairDetail(pk pair, detailType string, slotA, slotB rackwise.SlotRef, used int) {
	key := rackwise.PairDetailKey(pk.A, pk.B)
	al.pairDetails[key] = append(al.pairDetails[key], rackwise.PairDetail{
		Type:  detailType,
		SlotA: slotA,
		SlotB: slotB,
		Used:  used,
	})
}

func itoa(v int) string { return strconv.Itoa(v) }

// optPair renders an optional number pair for canonical ID strings:
// "a:b" when present, "" when absent.
func optPair(a, b *int) string {
	if a == nil || b == nil {
		return ""
	}
	return fmt.Sprintf("%d:%d", *a, *b)
}

func intPtr(v int) *int { return &v }

func fiberPtr(k rackwise.FiberKind) *rackwise.FiberKind { return &k }

func polarityPtr(v rackwise.PolarityVariant) *rackwise.PolarityVariant { return &v }

func strPtr(s string) *string { return &s }
