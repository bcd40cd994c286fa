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

// Package diff compares two design artifacts at the two layers that
// matter across revisions: the logical layer keyed by session ID
// (identity churn) and the physical layer keyed by endpoint
// coordinates (wiring churn). A physical key occupied by different
// logical sessions on the two sides is a collision: the port pair
// must be re-patched even though both artifacts use it.
package diff

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/rackwise/rackwise"
)

// LogicalDiff is the session-identity view of two artifacts.
type LogicalDiff struct {
	Added    []rackwise.Session `json:"added"`
	Removed  []rackwise.Session `json:"removed"`
	Modified []SessionChange    `json:"modified"`
}

// SessionChange is one session present on both sides with differing
// content.
type SessionChange struct {
	Before rackwise.Session `json:"before"`
	After  rackwise.Session `json:"after"`
}

// Logical diffs two artifacts by session ID. Added and Removed are
// sorted by session ID; Modified by the (shared) session ID.
func Logical(left, right *rackwise.Artifact) LogicalDiff {
	lByID := sessionsByID(left)
	rByID := sessionsByID(right)

	var d LogicalDiff
	for id, rs := range rByID {
		ls, ok := lByID[id]
		if !ok {
			d.Added = append(d.Added, rs)
		} else if !reflect.DeepEqual(ls, rs) {
			d.Modified = append(d.Modified, SessionChange{Before: ls, After: rs})
		}
	}
	for id, ls := range lByID {
		if _, ok := rByID[id]; !ok {
			d.Removed = append(d.Removed, ls)
		}
	}
	sortSessions(d.Added)
	sortSessions(d.Removed)
	sort.Slice(d.Modified, func(i, j int) bool {
		return d.Modified[i].Before.SessionID < d.Modified[j].Before.SessionID
	})
	return d
}

// PhysicalKey locates one port pair: everything about a session except
// its identity. Rack IDs participate, so a rack rename moves every one
// of its sessions to new physical keys.
type PhysicalKey struct {
	Media   rackwise.Media `json:"media"`
	SrcRack string         `json:"src_rack"`
	SrcFace string         `json:"src_face"`
	SrcU    int            `json:"src_u"`
	SrcSlot int            `json:"src_slot"`
	SrcPort int            `json:"src_port"`
	DstRack string         `json:"dst_rack"`
	DstFace string         `json:"dst_face"`
	DstU    int            `json:"dst_u"`
	DstSlot int            `json:"dst_slot"`
	DstPort int            `json:"dst_port"`
}

// KeyOf returns the physical key of a session.
func KeyOf(s rackwise.Session) PhysicalKey {
	return PhysicalKey{
		Media:   s.Media,
		SrcRack: s.SrcRack, SrcFace: s.SrcFace, SrcU: s.SrcU, SrcSlot: s.SrcSlot, SrcPort: s.SrcPort,
		DstRack: s.DstRack, DstFace: s.DstFace, DstU: s.DstU, DstSlot: s.DstSlot, DstPort: s.DstPort,
	}
}

func (k PhysicalKey) String() string {
	return fmt.Sprintf("%s %s/%s/U%d/S%d/P%d -> %s/%s/U%d/S%d/P%d",
		k.Media,
		k.SrcRack, k.SrcFace, k.SrcU, k.SrcSlot, k.SrcPort,
		k.DstRack, k.DstFace, k.DstU, k.DstSlot, k.DstPort)
}

// PhysicalDiff is the port-coordinate view of two artifacts.
type PhysicalDiff struct {
	Added      []rackwise.Session `json:"added"`
	Removed    []rackwise.Session `json:"removed"`
	Collisions []Collision        `json:"collisions"`
}

// Collision is one physical port pair carrying different logical
// sessions in the two artifacts.
type Collision struct {
	Key   PhysicalKey      `json:"key"`
	Left  rackwise.Session `json:"left"`
	Right rackwise.Session `json:"right"`
}

// Physical diffs two artifacts by physical key. Added and Removed are
// sorted by session ID, Collisions by key.
func Physical(left, right *rackwise.Artifact) PhysicalDiff {
	lByKey := sessionsByKey(left)
	rByKey := sessionsByKey(right)

	var d PhysicalDiff
	for key, rs := range rByKey {
		ls, ok := lByKey[key]
		switch {
		case !ok:
			d.Added = append(d.Added, rs)
		case ls.SessionID != rs.SessionID:
			d.Collisions = append(d.Collisions, Collision{Key: key, Left: ls, Right: rs})
		}
	}
	for key, ls := range lByKey {
		if _, ok := rByKey[key]; !ok {
			d.Removed = append(d.Removed, ls)
		}
	}
	sortSessions(d.Added)
	sortSessions(d.Removed)
	sort.Slice(d.Collisions, func(i, j int) bool {
		return d.Collisions[i].Key.String() < d.Collisions[j].Key.String()
	})
	return d
}

func sessionsByID(a *rackwise.Artifact) map[string]rackwise.Session {
	m := make(map[string]rackwise.Session, len(a.Sessions))
	for _, s := range a.Sessions {
		m[s.SessionID] = s
	}
	return m
}

func sessionsByKey(a *rackwise.Artifact) map[PhysicalKey]rackwise.Session {
	m := make(map[PhysicalKey]rackwise.Session, len(a.Sessions))
	for _, s := range a.Sessions {
		m[KeyOf(s)] = s
	}
	return m
}

func sortSessions(ss []rackwise.Session) {
	sort.Slice(ss, func(i, j int) bool { return ss[i].SessionID < ss[j].SessionID })
}
