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

	"github.com/rackwise/rackwise"
)

// RackOverflowError reports that a rack ran out of U positions under
// the configured allocation direction. It is recoverable: the planner
// that hit it stops allocating for the current pair and the run
// continues.
type RackOverflowError struct {
	Rack      string
	MaxU      int
	Direction rackwise.AllocationDirection
}

func (e RackOverflowError) Error() string {
	return fmt.Sprintf("rack %s is full: no U position left for another panel (max_u=%d, %s)",
		e.Rack, e.MaxU, e.Direction)
}

// arena hands out slot positions for one rack. The counter is
// monotonic and reservations are not undoable: a reservation that
// overflows still consumes its index, so a full rack stays full.
type arena struct {
	rack      string
	slotsPerU int
	maxU      int
	direction rackwise.AllocationDirection

	next    int
	panelUs map[int]struct{}
}

func newArena(rack rackwise.Rack, panel rackwise.PanelSettings) *arena {
	return &arena{
		rack:      rack.ID,
		slotsPerU: panel.SlotsPerU,
		maxU:      rack.MaxU,
		direction: panel.AllocationDirection,
		panelUs:   make(map[int]struct{}),
	}
}

// reserve claims the next slot. The 1-based reservation index i maps
// to panel number (i-1)/slots_per_u and in-panel slot
// ((i-1) mod slots_per_u)+1; the panel number maps to a U position
// according to the direction.
func (a *arena) reserve() (rackwise.SlotRef, error) {
	a.next++
	i := a.next
	panelNum := (i - 1) / a.slotsPerU
	slot := (i-1)%a.slotsPerU + 1

	var u int
	if a.direction == rackwise.DirectionBottomUp {
		u = a.maxU - panelNum
		if u < 1 {
			return rackwise.SlotRef{}, RackOverflowError{Rack: a.rack, MaxU: a.maxU, Direction: a.direction}
		}
	} else {
		u = panelNum + 1
		if u > a.maxU {
			return rackwise.SlotRef{}, RackOverflowError{Rack: a.rack, MaxU: a.maxU, Direction: a.direction}
		}
	}
	a.panelUs[u] = struct{}{}
	return rackwise.SlotRef{RackID: a.rack, U: u, Slot: slot}, nil
}
