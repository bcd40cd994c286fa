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

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/rackwise/rackwise"
)

// BOMLine is one grouped row of the bill of materials.
type BOMLine struct {
	Category string `json:"category"` // "panel", "module", or "cable"
	Item     string `json:"item"`
	Count    int    `json:"count"`
}

// BOM groups the artifact into orderable line items: panels by slot
// geometry, modules by type, cables by type plus fiber kind plus
// polarity. Lines come back category by category (panels, modules,
// cables), items sorted within each.
func BOM(a *rackwise.Artifact) []BOMLine {
	panels := make(map[string]int)
	for _, p := range a.Panels {
		panels[fmt.Sprintf("1U patch panel (%d slots/U)", p.SlotsPerU)]++
	}
	modules := make(map[string]int)
	for _, m := range a.Modules {
		modules[string(m.ModuleType)]++
	}
	cables := make(map[string]int)
	for _, c := range a.Cables {
		item := string(c.CableType)
		if c.FiberKind != nil {
			item += " " + string(*c.FiberKind)
		}
		if c.PolarityType != nil {
			item += " polarity-" + string(*c.PolarityType)
		}
		cables[item]++
	}

	var lines []BOMLine
	for _, group := range []struct {
		category string
		counts   map[string]int
	}{
		{"panel", panels},
		{"module", modules},
		{"cable", cables},
	} {
		items := make([]string, 0, len(group.counts))
		for item := range group.counts {
			items = append(items, item)
		}
		sort.Strings(items)
		for _, item := range items {
			lines = append(lines, BOMLine{Category: group.category, Item: item, Count: group.counts[item]})
		}
	}
	return lines
}

// BOMCSV writes the grouped bill of materials as CSV.
func BOMCSV(w io.Writer, a *rackwise.Artifact) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"category", "item", "count"}); err != nil {
		return err
	}
	for _, line := range BOM(a) {
		if err := cw.Write([]string{line.Category, line.Item, strconv.Itoa(line.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
