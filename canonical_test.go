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

func TestCanonicalJSONSortsKeys(t *testing.T) {
	in := map[string]any{
		"zebra": 1,
		"alpha": map[string]any{"nested_z": true, "nested_a": "x"},
	}
	got, err := CanonicalJSON(in)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"alpha":{"nested_a":"x","nested_z":true},"zebra":1}`
	if string(got) != want {
		t.Errorf("CanonicalJSON = %s, want %s", got, want)
	}
}

func TestCanonicalJSONPreservesNonASCII(t *testing.T) {
	got, err := CanonicalJSON(map[string]string{"name": "ラック A & B"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), "ラック A & B") {
		t.Errorf("non-ASCII or ampersand was escaped: %s", got)
	}
}

func TestCanonicalJSONNoWhitespace(t *testing.T) {
	got, err := CanonicalJSON(map[string]any{"a": []int{1, 2}, "b": "x"})
	if err != nil {
		t.Fatal(err)
	}
	if strings.ContainsAny(string(got), " \n\t") {
		t.Errorf("canonical form contains whitespace: %q", got)
	}
}

func testProject() *Project {
	return &Project{
		Version: 1,
		Meta:    ProjectMeta{Name: "test"},
		Racks: []Rack{
			{ID: "R1", Name: "R1"},
			{ID: "R2", Name: "R2"},
		},
		Demands: []Demand{
			{ID: "D1", Src: "R1", Dst: "R2", EndpointType: EndpointMPO12, Count: 3},
		},
	}
}

func TestInputHashIdempotent(t *testing.T) {
	p := testProject()
	p.Normalize()
	h1, err := InputHash(p)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := InputHash(p)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Errorf("hash not stable: %s vs %s", h1, h2)
	}
	if len(h1) != 64 || strings.ToLower(h1) != h1 {
		t.Errorf("hash is not 64 lowercase hex: %q", h1)
	}
}

func TestInputHashCollapsesDefaults(t *testing.T) {
	// A project with defaults left implicit and one with them spelled
	// out must hash identically after normalization.
	implicit := testProject()
	implicit.Normalize()

	explicit := testProject()
	explicit.Racks[0].MaxU = DefaultMaxU
	explicit.Racks[1].MaxU = DefaultMaxU
	explicit.Settings.Panel.SlotsPerU = DefaultSlotsPerU
	explicit.Settings.Panel.AllocationDirection = DirectionTopDown
	explicit.Settings.Panel.ULabelMode = ULabelAscending
	explicit.Settings.Ordering.PeerSort = PeerSortNatural
	explicit.Settings.Ordering.SlotCategoryPriority = DefaultSlotCategoryPriority()
	explicit.Normalize()

	h1, err := InputHash(implicit)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := InputHash(explicit)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Errorf("defaults changed the hash: %s vs %s", h1, h2)
	}
}

func TestInputHashSensitiveToContent(t *testing.T) {
	p1 := testProject()
	p1.Normalize()
	p2 := testProject()
	p2.Demands[0].Count = 4
	p2.Normalize()

	h1, _ := InputHash(p1)
	h2, _ := InputHash(p2)
	if h1 == h2 {
		t.Error("different demand counts hashed identically")
	}
}
