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
	"reflect"
	"testing"
)

func TestStableID(t *testing.T) {
	// Known vectors; these must never change, or every stored
	// revision's identifiers break.
	for i, tc := range []struct {
		prefix, canonical, want string
	}{
		{IDPrefixPanel, "R01|1|4", "pan_8d1525c3488d2744"},
		{IDPrefixModule, "R1|1|1|mpo|R2|1", "mod_7bf5edb7671a5e79"},
		{IDPrefixCable, "mpo12|R1|1|1|1|R2|1|1|1|B", "cab_19c50d5710e41e70"},
		{IDPrefixSession, "hello", "ses_2cf24dba5fb0a30e"},
		{IDPrefixProject, "demo", "prj_2a97516c354b6884"},
	} {
		if got := StableID(tc.prefix, tc.canonical); got != tc.want {
			t.Errorf("test %d: StableID(%q, %q) = %q, want %q", i, tc.prefix, tc.canonical, got, tc.want)
		}
	}
}

func TestStableIDDeterministic(t *testing.T) {
	a := StableID(IDPrefixSession, "mpo12|R1|1|1|1|R2|1|1|1|x")
	b := StableID(IDPrefixSession, "mpo12|R1|1|1|1|R2|1|1|1|x")
	if a != b {
		t.Errorf("same canonical string produced %q and %q", a, b)
	}
	if len(a) != len(IDPrefixSession)+1+16 {
		t.Errorf("unexpected ID length: %q", a)
	}
}

func TestNaturalLess(t *testing.T) {
	for i, tc := range []struct {
		a, b string
		want bool
	}{
		{"R2", "R10", true},
		{"R10", "R2", false},
		{"R1", "R1", false},
		{"R01", "R1", true},  // equal numbers, string tiebreak
		{"R1", "R01", false},
		{"R9", "R11", true},
		{"rackA", "R1", false}, // no trailing digit sorts after
		{"R1", "rackA", true},
		{"alpha", "beta", true}, // neither has digits
		{"", "R1", false},
		{"R100", "R20", false},
	} {
		if got := NaturalLess(tc.a, tc.b); got != tc.want {
			t.Errorf("test %d: NaturalLess(%q, %q) = %v, want %v", i, tc.a, tc.b, got, tc.want)
		}
	}
}

func TestPairKey(t *testing.T) {
	if a, b := PeerSortNatural.PairKey("R10", "R2"); a != "R2" || b != "R10" {
		t.Errorf("natural PairKey(R10, R2) = (%s, %s), want (R2, R10)", a, b)
	}
	if a, b := PeerSortNatural.PairKey("R2", "R10"); a != "R2" || b != "R10" {
		t.Errorf("natural PairKey(R2, R10) = (%s, %s), want (R2, R10)", a, b)
	}
	if a, b := PeerSortLexicographic.PairKey("R2", "R10"); a != "R10" || b != "R2" {
		t.Errorf("lexicographic PairKey(R2, R10) = (%s, %s), want (R10, R2)", a, b)
	}
}

func TestSortStrings(t *testing.T) {
	ids := []string{"R10", "R2", "R1", "spine", "R03"}
	PeerSortNatural.SortStrings(ids)
	want := []string{"R1", "R2", "R03", "R10", "spine"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("natural sort = %v, want %v", ids, want)
	}

	ids = []string{"R10", "R2", "R1"}
	PeerSortLexicographic.SortStrings(ids)
	want = []string{"R1", "R10", "R2"}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("lexicographic sort = %v, want %v", ids, want)
	}
}

func TestPortLabel(t *testing.T) {
	if got := PortLabel("R01", 1, 2, 7); got != "R01U1S2P7" {
		t.Errorf("PortLabel = %q", got)
	}
}
