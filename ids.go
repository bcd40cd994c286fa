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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// The identifier prefixes. Panels, modules, cables, and sessions each
// get stable IDs of the form "prefix_<16 hex>"; projects and revisions
// (store package) reuse the same scheme.
const (
	IDPrefixPanel    = "pan"
	IDPrefixModule   = "mod"
	IDPrefixCable    = "cab"
	IDPrefixSession  = "ses"
	IDPrefixProject  = "prj"
	IDPrefixRevision = "rev"
)

// stableIDHexLen is how many hex characters of the SHA-256 digest a
// stable ID keeps. 64 bits is compact enough for field labels and has
// no realistic collision risk at project scale.
const stableIDHexLen = 16

// StableID derives a deterministic identifier from a canonical string:
// the prefix, an underscore, and the lowercase first 16 hex characters
// of SHA-256 over the string's UTF-8 bytes.
func StableID(prefix, canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return prefix + "_" + hex.EncodeToString(sum[:])[:stableIDHexLen]
}

// PortLabel renders the field label for one endpoint, e.g. "R01U1S2P7".
func PortLabel(rack string, u, slot, port int) string {
	return fmt.Sprintf("%sU%dS%dP%d", rack, u, slot, port)
}

// trailingDigits returns the trailing decimal run of s. ok is false
// when s does not end in a digit.
func trailingDigits(s string) (digits string, ok bool) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return "", false
	}
	return s[i:], true
}

// NaturalLess orders strings by their trailing-digit run as an
// integer, falling back to the full string on ties. Strings without a
// trailing digit sort after strings with one, lexicographically among
// themselves. "R2" < "R10", and "R01" < "R1" (equal numbers, string
// tiebreak).
func NaturalLess(a, b string) bool {
	da, aok := trailingDigits(a)
	db, bok := trailingDigits(b)
	switch {
	case aok && !bok:
		return true
	case !aok && bok:
		return false
	case !aok && !bok:
		return a < b
	}
	// Compare the digit runs as integers without parsing: strip
	// leading zeros, then shorter is smaller, then lexicographic.
	na, nb := strings.TrimLeft(da, "0"), strings.TrimLeft(db, "0")
	if len(na) != len(nb) {
		return len(na) < len(nb)
	}
	if na != nb {
		return na < nb
	}
	return a < b
}

// Less compares two strings under a peer-sort strategy.
func (s PeerSort) Less(a, b string) bool {
	if s == PeerSortNatural {
		return NaturalLess(a, b)
	}
	return a < b
}

// PairKey returns the canonical ordered pair of two rack IDs under a
// peer-sort strategy: the smaller element first.
func (s PeerSort) PairKey(a, b string) (string, string) {
	if s.Less(b, a) {
		return b, a
	}
	return a, b
}

// SortStrings sorts ids in place under the strategy.
func (s PeerSort) SortStrings(ids []string) {
	sort.Slice(ids, func(i, j int) bool { return s.Less(ids[i], ids[j]) })
}
