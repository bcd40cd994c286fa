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
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// CanonicalJSON serializes v as compact JSON with all object keys
// recursively sorted, no insignificant whitespace, HTML escaping off,
// and non-ASCII preserved. Numbers pass through verbatim. This is the
// byte sequence the input hash commits to, so its exact form must not
// change across releases.
func CanonicalJSON(v any) ([]byte, error) {
	// Round-trip through the generic representation: maps come back
	// out of encoding/json with keys sorted, and json.Number keeps
	// numeric literals byte-exact.
	first, err := marshalNoEscape(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(first))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("canonicalizing: %v", err)
	}
	return marshalNoEscape(generic)
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	// Encode appends a newline; the canonical form has none.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// InputHash returns the 64-hex SHA-256 of the project's canonical JSON
// serialization. The project should be normalized first; the hash is
// over the normalized form so that spelled-out defaults and omitted
// defaults collapse to the same digest.
func InputHash(p *Project) (string, error) {
	canon, err := CanonicalJSON(p)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}
