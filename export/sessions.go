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

// Package export renders design artifacts into the tabular exchange
// formats fielded to installers: the per-session CSV and the grouped
// bill of materials. Every function is a pure projection of the
// artifact; row order follows the artifact's own deterministic sorts.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rackwise/rackwise"
)

// SessionsCSVHeader is the column set of the sessions export, in
// order. Consumers key on these names; do not reorder.
var SessionsCSVHeader = []string{
	"project_id", "revision_id",
	"session_id", "media", "cable_id", "cable_seq", "adapter_type",
	"label_a", "label_b",
	"src_rack", "src_face", "src_u", "src_slot", "src_port",
	"dst_rack", "dst_face", "dst_u", "dst_slot", "dst_port",
	"fiber_a", "fiber_b", "notes",
}

// SessionsCSV writes the artifact's sessions as CSV, one row per
// session in session-ID order, prefixed with the owning project and
// revision identifiers (empty strings for unsaved trials).
func SessionsCSV(w io.Writer, a *rackwise.Artifact, projectID, revisionID string) error {
	seqByCable := make(map[string]int, len(a.Cables))
	for _, c := range a.Cables {
		seqByCable[c.CableID] = c.CableSeq
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(SessionsCSVHeader); err != nil {
		return err
	}
	for _, s := range a.Sessions {
		row := []string{
			projectID, revisionID,
			s.SessionID, string(s.Media), s.CableID,
			strconv.Itoa(seqByCable[s.CableID]), string(s.AdapterType),
			s.LabelA, s.LabelB,
			s.SrcRack, s.SrcFace, strconv.Itoa(s.SrcU), strconv.Itoa(s.SrcSlot), strconv.Itoa(s.SrcPort),
			s.DstRack, s.DstFace, strconv.Itoa(s.DstU), strconv.Itoa(s.DstSlot), strconv.Itoa(s.DstPort),
			optInt(s.FiberA), optInt(s.FiberB), s.Notes,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
