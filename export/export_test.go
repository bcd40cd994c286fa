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
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"testing"

	"github.com/rackwise/rackwise"
	"github.com/rackwise/rackwise/alloc"
)

func testArtifact(t *testing.T) *rackwise.Artifact {
	t.Helper()
	p := &rackwise.Project{
		Version: 1,
		Meta:    rackwise.ProjectMeta{Name: "export-test"},
		Racks: []rackwise.Rack{
			{ID: "R1", Name: "R1"},
			{ID: "R2", Name: "R2"},
		},
		Demands: []rackwise.Demand{
			{ID: "D1", Src: "R1", Dst: "R2", EndpointType: rackwise.EndpointMPO12, Count: 2},
			{ID: "D2", Src: "R1", Dst: "R2", EndpointType: rackwise.EndpointMMFLCDuplex, Count: 3},
			{ID: "D3", Src: "R1", Dst: "R2", EndpointType: rackwise.EndpointUTPRJ45, Count: 1},
		},
	}
	a, err := alloc.Allocate(p)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestSessionsCSV(t *testing.T) {
	a := testArtifact(t)

	var buf bytes.Buffer
	if err := SessionsCSV(&buf, a, "prj_x", "rev_y"); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1+len(a.Sessions) {
		t.Fatalf("row count = %d, want header + %d sessions", len(records), len(a.Sessions))
	}

	header := strings.Join(records[0], ",")
	want := "project_id,revision_id,session_id,media,cable_id,cable_seq,adapter_type," +
		"label_a,label_b,src_rack,src_face,src_u,src_slot,src_port," +
		"dst_rack,dst_face,dst_u,dst_slot,dst_port,fiber_a,fiber_b,notes"
	if header != want {
		t.Errorf("header = %s\nwant %s", header, want)
	}

	col := map[string]int{}
	for i, name := range records[0] {
		col[name] = i
	}
	for _, row := range records[1:] {
		if row[col["project_id"]] != "prj_x" || row[col["revision_id"]] != "rev_y" {
			t.Errorf("row carries wrong ids: %v", row)
		}
		if row[col["src_face"]] != "front" || row[col["dst_face"]] != "front" {
			t.Errorf("face columns = %s/%s", row[col["src_face"]], row[col["dst_face"]])
		}
		seq, err := strconv.Atoi(row[col["cable_seq"]])
		if err != nil || seq < 1 || seq > len(a.Cables) {
			t.Errorf("bad cable_seq %q", row[col["cable_seq"]])
		}
		switch rackwise.Media(row[col["media"]]) {
		case rackwise.MediaMMFLCDuplex:
			if row[col["fiber_a"]] == "" || row[col["fiber_b"]] == "" {
				t.Error("LC row without fiber columns")
			}
		case rackwise.MediaMPO12, rackwise.MediaUTPRJ45:
			if row[col["fiber_a"]] != "" || row[col["fiber_b"]] != "" {
				t.Errorf("%s row with fiber columns", row[col["media"]])
			}
		}
	}
}

func TestBOMGrouping(t *testing.T) {
	a := testArtifact(t)

	lines := BOM(a)
	byItem := map[string]BOMLine{}
	var categories []string
	for _, l := range lines {
		byItem[l.Item] = l
		if len(categories) == 0 || categories[len(categories)-1] != l.Category {
			categories = append(categories, l.Category)
		}
	}
	if strings.Join(categories, ",") != "panel,module,cable" {
		t.Errorf("category order = %v", categories)
	}

	// One panel per rack, everything on U1.
	if l := byItem["1U patch panel (4 slots/U)"]; l.Count != 2 {
		t.Errorf("panel line = %+v, want count 2", l)
	}
	if l := byItem["mpo12_pass_through_12port"]; l.Count != 2 {
		t.Errorf("MPO module line = %+v, want count 2", l)
	}
	if l := byItem["lc_breakout_2xmpo12_to_12xlcduplex"]; l.Count != 2 {
		t.Errorf("LC module line = %+v, want count 2", l)
	}
	if l := byItem["utp_6xrj45"]; l.Count != 2 {
		t.Errorf("UTP module line = %+v, want count 2", l)
	}
	// 2 MPO trunks (one per port), 2 LC trunks, 1 UTP cable.
	if l := byItem["mpo12_trunk polarity-B"]; l.Count != 2 {
		t.Errorf("MPO trunk line = %+v, want count 2", l)
	}
	if l := byItem["mpo12_trunk mmf polarity-A"]; l.Count != 2 {
		t.Errorf("LC trunk line = %+v, want count 2", l)
	}
	if l := byItem["utp_cable"]; l.Count != 1 {
		t.Errorf("UTP cable line = %+v, want count 1", l)
	}
}

func TestBOMCSV(t *testing.T) {
	a := testArtifact(t)
	var buf bytes.Buffer
	if err := BOMCSV(&buf, a); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "category,item,count\n") {
		t.Errorf("missing header: %s", out)
	}
	if !strings.Contains(out, "panel,1U patch panel (4 slots/U),2") {
		t.Errorf("missing panel line:\n%s", out)
	}
}
