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

package projectfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rackwise/rackwise"
)

const jsonDoc = `{
  "version": 1,
  "project": {"name": "fmt-test"},
  "racks": [
    {"id": "R1", "name": "rack one"},
    {"id": "R2", "name": "rack two", "max_u": 12}
  ],
  "demands": [
    {"id": "D1", "src": "R1", "dst": "R2", "endpoint_type": "mpo12", "count": 3}
  ],
  "settings": {"panel": {"slots_per_u": 2}}
}`

const yamlDoc = `version: 1
project:
  name: fmt-test
racks:
  - id: R1
    name: rack one
  - id: R2
    name: rack two
    max_u: 12
demands:
  - id: D1
    src: R1
    dst: R2
    endpoint_type: mpo12
    count: 3
settings:
  panel:
    slots_per_u: 2
`

const tomlDoc = `version = 1

[project]
name = "fmt-test"

[[racks]]
id = "R1"
name = "rack one"

[[racks]]
id = "R2"
name = "rack two"
max_u = 12

[[demands]]
id = "D1"
src = "R1"
dst = "R2"
endpoint_type = "mpo12"
count = 3

[settings.panel]
slots_per_u = 2
`

func TestAllFormatsLoadIdentically(t *testing.T) {
	jsonProj, err := LoadBytes([]byte(jsonDoc), "json")
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	yamlProj, err := LoadBytes([]byte(yamlDoc), "yaml")
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	tomlProj, err := LoadBytes([]byte(tomlDoc), "toml")
	if err != nil {
		t.Fatalf("toml: %v", err)
	}

	jsonHash, err := rackwise.InputHash(jsonProj)
	if err != nil {
		t.Fatal(err)
	}
	for name, proj := range map[string]*rackwise.Project{"yaml": yamlProj, "toml": tomlProj} {
		hash, err := rackwise.InputHash(proj)
		if err != nil {
			t.Fatal(err)
		}
		if hash != jsonHash {
			t.Errorf("%s hash %s differs from json hash %s", name, hash, jsonHash)
		}
	}

	if jsonProj.Racks[1].MaxU != 12 {
		t.Errorf("explicit max_u = %d, want 12", jsonProj.Racks[1].MaxU)
	}
	if jsonProj.Racks[0].MaxU != 42 {
		t.Errorf("defaulted max_u = %d, want 42", jsonProj.Racks[0].MaxU)
	}
	if jsonProj.Settings.Panel.SlotsPerU != 2 {
		t.Errorf("slots_per_u = %d, want 2", jsonProj.Settings.Panel.SlotsPerU)
	}
}

func TestLoadBytesRejectsUnknownFields(t *testing.T) {
	doc := strings.Replace(jsonDoc, `"version": 1,`, `"version": 1, "surprise": true,`, 1)
	if _, err := LoadBytes([]byte(doc), "json"); err == nil {
		t.Fatal("unknown top-level field was accepted")
	}
}

func TestLoadBytesValidates(t *testing.T) {
	doc := strings.Replace(jsonDoc, `"count": 3`, `"count": 0`, 1)
	_, err := LoadBytes([]byte(doc), "json")
	if err == nil || !strings.Contains(err.Error(), "count must be positive") {
		t.Fatalf("err = %v, want count validation error", err)
	}
}

func TestLoadBytesUnknownFormat(t *testing.T) {
	if _, err := LoadBytes([]byte(jsonDoc), "ini"); err == nil {
		t.Fatal("unknown format was accepted")
	}
}

func TestFormatByPath(t *testing.T) {
	for path, want := range map[string]string{
		"project.json": "json",
		"project.YAML": "yaml",
		"project.yml":  "yaml",
		"project.toml": "toml",
		"project.txt":  "",
		"project":      "",
	} {
		if got := FormatByPath(path); got != want {
			t.Errorf("FormatByPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestFormatByContentType(t *testing.T) {
	for ct, want := range map[string]string{
		"application/json":                "json",
		"application/json; charset=utf8":  "json",
		"application/yaml":                "yaml",
		"text/yaml":                       "yaml",
		"application/toml":                "toml",
		"":                                "json",
		"application/octet-stream":        "",
	} {
		if got := FormatByContentType(ct); got != want {
			t.Errorf("FormatByContentType(%q) = %q, want %q", ct, got, want)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project.yaml")
	if err := os.WriteFile(path, []byte(yamlDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	proj, raw, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if proj.Meta.Name != "fmt-test" {
		t.Errorf("name = %q", proj.Meta.Name)
	}
	if string(raw) != yamlDoc {
		t.Error("raw bytes were not preserved verbatim")
	}

	if _, _, err := Load(filepath.Join(dir, "project.conf")); err == nil {
		t.Error("unrecognized extension was accepted")
	}
}
