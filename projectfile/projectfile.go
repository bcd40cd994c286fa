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

// Package projectfile loads project documents. The native format is
// JSON; other formats are adapted to JSON bytes first and then decoded
// strictly, so every format shares one code path and one set of
// validation errors. Adapters are registered by format name and
// selected by file extension or an explicit format string.
package projectfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rackwise/rackwise"
)

// Adapter converts a project document in some format to the native
// JSON form.
type Adapter interface {
	Adapt(body []byte) ([]byte, error)
}

var adapters = make(map[string]Adapter)

// RegisterAdapter registers a project-file adapter under a format
// name. This should be done at init-time; it panics if the name is
// taken.
func RegisterAdapter(name string, a Adapter) {
	if _, dup := adapters[name]; dup {
		panic(fmt.Errorf("projectfile: adapter %s already registered", name))
	}
	adapters[name] = a
}

// GetAdapter returns the adapter registered under name, or nil.
func GetAdapter(name string) Adapter { return adapters[name] }

// FormatByPath guesses the format from a file extension. It returns
// "" when the extension is not recognized.
func FormatByPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	}
	return ""
}

// FormatByContentType maps a MIME type to a format name, for callers
// receiving documents over HTTP.
func FormatByContentType(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	switch ct {
	case "application/json", "text/json", "":
		return "json"
	case "application/yaml", "application/x-yaml", "text/yaml":
		return "yaml"
	case "application/toml", "text/x-toml":
		return "toml"
	}
	return ""
}

// LoadBytes adapts body from the named format, decodes it strictly
// (unknown fields are errors), and normalizes and validates the
// result.
func LoadBytes(body []byte, format string) (*rackwise.Project, error) {
	adapter := GetAdapter(format)
	if adapter == nil {
		return nil, fmt.Errorf("unrecognized project format %q", format)
	}
	native, err := adapter.Adapt(body)
	if err != nil {
		return nil, fmt.Errorf("adapting %s project: %v", format, err)
	}

	dec := json.NewDecoder(bytes.NewReader(native))
	dec.DisallowUnknownFields()
	proj := new(rackwise.Project)
	if err := dec.Decode(proj); err != nil {
		return nil, fmt.Errorf("decoding project: %v", err)
	}
	proj.Normalize()
	if err := proj.Validate(); err != nil {
		return nil, err
	}
	return proj, nil
}

// Load reads and loads the project file at path, choosing the format
// by extension. It also returns the raw file bytes, which persistence
// keeps verbatim alongside each revision.
func Load(path string) (*rackwise.Project, []byte, error) {
	format := FormatByPath(path)
	if format == "" {
		return nil, nil, fmt.Errorf("%s: cannot tell project format from file extension", path)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	proj, err := LoadBytes(body, format)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return proj, body, nil
}
