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
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

func init() {
	RegisterAdapter("json", jsonAdapter{})
	RegisterAdapter("yaml", yamlAdapter{})
	RegisterAdapter("toml", tomlAdapter{})
}

// jsonAdapter passes native JSON through, verifying only that it is
// well formed so format errors surface with the right wording.
type jsonAdapter struct{}

func (jsonAdapter) Adapt(body []byte) ([]byte, error) {
	if !json.Valid(body) {
		return nil, fmt.Errorf("malformed JSON")
	}
	return body, nil
}

type yamlAdapter struct{}

func (yamlAdapter) Adapt(body []byte) ([]byte, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

type tomlAdapter struct{}

func (tomlAdapter) Adapt(body []byte) ([]byte, error) {
	var doc map[string]any
	if err := toml.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}
