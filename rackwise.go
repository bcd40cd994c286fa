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

// Package rackwise holds the data model for data-center patching
// projects and the design artifacts produced from them, together with
// the deterministic primitives every other package builds on: stable
// identifiers, ordering keys, and canonical JSON hashing.
//
// A project is expressed natively as a JSON document (other formats
// are adapted to JSON first; see the projectfile package). The alloc
// package turns a validated project into a design artifact; everything
// downstream (exports, diffs, persistence, the admin API) is a pure
// function of that artifact.
package rackwise

// Version is the version of the rackwise module. It is set at release
// time; builds from source carry the previous release tag.
const Version = "v0.5.1"
