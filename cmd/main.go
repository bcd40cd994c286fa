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

// Package rackwisecmd implements the rackwise command line. The binary
// itself lives in cmd/rackwise; this package holds the commands so
// custom builds can reuse them.
package rackwisecmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rackwise/rackwise"
)

var rootCmd = &cobra.Command{
	Use:   "rackwise",
	Short: "Deterministic data-center patch design",
	Long: `Rackwise turns a declarative patching project (racks and
inter-rack connectivity demands over four media) into a complete
physical design: panels, modules, trunk cables, and port-to-port
sessions. The same input always produces a byte-identical design, so
designs can be stored as revisions and diffed across revisions at both
the logical-session and physical-port layers.

Project files are JSON, YAML, or TOML; the format is chosen by file
extension. A design artifact is plain JSON and every export is a pure
function of it.

Common usage:

  $ rackwise allocate --input project.yaml --output design.json
  $ rackwise export sessions --artifact design.json > sessions.csv
  $ rackwise diff old.json new.json --text
  $ rackwise serve --listen :8632 --db rackwise.db

Note that slot assignment follows the configured slot-category
priority; because UTP modules are shared between peers, moving the utp
category earlier in the priority list shifts every later category to
higher slot numbers.`,
	SilenceUsage: true,
	Version:      rackwise.Version,
}

// Main is the entry point of the rackwise CLI.
func Main() {
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
