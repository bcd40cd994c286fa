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

package rackwisecmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rackwise/rackwise"
	"github.com/rackwise/rackwise/alloc"
	"github.com/rackwise/rackwise/diff"
	"github.com/rackwise/rackwise/export"
	"github.com/rackwise/rackwise/projectfile"
)

func init() {
	rootCmd.AddCommand(validateCmd, allocateCmd, diffCmd, exportCmd)
	exportCmd.AddCommand(exportSessionsCmd, exportBOMCmd)

	addInputFlag(validateCmd.Flags())
	addInputFlag(allocateCmd.Flags())
	allocateCmd.Flags().StringP("output", "o", "", "write the artifact to this file instead of stdout")
	allocateCmd.Flags().Bool("pretty", false, "indent the artifact JSON")

	diffCmd.Flags().Bool("physical", false, "show the physical (port-coordinate) diff instead of the logical one")
	diffCmd.Flags().Bool("text", false, "render a line diff of the session tables instead of JSON")
	diffCmd.Flags().Bool("context", false, "with --text, keep unchanged lines")

	addArtifactFlag(exportSessionsCmd.Flags())
	addArtifactFlag(exportBOMCmd.Flags())
	exportSessionsCmd.Flags().String("project-id", "", "project_id column value")
	exportSessionsCmd.Flags().String("revision-id", "", "revision_id column value")
}

func addInputFlag(fs *pflag.FlagSet) {
	fs.StringP("input", "i", "", "project file (.json, .yaml, or .toml)")
}

func addArtifactFlag(fs *pflag.FlagSet) {
	fs.StringP("artifact", "a", "", "design artifact JSON file")
}

var validateCmd = &cobra.Command{
	Use:   "validate --input <project file>",
	Short: "Load and validate a project file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		proj, _, err := loadInput(cmd)
		if err != nil {
			return err
		}
		hash, err := rackwise.InputHash(proj)
		if err != nil {
			return err
		}
		fmt.Printf("Valid project %q: %d racks, %d demands\n",
			proj.Meta.Name, len(proj.Racks), len(proj.Demands))
		fmt.Println("input_hash:", hash)
		return nil
	},
}

var allocateCmd = &cobra.Command{
	Use:   "allocate --input <project file>",
	Short: "Compute the design artifact for a project",
	Long: `Computes the full design artifact for a project file and writes it
as JSON. Capacity overflows do not fail the run; they are recorded in
the artifact's errors list and reported on stderr.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		proj, _, err := loadInput(cmd)
		if err != nil {
			return err
		}
		artifact, err := alloc.Allocate(proj)
		if err != nil {
			return err
		}

		var out []byte
		if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
			out, err = json.MarshalIndent(artifact, "", "  ")
		} else {
			out, err = json.Marshal(artifact)
		}
		if err != nil {
			return err
		}
		out = append(out, '\n')

		dest, _ := cmd.Flags().GetString("output")
		if dest == "" {
			_, err = os.Stdout.Write(out)
		} else {
			err = os.WriteFile(dest, out, 0o644)
		}
		if err != nil {
			return err
		}

		m := artifact.Metrics
		fmt.Fprintf(os.Stderr, "%s sessions, %s cables, %d modules on %d panels (%s)\n",
			humanize.Comma(int64(m.SessionCount)), humanize.Comma(int64(m.CableCount)),
			m.ModuleCount, m.PanelCount, humanize.Bytes(uint64(len(out))))
		for _, warning := range artifact.Warnings {
			fmt.Fprintln(os.Stderr, "warning:", warning)
		}
		for _, capErr := range artifact.Errors {
			fmt.Fprintln(os.Stderr, "error:", capErr)
		}
		return nil
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff <left artifact> <right artifact>",
	Short: "Compare two design artifacts",
	Long: `Compares two design artifacts. The logical diff keys sessions on
their IDs and shows identity churn; the physical diff keys them on
port coordinates and shows wiring churn, including collisions where a
port pair now carries a different session.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		left, err := readArtifactFile(args[0])
		if err != nil {
			return err
		}
		right, err := readArtifactFile(args[1])
		if err != nil {
			return err
		}

		if text, _ := cmd.Flags().GetBool("text"); text {
			withContext, _ := cmd.Flags().GetBool("context")
			fmt.Print(diff.Text(left, right, withContext))
			return nil
		}

		var result any
		if physical, _ := cmd.Flags().GetBool("physical"); physical {
			result = diff.Physical(left, right)
		} else {
			result = diff.Logical(left, right)
		}
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render artifact exports",
}

var exportSessionsCmd = &cobra.Command{
	Use:   "sessions --artifact <artifact file>",
	Short: "Write the per-session CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		artifact, err := loadArtifactFlag(cmd)
		if err != nil {
			return err
		}
		projectID, _ := cmd.Flags().GetString("project-id")
		revisionID, _ := cmd.Flags().GetString("revision-id")
		return export.SessionsCSV(os.Stdout, artifact, projectID, revisionID)
	},
}

var exportBOMCmd = &cobra.Command{
	Use:   "bom --artifact <artifact file>",
	Short: "Write the grouped bill of materials CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		artifact, err := loadArtifactFlag(cmd)
		if err != nil {
			return err
		}
		return export.BOMCSV(os.Stdout, artifact)
	},
}

func loadInput(cmd *cobra.Command) (*rackwise.Project, []byte, error) {
	path, _ := cmd.Flags().GetString("input")
	if path == "" {
		return nil, nil, fmt.Errorf("--input is required")
	}
	return projectfile.Load(path)
}

func loadArtifactFlag(cmd *cobra.Command) (*rackwise.Artifact, error) {
	path, _ := cmd.Flags().GetString("artifact")
	if path == "" {
		return nil, fmt.Errorf("--artifact is required")
	}
	return readArtifactFile(path)
}

func readArtifactFile(path string) (*rackwise.Artifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	artifact := new(rackwise.Artifact)
	if err := json.Unmarshal(raw, artifact); err != nil {
		return nil, fmt.Errorf("%s: decoding artifact: %v", path, err)
	}
	return artifact, nil
}
