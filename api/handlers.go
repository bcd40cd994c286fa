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

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rackwise/rackwise"
	"github.com/rackwise/rackwise/alloc"
	"github.com/rackwise/rackwise/diff"
	"github.com/rackwise/rackwise/export"
	"github.com/rackwise/rackwise/projectfile"
	"github.com/rackwise/rackwise/store"
)

// readProject reads the request body and loads it as a project. The
// format comes from the ?format= query parameter or the Content-Type
// header; the default is JSON.
func (s *Server) readProject(r *http.Request) (*rackwise.Project, []byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, badRequest(fmt.Errorf("reading request body: %v", err))
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = projectfile.FormatByContentType(r.Header.Get("Content-Type"))
	}
	if format == "" {
		return nil, nil, badRequest(fmt.Errorf("cannot tell project format from Content-Type %q", r.Header.Get("Content-Type")))
	}
	proj, err := projectfile.LoadBytes(body, format)
	if err != nil {
		return nil, nil, badRequest(err)
	}
	return proj, body, nil
}

// allocate runs the engine and updates the run metrics.
func (s *Server) allocate(proj *rackwise.Project) (*rackwise.Artifact, error) {
	start := time.Now()
	artifact, err := alloc.Allocate(proj)
	if err != nil {
		return nil, badRequest(err)
	}
	s.metrics.allocDuration.Observe(time.Since(start).Seconds())
	s.metrics.allocSessions.Add(float64(artifact.Metrics.SessionCount))
	s.metrics.allocErrors.Add(float64(len(artifact.Errors)))
	s.logger.Info("allocated project",
		zap.String("project", proj.Meta.Name),
		zap.String("input_hash", artifact.InputHash),
		zap.Int("sessions", artifact.Metrics.SessionCount),
		zap.Int("capacity_errors", len(artifact.Errors)))
	return artifact, nil
}

func (s *Server) handleAllocate(w http.ResponseWriter, r *http.Request) error {
	proj, _, err := s.readProject(r)
	if err != nil {
		return err
	}
	artifact, err := s.allocate(proj)
	if err != nil {
		return err
	}
	return writeJSON(w, r, http.StatusOK, artifact)
}

func (s *Server) handleCreateTrial(w http.ResponseWriter, r *http.Request) error {
	proj, raw, err := s.readProject(r)
	if err != nil {
		return err
	}
	artifact, err := s.allocate(proj)
	if err != nil {
		return err
	}
	trialID := uuid.NewString()
	if err := s.store.SaveTrial(trialID, raw, artifact); err != nil {
		return err
	}
	return writeJSON(w, r, http.StatusCreated, map[string]any{
		"trial_id": trialID,
		"artifact": artifact,
	})
}

func (s *Server) handleGetTrial(w http.ResponseWriter, r *http.Request) error {
	trial, err := s.store.GetTrial(chi.URLParam(r, "id"))
	if err != nil {
		return mapStoreErr(err)
	}
	return writeJSON(w, r, http.StatusOK, trial)
}

func (s *Server) handleCreateRevision(w http.ResponseWriter, r *http.Request) error {
	name := chi.URLParam(r, "name")
	if name == "" {
		return badRequest(fmt.Errorf("empty project name"))
	}
	proj, raw, err := s.readProject(r)
	if err != nil {
		return err
	}
	artifact, err := s.allocate(proj)
	if err != nil {
		return err
	}
	projectID, revisionID, err := s.store.SaveRevision(name, r.URL.Query().Get("note"), raw, artifact)
	if err != nil {
		return err
	}
	return writeJSON(w, r, http.StatusCreated, map[string]any{
		"project_id":  projectID,
		"revision_id": revisionID,
		"input_hash":  artifact.InputHash,
		"metrics":     artifact.Metrics,
		"warnings":    artifact.Warnings,
		"errors":      artifact.Errors,
	})
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) error {
	projects, err := s.store.ListProjects()
	if err != nil {
		return err
	}
	if projects == nil {
		projects = []store.ProjectRecord{}
	}
	return writeJSON(w, r, http.StatusOK, projects)
}

func (s *Server) handleListRevisions(w http.ResponseWriter, r *http.Request) error {
	revisions, err := s.store.ListRevisions(chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	if revisions == nil {
		revisions = []store.RevisionSummary{}
	}
	return writeJSON(w, r, http.StatusOK, revisions)
}

func (s *Server) handleGetRevision(w http.ResponseWriter, r *http.Request) error {
	rev, err := s.store.GetRevision(chi.URLParam(r, "id"))
	if err != nil {
		return mapStoreErr(err)
	}
	return writeJSON(w, r, http.StatusOK, rev)
}

func (s *Server) revisionArtifact(id string) (*store.Revision, *rackwise.Artifact, error) {
	rev, err := s.store.GetRevision(id)
	if err != nil {
		return nil, nil, mapStoreErr(err)
	}
	artifact, err := rev.ArtifactOf()
	if err != nil {
		return nil, nil, err
	}
	return rev, artifact, nil
}

func (s *Server) handleSessionsCSV(w http.ResponseWriter, r *http.Request) error {
	rev, artifact, err := s.revisionArtifact(chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="sessions.csv"`)
	return export.SessionsCSV(w, artifact, rev.ProjectID, rev.RevisionID)
}

func (s *Server) handleBOMCSV(w http.ResponseWriter, r *http.Request) error {
	_, artifact, err := s.revisionArtifact(chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="bom.csv"`)
	return export.BOMCSV(w, artifact)
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) error {
	_, left, err := s.revisionArtifact(chi.URLParam(r, "left"))
	if err != nil {
		return err
	}
	_, right, err := s.revisionArtifact(chi.URLParam(r, "right"))
	if err != nil {
		return err
	}
	return writeJSON(w, r, http.StatusOK, map[string]any{
		"logical":  diff.Logical(left, right),
		"physical": diff.Physical(left, right),
	})
}

func mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound(err)
	}
	return err
}
