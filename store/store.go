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

// Package store persists projects, their revisions, and unsaved trial
// runs in a single-file bbolt database. The design artifact is stored
// as the JSON produced by the allocator and returned unchanged; the
// raw project document is kept verbatim with each revision so any
// stored design can be re-derived and diffed later.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/rackwise/rackwise"
)

// ErrNotFound is returned when a project, revision, or trial does not
// exist.
var ErrNotFound = errors.New("not found")

var (
	bucketProjects  = []byte("projects")
	bucketRevisions = []byte("revisions")
	bucketRevIndex  = []byte("revisions_by_project")
	bucketTrials    = []byte("trials")
)

// ProjectRecord is the stored per-project metadata.
type ProjectRecord struct {
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Revision is one stored allocation run: the raw input document, its
// hash, and the artifact JSON.
type Revision struct {
	RevisionID string          `json:"revision_id"`
	ProjectID  string          `json:"project_id"`
	CreatedAt  time.Time       `json:"created_at"`
	Note       string          `json:"note"`
	Input      []byte          `json:"input"`
	InputHash  string          `json:"input_hash"`
	Artifact   json.RawMessage `json:"artifact"`
}

// RevisionSummary is a Revision without its payloads, for listings.
type RevisionSummary struct {
	RevisionID string    `json:"revision_id"`
	ProjectID  string    `json:"project_id"`
	CreatedAt  time.Time `json:"created_at"`
	Note       string    `json:"note"`
	InputHash  string    `json:"input_hash"`
}

// Trial is one parked what-if run, not attached to a project.
type Trial struct {
	TrialID   string          `json:"trial_id"`
	CreatedAt time.Time       `json:"created_at"`
	Input     []byte          `json:"input"`
	Artifact  json.RawMessage `json:"artifact"`
}

// Store wraps the bbolt database.
type Store struct {
	db     *bolt.DB
	logger *zap.Logger
}

// Open opens (creating if necessary) the database at path. The parent
// directory is created as needed.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %v", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketProjects, bucketRevisions, bucketRevIndex, bucketTrials} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("database open", zap.String("path", path))
	return &Store{db: db, logger: logger}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// SaveRevision stores an allocation run under the named project,
// creating or refreshing the project record. The project ID is derived
// from the name; the revision ID from name, timestamp, and input, so
// re-saving the same input still yields a new revision.
func (s *Store) SaveRevision(projectName, note string, rawInput []byte, artifact *rackwise.Artifact) (projectID, revisionID string, err error) {
	artJSON, err := json.Marshal(artifact)
	if err != nil {
		return "", "", err
	}
	now := time.Now().UTC()
	projectID = rackwise.StableID(rackwise.IDPrefixProject, projectName)
	revisionID = rackwise.StableID(rackwise.IDPrefixRevision,
		projectName+now.Format(time.RFC3339Nano)+string(rawInput))

	err = s.db.Update(func(tx *bolt.Tx) error {
		projects := tx.Bucket(bucketProjects)
		rec := ProjectRecord{ProjectID: projectID, Name: projectName, CreatedAt: now, UpdatedAt: now}
		if existing := projects.Get([]byte(projectID)); existing != nil {
			var prev ProjectRecord
			if err := json.Unmarshal(existing, &prev); err == nil {
				rec.CreatedAt = prev.CreatedAt
			}
		}
		if err := putJSON(projects, projectID, rec); err != nil {
			return err
		}

		rev := Revision{
			RevisionID: revisionID,
			ProjectID:  projectID,
			CreatedAt:  now,
			Note:       note,
			Input:      rawInput,
			InputHash:  artifact.InputHash,
			Artifact:   artJSON,
		}
		if err := putJSON(tx.Bucket(bucketRevisions), revisionID, rev); err != nil {
			return err
		}
		return tx.Bucket(bucketRevIndex).Put(indexKey(projectID, revisionID), nil)
	})
	if err != nil {
		return "", "", err
	}
	s.logger.Debug("revision saved",
		zap.String("project_id", projectID),
		zap.String("revision_id", revisionID),
		zap.String("input_hash", artifact.InputHash))
	return projectID, revisionID, nil
}

// ListProjects returns all project records, most recently updated
// first.
func (s *Store) ListProjects() ([]ProjectRecord, error) {
	var out []ProjectRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketProjects).ForEach(func(_, v []byte) error {
			var rec ProjectRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			out = append(out, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ProjectID < out[j].ProjectID
	})
	return out, nil
}

// ListRevisions returns the summaries of a project's revisions, newest
// first.
func (s *Store) ListRevisions(projectID string) ([]RevisionSummary, error) {
	var out []RevisionSummary
	err := s.db.View(func(tx *bolt.Tx) error {
		revisions := tx.Bucket(bucketRevisions)
		c := tx.Bucket(bucketRevIndex).Cursor()
		prefix := append([]byte(projectID), 0)
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			revID := string(k[len(prefix):])
			raw := revisions.Get([]byte(revID))
			if raw == nil {
				continue
			}
			var rev Revision
			if err := json.Unmarshal(raw, &rev); err != nil {
				return err
			}
			out = append(out, RevisionSummary{
				RevisionID: rev.RevisionID,
				ProjectID:  rev.ProjectID,
				CreatedAt:  rev.CreatedAt,
				Note:       rev.Note,
				InputHash:  rev.InputHash,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].RevisionID < out[j].RevisionID
	})
	return out, nil
}

// GetRevision fetches one stored revision.
func (s *Store) GetRevision(revisionID string) (*Revision, error) {
	var rev Revision
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketRevisions).Get([]byte(revisionID))
		if raw == nil {
			return fmt.Errorf("revision %s: %w", revisionID, ErrNotFound)
		}
		return json.Unmarshal(raw, &rev)
	})
	if err != nil {
		return nil, err
	}
	return &rev, nil
}

// ArtifactOf decodes a stored revision's artifact.
func (r *Revision) ArtifactOf() (*rackwise.Artifact, error) {
	var a rackwise.Artifact
	if err := json.Unmarshal(r.Artifact, &a); err != nil {
		return nil, fmt.Errorf("revision %s: decoding artifact: %v", r.RevisionID, err)
	}
	return &a, nil
}

// SaveTrial parks an unsaved run under a caller-supplied ID,
// replacing any previous trial with the same ID.
func (s *Store) SaveTrial(trialID string, rawInput []byte, artifact *rackwise.Artifact) error {
	artJSON, err := json.Marshal(artifact)
	if err != nil {
		return err
	}
	trial := Trial{
		TrialID:   trialID,
		CreatedAt: time.Now().UTC(),
		Input:     rawInput,
		Artifact:  artJSON,
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return putJSON(tx.Bucket(bucketTrials), trialID, trial)
	})
}

// GetTrial fetches a parked trial.
func (s *Store) GetTrial(trialID string) (*Trial, error) {
	var trial Trial
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketTrials).Get([]byte(trialID))
		if raw == nil {
			return fmt.Errorf("trial %s: %w", trialID, ErrNotFound)
		}
		return json.Unmarshal(raw, &trial)
	})
	if err != nil {
		return nil, err
	}
	return &trial, nil
}

func putJSON(b *bolt.Bucket, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put([]byte(key), raw)
}

func indexKey(projectID, revisionID string) []byte {
	k := append([]byte(projectID), 0)
	return append(k, revisionID...)
}
