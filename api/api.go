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

// Package api serves the allocation engine and the revision store over
// HTTP. Handlers return errors; a wrapper maps them onto JSON error
// bodies and status codes, so handler code stays linear. All
// responses carrying an artifact also carry a strong ETag over the
// artifact JSON, since identical inputs produce byte-identical
// artifacts.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rackwise/rackwise/store"
)

// maxBodyBytes bounds uploaded project documents.
const maxBodyBytes = 16 << 20

// Error is an error with an HTTP status. Handlers return it when the
// default of 500 is wrong.
type Error struct {
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
	Message    string `json:"error"`
}

func (e Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Err.Error()
}

func badRequest(err error) Error {
	return Error{HTTPStatus: http.StatusBadRequest, Err: err}
}

func notFound(err error) Error {
	return Error{HTTPStatus: http.StatusNotFound, Err: err}
}

// Server is the HTTP front of the engine and the store.
type Server struct {
	store   *store.Store
	logger  *zap.Logger
	router  chi.Router
	metrics serverMetrics
}

type serverMetrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	allocDuration prometheus.Histogram
	allocSessions prometheus.Counter
	allocErrors   prometheus.Counter
}

func newServerMetrics() serverMetrics {
	m := serverMetrics{registry: prometheus.NewRegistry()}
	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rackwise",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "HTTP requests served, by method and status code.",
	}, []string{"method", "code"})
	m.allocDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rackwise",
		Name:      "allocation_duration_seconds",
		Help:      "Wall time of allocation runs.",
	})
	m.allocSessions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rackwise",
		Name:      "allocated_sessions_total",
		Help:      "Sessions produced by allocation runs.",
	})
	m.allocErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rackwise",
		Name:      "allocation_capacity_errors_total",
		Help:      "Recoverable capacity errors recorded in artifacts.",
	})
	m.registry.MustRegister(m.requests, m.allocDuration, m.allocSessions, m.allocErrors)
	return m
}

// New builds a server around an open store. The store may be nil, in
// which case only the stateless endpoints are served.
func New(st *store.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		store:   st,
		logger:  logger,
		metrics: newServerMetrics(),
	}

	r := chi.NewRouter()
	r.Use(s.logRequests)
	r.Route("/api", func(r chi.Router) {
		r.Post("/allocate", s.handle(s.handleAllocate))
		if st != nil {
			r.Post("/trials", s.handle(s.handleCreateTrial))
			r.Get("/trials/{id}", s.handle(s.handleGetTrial))
			r.Post("/projects/{name}/revisions", s.handle(s.handleCreateRevision))
			r.Get("/projects", s.handle(s.handleListProjects))
			r.Get("/projects/{id}/revisions", s.handle(s.handleListRevisions))
			r.Get("/revisions/{id}", s.handle(s.handleGetRevision))
			r.Get("/revisions/{id}/sessions.csv", s.handle(s.handleSessionsCSV))
			r.Get("/revisions/{id}/bom.csv", s.handle(s.handleBOMCSV))
			r.Get("/diff/{left}/{right}", s.handle(s.handleDiff))
		}
	})
	r.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	s.router = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

// handle adapts an error-returning handler to http.HandlerFunc,
// translating errors into JSON bodies the way the artifact carries
// its own errors: a single "error" field.
func (s *Server) handle(h func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}
		var apiErr Error
		if !errors.As(err, &apiErr) {
			apiErr = Error{HTTPStatus: http.StatusInternalServerError, Err: err}
		}
		if apiErr.HTTPStatus == 0 {
			apiErr.HTTPStatus = http.StatusInternalServerError
		}
		if apiErr.Message == "" && apiErr.Err != nil {
			apiErr.Message = apiErr.Err.Error()
		}
		if apiErr.HTTPStatus >= 500 {
			s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(apiErr))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(apiErr.HTTPStatus)
		json.NewEncoder(w).Encode(apiErr)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.metrics.requests.WithLabelValues(r.Method, strconv.Itoa(ww.Status())).Inc()
		s.logger.Debug("handled request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

// writeJSON writes v with an ETag derived from the response bytes and
// honors If-None-Match.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	etag := fmt.Sprintf(`"%x"`, xxhash.Sum64(body))
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}
