// Package api exposes the HTTP interface for the snapshot generator:
// the on-demand full-recompute endpoints plus health and metrics.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bilikmatch/seogen/internal/config"
	"github.com/bilikmatch/seogen/internal/metrics"
	"github.com/bilikmatch/seogen/internal/pipeline"
	"github.com/bilikmatch/seogen/internal/seo"

	"go.uber.org/zap"
)

// Regenerator is the bulk full-recompute path.
type Regenerator interface {
	RegenerateAll(ctx context.Context, kind seo.EntityKind) (pipeline.BulkResult, error)
}

// SitemapRebuilder rebuilds the aggregate sitemap artifact.
type SitemapRebuilder interface {
	RebuildSitemap(ctx context.Context) (int, error)
}

// Server wires HTTP handlers to the on-demand pipelines.
type Server struct {
	router    chi.Router
	bulk      Regenerator
	refresher SitemapRebuilder
	cfg       config.Config
	logger    *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(bulk Regenerator, refresher SitemapRebuilder, cfg config.Config, logger *zap.Logger) *Server {
	s := &Server{
		bulk:      bulk,
		refresher: refresher,
		cfg:       cfg,
		logger:    logger,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(timeoutMiddleware(9 * time.Minute))
	if cfg.Auth.Enabled {
		r.Use(apiKeyMiddleware(cfg.Auth.APIKey))
	}

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/listings/regenerate", s.regenerateListings)
		r.Post("/tenants/regenerate", s.regenerateTenants)
		r.Post("/sitemap/rebuild", s.rebuildSitemap)
	})

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(s.logger, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(s.logger, w, http.StatusOK, map[string]string{"status": "ready"})
}

// regenerateListings runs the full-recompute path over the listing
// collection. The response contract is plain text: a success line with
// the number of artifacts actually written, or a 500 carrying the
// error message.
func (s *Server) regenerateListings(w http.ResponseWriter, r *http.Request) {
	res, err := s.bulk.RegenerateAll(r.Context(), seo.KindListing)
	if err != nil {
		writeText(s.logger, w, http.StatusInternalServerError, fmt.Sprintf("Error: %s", err))
		return
	}
	writeText(s.logger, w, http.StatusOK,
		fmt.Sprintf("Success! Generated HTML for %d posts.", res.Written))
}

func (s *Server) regenerateTenants(w http.ResponseWriter, r *http.Request) {
	res, err := s.bulk.RegenerateAll(r.Context(), seo.KindTenant)
	if err != nil {
		writeText(s.logger, w, http.StatusInternalServerError, fmt.Sprintf("Error: %s", err))
		return
	}
	writeText(s.logger, w, http.StatusOK,
		fmt.Sprintf("Success! Generated HTML for %d tenant profiles.", res.Written))
}

func (s *Server) rebuildSitemap(w http.ResponseWriter, r *http.Request) {
	if _, err := s.refresher.RebuildSitemap(r.Context()); err != nil {
		writeText(s.logger, w, http.StatusInternalServerError, fmt.Sprintf("Error: %s", err))
		return
	}
	writeText(s.logger, w, http.StatusOK, "Sitemap generated.")
}

func writeText(logger *zap.Logger, w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(msg)); err != nil {
		logger.Error("write text response failed", zap.Error(err))
	}
}

func writeJSON(logger *zap.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("write JSON failed", zap.Error(err))
	}
}
