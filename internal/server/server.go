// Package server exposes stash tabs, price boards and samples over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"divicards/internal/grouping"
	"divicards/internal/models"
	"divicards/internal/pricing"
	"divicards/internal/sample"
	"divicards/internal/stashapi"
	"divicards/internal/storage"
	"divicards/pkg/core"
	"divicards/pkg/logger"
)

// TabLoader is the part of *stashapi.Loader the server uses.
type TabLoader interface {
	Tabs(ctx context.Context, league string) ([]models.StashTab, error)
	Tab(ctx context.Context, league, tabID, subtabID string) (models.StashTab, error)
	TabFromBadge(ctx context.Context, league string, badge models.StashTab) (models.StashTab, error)
}

// SampleStore is the part of *storage.DB the server uses.
type SampleStore interface {
	SaveSample(s sample.Sample) error
	GetSample(id string) (sample.Sample, error)
	ListSamples() ([]storage.Summary, error)
	DeleteSample(id string) error
}

// Server holds the HTTP server dependencies
type Server struct {
	loader  TabLoader
	fetcher *pricing.Fetcher
	store   SampleStore
	log     core.Logger
	origins []string

	boards map[grouping.Category]*pricing.Board
	cancel context.CancelFunc

	router chi.Router
}

type Option func(*Server)

func WithLogger(l core.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithAllowedOrigins sets the CORS origins; patterns like
// "http://localhost:*" are accepted.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// New creates a new API server with one price board per category.
func New(loader TabLoader, fetcher *pricing.Fetcher, store SampleStore, opts ...Option) *Server {
	s := &Server{
		loader:  loader,
		fetcher: fetcher,
		store:   store,
		log:     logger.Nop(),
		origins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		boards:  make(map[grouping.Category]*pricing.Board, len(grouping.Categories)),
		router:  chi.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	for _, c := range grouping.Categories {
		s.boards[c] = pricing.NewBoard(ctx, c, fetcher, pricing.WithBoardLogger(s.log))
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Wait blocks until every board fetch started so far has finished.
func (s *Server) Wait() {
	for _, b := range s.boards {
		b.Wait()
	}
}

// Close cancels in-flight board fetches.
func (s *Server) Close() {
	s.cancel()
	for _, b := range s.boards {
		b.Close()
	}
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	s.Close()
	return nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(s.logRequests)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		// Stash
		r.Get("/leagues/{league}/tabs", s.handleGetTabs)
		r.Get("/leagues/{league}/tabs/{tabID}", s.handleGetTab)
		r.Get("/leagues/{league}/tabs/{tabID}/rows", s.handleGetRows)

		// Price boards
		r.Get("/board", s.handleGetBoard)
		r.Put("/board", s.handlePutBoard)

		// Samples
		r.Post("/samples", s.handleCreateSample)
		r.Get("/samples", s.handleListSamples)
		r.Get("/samples/{id}", s.handleGetSample)
		r.Get("/samples/{id}/csv", s.handleGetSampleCSV)
		r.Delete("/samples/{id}", s.handleDeleteSample)
	})

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.log.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// respondLoadError maps trade API failures onto HTTP statuses.
func (s *Server) respondLoadError(w http.ResponseWriter, err error, msg string) {
	var apiErr *stashapi.APIError
	switch {
	case errors.Is(err, stashapi.ErrUnauthorized):
		s.log.Warn("Stash request unauthorized", "error", err.Error())
		respondError(w, http.StatusUnauthorized, "access token missing, expired or lacking the account:stashes scope")
	case errors.As(err, &apiErr):
		s.log.Error(msg, err, "status", apiErr.Status)
		respondError(w, http.StatusBadGateway, apiErr.Message)
	default:
		s.log.Error(msg, err)
		respondError(w, http.StatusBadGateway, msg)
	}
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
