package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"divicards/internal/export"
	"divicards/internal/grouping"
	"divicards/internal/sample"
	"divicards/internal/stash"
	"divicards/internal/storage"
)

type sampleRequest struct {
	League string   `json:"league"`
	TabIDs []string `json:"tab_ids"`
}

// handleCreateSample builds a divination card sample from the selected tabs
func (s *Server) handleCreateSample(w http.ResponseWriter, r *http.Request) {
	var req sampleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.League = strings.TrimSpace(req.League)
	if req.League == "" || len(req.TabIDs) == 0 {
		respondError(w, http.StatusBadRequest, "league and tab_ids are required")
		return
	}

	ctx := r.Context()
	tabs, err := s.loader.Tabs(ctx, req.League)
	if err != nil {
		s.respondLoadError(w, err, "Failed to load stash tabs")
		return
	}

	sel, err := stash.SelectIDs(tabs, req.TabIDs)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	loaded, err := stash.LoadTabs(ctx, s.loader, req.League, sel.Selected(tabs), stash.DefaultFetchLimit)
	if err != nil {
		s.respondLoadError(w, err, "Failed to load stash tab")
		return
	}

	res := s.prices(ctx, grouping.DivinationCard, req.League)
	smp := sample.Build(req.League, loaded, res)
	if err := s.store.SaveSample(smp); err != nil {
		s.log.Error("Failed to save sample", err, "id", smp.ID)
		respondError(w, http.StatusInternalServerError, "Failed to save sample")
		return
	}

	respondJSON(w, http.StatusCreated, smp)
}

// handleListSamples returns stored sample summaries, newest first
func (s *Server) handleListSamples(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListSamples()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list samples")
		return
	}

	respondJSON(w, http.StatusOK, list)
}

func (s *Server) loadSample(w http.ResponseWriter, r *http.Request) (sample.Sample, bool) {
	id := chi.URLParam(r, "id")

	smp, err := s.store.GetSample(id)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Sample not found")
		return sample.Sample{}, false
	}
	if err != nil {
		s.log.Error("Failed to fetch sample", err, "id", id)
		respondError(w, http.StatusInternalServerError, "Failed to fetch sample")
		return sample.Sample{}, false
	}
	return smp, true
}

// handleGetSample returns a sample by ID
func (s *Server) handleGetSample(w http.ResponseWriter, r *http.Request) {
	smp, ok := s.loadSample(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, smp)
}

// handleGetSampleCSV downloads a sample as CSV
func (s *Server) handleGetSampleCSV(w http.ResponseWriter, r *http.Request) {
	smp, ok := s.loadSample(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="sample-%s.csv"`, smp.ID))
	if err := export.WriteCSV(w, smp); err != nil {
		s.log.Error("Failed to write sample csv", err, "id", smp.ID)
	}
}

// handleDeleteSample removes a sample
func (s *Server) handleDeleteSample(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := s.store.DeleteSample(id)
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Sample not found")
		return
	}
	if err != nil {
		s.log.Error("Failed to delete sample", err, "id", id)
		respondError(w, http.StatusInternalServerError, "Failed to delete sample")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
