package server

import (
	"net/http"
	"strings"

	"divicards/internal/grouping"
	"divicards/internal/pricing"
)

type boardRequest struct {
	League string `json:"league"`
}

func (s *Server) boardStates() []pricing.BoardState {
	states := make([]pricing.BoardState, 0, len(grouping.Categories))
	for _, c := range grouping.Categories {
		states = append(states, s.boards[c].State())
	}
	return states
}

// SetLeague switches every board to league.
func (s *Server) SetLeague(league string) {
	for _, c := range grouping.Categories {
		s.boards[c].SetLeague(league)
	}
	s.log.Info("Price boards switched", "league", league)
}

// handleGetBoard returns the state of every category board
func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.boardStates())
}

// handlePutBoard switches every board to a league. Older loads are
// superseded.
func (s *Server) handlePutBoard(w http.ResponseWriter, r *http.Request) {
	var req boardRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	league := strings.TrimSpace(req.League)
	if league == "" {
		respondError(w, http.StatusBadRequest, "league is required")
		return
	}

	s.SetLeague(league)
	respondJSON(w, http.StatusAccepted, s.boardStates())
}
