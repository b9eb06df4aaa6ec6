package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"divicards/internal/grouping"
	"divicards/internal/pricing"
)

const (
	defaultPerPage = 25
	maxPerPage     = 500
)

// rowsResponse is one page of priced rows of a tab.
type rowsResponse struct {
	TabID       string            `json:"tab_id"`
	TabName     string            `json:"tab_name"`
	Category    grouping.Category `json:"category"`
	Sort        pricing.Column    `json:"sort"`
	Dir         pricing.Direction `json:"dir"`
	Range       string            `json:"range,omitempty"`
	SumTotal    float64           `json:"sum_total"`
	PriceLeague string            `json:"price_league,omitempty"`
	PriceError  string            `json:"price_error,omitempty"`
	pricing.Page
}

// handleGetTabs lists the flattened tabs of a league
func (s *Server) handleGetTabs(w http.ResponseWriter, r *http.Request) {
	league := chi.URLParam(r, "league")

	tabs, err := s.loader.Tabs(r.Context(), league)
	if err != nil {
		s.respondLoadError(w, err, "Failed to load stash tabs")
		return
	}

	respondJSON(w, http.StatusOK, tabs)
}

// handleGetTab returns one tab with its items
func (s *Server) handleGetTab(w http.ResponseWriter, r *http.Request) {
	league := chi.URLParam(r, "league")
	tabID := chi.URLParam(r, "tabID")

	tab, err := s.loader.Tab(r.Context(), league, tabID, r.URL.Query().Get("subtab"))
	if err != nil {
		s.respondLoadError(w, err, "Failed to load stash tab")
		return
	}

	respondJSON(w, http.StatusOK, tab)
}

// handleGetRows groups, prices, sorts and paginates the items of a tab
func (s *Server) handleGetRows(w http.ResponseWriter, r *http.Request) {
	league := chi.URLParam(r, "league")
	tabID := chi.URLParam(r, "tabID")
	q := r.URL.Query()

	category := grouping.DivinationCard
	if v := q.Get("category"); v != "" {
		c, err := grouping.ParseCategory(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		category = c
	}

	col, dir := pricing.ColumnTotal, pricing.Desc
	if v := q.Get("sort"); v != "" {
		c, err := pricing.ParseColumn(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		col, dir = c, pricing.Asc
	}
	if v := q.Get("dir"); v != "" {
		d, err := pricing.ParseDirection(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		dir = d
	}

	page, ok := intParam(q.Get("page"), 1)
	if !ok {
		respondError(w, http.StatusBadRequest, "page must be an integer")
		return
	}
	perPage, ok := intParam(q.Get("per_page"), defaultPerPage)
	if !ok || perPage < 1 || perPage > maxPerPage {
		respondError(w, http.StatusBadRequest, "per_page must be between 1 and 500")
		return
	}

	tab, err := s.loader.Tab(r.Context(), league, tabID, q.Get("subtab"))
	if err != nil {
		s.respondLoadError(w, err, "Failed to load stash tab")
		return
	}

	res := s.prices(r.Context(), category, league)
	rows := pricing.Annotate(grouping.GroupItems(category, tab.Items), res.Prices)
	pricing.SortRows(rows, col, dir)
	p := pricing.PageOf(rows, page, perPage)

	respondJSON(w, http.StatusOK, rowsResponse{
		TabID:       tab.ID,
		TabName:     tab.Name,
		Category:    category,
		Sort:        col,
		Dir:         dir,
		Range:       p.Label(),
		SumTotal:    pricing.Sum(rows),
		PriceLeague: res.PriceLeague,
		PriceError:  res.ErrorMessage(),
		Page:        p,
	})
}

// prices reuses the board of c when it holds loaded prices for league and
// fetches directly otherwise.
func (s *Server) prices(ctx context.Context, c grouping.Category, league string) pricing.Result {
	if b, ok := s.boards[c]; ok {
		st := b.State()
		if st.League == league && !st.Loading && st.Error == "" {
			return pricing.Result{
				Category:    c,
				League:      league,
				PriceLeague: st.PriceLeague,
				Prices:      st.Prices,
			}
		}
	}
	return s.fetcher.Fetch(ctx, c, league)
}

func intParam(v string, fallback int) (int, bool) {
	if v == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
