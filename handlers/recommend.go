// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/group-table/middleware"
	"github.com/danielhkuo/group-table/models"
	"github.com/danielhkuo/group-table/provider"
)

// RecommendHandler exposes the restaurant search directly, outside any
// session. Useful for previewing filters before creating a session, and it
// keeps the provider API key server-side.
type RecommendHandler struct {
	provider provider.Provider
}

func NewRecommendHandler(p provider.Provider) *RecommendHandler {
	return &RecommendHandler{provider: p}
}

// Recommend handles POST /recommendations.
func (h *RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	restaurants, err := h.provider.Fetch(r.Context(), req.Filters, req.ExcludeNames)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RecommendResponse{
		Restaurants: restaurants,
	})
}
