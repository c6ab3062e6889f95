// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/group-table/coordinator"
	"github.com/danielhkuo/group-table/middleware"
	"github.com/danielhkuo/group-table/models"
)

// VotingHandler serves per-participant swipe actions: votes and the
// finished flag.
type VotingHandler struct {
	coord *coordinator.Coordinator
}

func NewVotingHandler(coord *coordinator.Coordinator) *VotingHandler {
	return &VotingHandler{coord: coord}
}

// Vote handles POST /sessions/{id}/votes. The response reports whether the
// session is matched after this vote; repeated votes for the same
// restaurant are accepted and change nothing.
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	deviceID := middleware.DeviceID(r)
	if deviceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "X-Device-UUID header required")
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.RestaurantID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "restaurant_id required")
		return
	}

	s, err := h.coord.Vote(r.Context(), r.PathValue("id"), deviceID, req.RestaurantID)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		Matched: s.Status == models.StatusMatched,
		MatchID: s.MatchID,
	})
}

// Finish handles POST /sessions/{id}/finished: the participant has swiped
// through the current list.
func (h *VotingHandler) Finish(w http.ResponseWriter, r *http.Request) {
	deviceID := middleware.DeviceID(r)
	if deviceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "X-Device-UUID header required")
		return
	}

	if err := h.coord.Finish(r.Context(), r.PathValue("id"), deviceID); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
