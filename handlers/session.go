// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/group-table/coordinator"
	"github.com/danielhkuo/group-table/middleware"
	"github.com/danielhkuo/group-table/models"
)

// SessionHandler serves the session lifecycle: create, inspect, join, and
// the host-only transitions.
type SessionHandler struct {
	coord *coordinator.Coordinator
}

func NewSessionHandler(coord *coordinator.Coordinator) *SessionHandler {
	return &SessionHandler{coord: coord}
}

// Create handles POST /sessions. The caller becomes the host; the device
// id from the X-Device-UUID header is the host identity for every later
// host-only check.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	deviceID := middleware.DeviceID(r)
	if deviceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "X-Device-UUID header required")
		return
	}

	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	s, err := h.coord.Create(r.Context(), deviceID, req.GroupSize, req.Filters)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		SessionID: s.ID,
	})
}

// Get handles GET /sessions/{id} and returns the raw shared document.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.coord.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, s)
}

// GetView handles GET /sessions/{id}/view: the document rendered for one
// device, with the derived phase predicates already computed.
func (h *SessionHandler) GetView(w http.ResponseWriter, r *http.Request) {
	view, err := h.coord.View(r.Context(), r.PathValue("id"), middleware.DeviceID(r))
	if err != nil {
		respondError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, view)
}

// Join handles POST /sessions/{id}/join. Rejoining from the same device
// is idempotent and returns the existing participant record.
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	deviceID := middleware.DeviceID(r)
	if deviceID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "X-Device-UUID header required")
		return
	}

	var req models.JoinSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	p, err := h.coord.Join(r.Context(), r.PathValue("id"), deviceID, req.Name, req.Email)
	if err != nil {
		respondError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.JoinSessionResponse{
		Participant: p,
	})
}

// Start handles POST /sessions/{id}/start, the host's waiting -> swiping
// transition.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	if err := h.coord.Start(r.Context(), r.PathValue("id"), middleware.DeviceID(r)); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LoadMore handles POST /sessions/{id}/load-more. The host requests a
// fresh candidate list; the outcome reaches clients through the watch
// stream rather than this response.
func (h *SessionHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	if err := h.coord.LoadMore(r.Context(), r.PathValue("id"), middleware.DeviceID(r)); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// End handles POST /sessions/{id}/end. Terminal for everyone.
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	if err := h.coord.End(r.Context(), r.PathValue("id"), middleware.DeviceID(r)); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
