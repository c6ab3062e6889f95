// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/group-table/coordinator"
	"github.com/danielhkuo/group-table/middleware"
	"github.com/danielhkuo/group-table/models"
	"github.com/danielhkuo/group-table/provider"
	"github.com/danielhkuo/group-table/registry"
	"github.com/danielhkuo/group-table/store"
)

// respondError maps domain errors onto HTTP statuses. Anything unmapped is
// a 500 with the detail kept server-side.
func respondError(w http.ResponseWriter, err error) {
	var admission *registry.AdmissionError
	var providerErr *provider.Error

	switch {
	case errors.Is(err, store.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
	case errors.As(err, &admission):
		middleware.ErrorResponse(w, http.StatusConflict, admission.Error())
	case errors.Is(err, coordinator.ErrNotHost):
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
	case errors.Is(err, coordinator.ErrNotParticipant):
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrSessionEnded):
		middleware.ErrorResponse(w, http.StatusGone, err.Error())
	case errors.Is(err, coordinator.ErrLoadInProgress):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, coordinator.ErrGroupSizeInvalid),
		errors.Is(err, coordinator.ErrNotSwiping),
		errors.Is(err, coordinator.ErrUnknownRestaurant),
		errors.Is(err, registry.ErrNameRequired),
		errors.Is(err, registry.ErrEmailRequired):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &providerErr):
		middleware.ErrorResponse(w, http.StatusBadGateway, "Restaurant search failed")
	default:
		slog.Error("unhandled request error", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}
