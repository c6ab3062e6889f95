// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/group-table/archive"
	"github.com/danielhkuo/group-table/middleware"
)

const defaultArchiveLimit = 20

// ArchiveHandler lists archived sessions. Registered only when an archive
// database is configured.
type ArchiveHandler struct {
	archive *archive.Archive
}

func NewArchiveHandler(a *archive.Archive) *ArchiveHandler {
	return &ArchiveHandler{archive: a}
}

// Recent handles GET /archive/recent?limit=N.
func (h *ArchiveHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultArchiveLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	records, err := h.archive.Recent(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}
	if records == nil {
		records = []archive.Record{}
	}
	middleware.JSONResponse(w, http.StatusOK, records)
}
