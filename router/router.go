// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/group-table/archive"
	"github.com/danielhkuo/group-table/coordinator"
	"github.com/danielhkuo/group-table/handlers"
	"github.com/danielhkuo/group-table/middleware"
	"github.com/danielhkuo/group-table/provider"
)

// NewRouter wires every endpoint. The archive may be nil, in which case
// the listing endpoint is not registered.
func NewRouter(coord *coordinator.Coordinator, prov provider.Provider, arch *archive.Archive) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(coord)
	votingHandler := handlers.NewVotingHandler(coord)
	wsHandler := handlers.NewWSHandler(coord)
	recommendHandler := handlers.NewRecommendHandler(prov)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Session lifecycle (host operations require the host device id)
	mux.HandleFunc("POST /sessions", middleware.WithLogging(sessionHandler.Create))
	mux.HandleFunc("GET /sessions/{id}", middleware.WithLogging(sessionHandler.Get))
	mux.HandleFunc("GET /sessions/{id}/view", middleware.WithLogging(sessionHandler.GetView))
	mux.HandleFunc("POST /sessions/{id}/join", middleware.WithLogging(sessionHandler.Join))
	mux.HandleFunc("POST /sessions/{id}/start", middleware.WithLogging(sessionHandler.Start))
	mux.HandleFunc("POST /sessions/{id}/load-more", middleware.WithLogging(sessionHandler.LoadMore))
	mux.HandleFunc("POST /sessions/{id}/end", middleware.WithLogging(sessionHandler.End))

	// Swiping operations (any participant)
	mux.HandleFunc("POST /sessions/{id}/votes", middleware.WithLogging(votingHandler.Vote))
	mux.HandleFunc("POST /sessions/{id}/finished", middleware.WithLogging(votingHandler.Finish))

	// Live view stream (logging middleware would hold the connection open
	// in its timing span, so the stream is registered bare)
	mux.HandleFunc("GET /sessions/{id}/ws", wsHandler.Stream)

	// Standalone restaurant search
	mux.HandleFunc("POST /recommendations", middleware.WithLogging(recommendHandler.Recommend))

	// Archived sessions
	if arch != nil {
		archiveHandler := handlers.NewArchiveHandler(arch)
		mux.HandleFunc("GET /archive/recent", middleware.WithLogging(archiveHandler.Recent))
	}

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("group-table API v1"))
	})

	return mux
}
