// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/group-table/coordinator"
	"github.com/danielhkuo/group-table/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is enforced by the surrounding middleware; the session id is the
	// capability here, same as the REST surface.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler streams live session views over a websocket.
type WSHandler struct {
	coord *coordinator.Coordinator
}

func NewWSHandler(coord *coordinator.Coordinator) *WSHandler {
	return &WSHandler{coord: coord}
}

// Stream handles GET /sessions/{id}/ws. Every accepted write to the
// session document arrives as one JSON view frame; the first frame is the
// current state. Browsers cannot set headers on websocket dials, so the
// device id is also accepted as a ?device query parameter.
//
// The connection closes when the session ends, the document disappears, or
// the client hangs up.
func (h *WSHandler) Stream(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	deviceID := middleware.DeviceID(r)
	if deviceID == "" {
		deviceID = r.URL.Query().Get("device")
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "session_id", sessionID, "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reader goroutine: we never expect client frames, but reading is how
	// gorilla surfaces close frames and dead connections.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	err = h.coord.Watch(ctx, sessionID, deviceID, func(v coordinator.View) {
		if err := conn.WriteJSON(v); err != nil {
			cancel()
		}
	})
	if err != nil && ctx.Err() == nil {
		slog.Warn("session stream ended with error", "session_id", sessionID, "error", err)
	}

	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
