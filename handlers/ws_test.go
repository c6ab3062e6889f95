// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/group-table/coordinator"
	"github.com/danielhkuo/group-table/models"
)

func dialStream(t *testing.T, env *testEnv, sessionID, deviceID string) *websocket.Conn {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /sessions/{id}/ws", NewWSHandler(env.coord).Stream)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + sessionID + "/ws?device=" + deviceID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	return conn
}

func TestStreamDeliversViews(t *testing.T) {
	env := setup(t)
	env.swipingSession(t, "s1")

	conn := dialStream(t, env, "s1", "d1")

	// First frame is the current state
	var v coordinator.View
	if err := conn.ReadJSON(&v); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if v.Phase != models.StatusSwiping || !v.IsHost {
		t.Errorf("initial view = %+v", v)
	}

	// A vote lands as a new frame
	ctx := context.Background()
	env.coord.Vote(ctx, "s1", "d1", "r1")
	env.coord.Vote(ctx, "s1", "d2", "r1")

	deadline := time.Now().Add(3 * time.Second)
	for {
		if err := conn.ReadJSON(&v); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		if v.Phase == models.StatusMatched {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no matched view delivered")
		}
	}
	if v.MatchedRestaurant == nil || v.MatchedRestaurant.ID != "r1" {
		t.Errorf("matched view = %+v", v)
	}
}

func TestStreamClosesOnSessionEnd(t *testing.T) {
	env := setup(t)
	env.swipingSession(t, "s1")

	conn := dialStream(t, env, "s1", "d2")

	var v coordinator.View
	if err := conn.ReadJSON(&v); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}

	env.coord.End(context.Background(), "s1", "d1")

	// The ended view arrives, then the server closes the connection
	sawEnded := false
	for {
		if err := conn.ReadJSON(&v); err != nil {
			break
		}
		if v.Phase == models.StatusEnded {
			sawEnded = true
		}
	}
	if !sawEnded {
		t.Error("ended view never delivered before close")
	}
}

func TestStreamUnknownSession(t *testing.T) {
	env := setup(t)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /sessions/{id}/ws", NewWSHandler(env.coord).Stream)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/missing/ws?device=d1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		// Upgrade refused is acceptable for an unknown session
		return
	}
	defer conn.Close()

	// Otherwise the server closes immediately without delivering frames
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var v coordinator.View
	if err := conn.ReadJSON(&v); err == nil {
		t.Error("received a view for an unknown session")
	}
}
