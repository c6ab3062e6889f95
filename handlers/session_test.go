// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/group-table/coordinator"
	"github.com/danielhkuo/group-table/models"
	"github.com/danielhkuo/group-table/store"
	"github.com/danielhkuo/group-table/testutil"
)

type testEnv struct {
	coord    *coordinator.Coordinator
	store    *store.MemoryStore
	provider *testutil.StubProvider
	sessions *SessionHandler
	voting   *VotingHandler
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	st := store.NewMemoryStore()
	t.Cleanup(func() { st.Close() })

	prov := &testutil.StubProvider{Results: [][]models.Restaurant{testutil.Restaurants(3)}}
	coord := coordinator.New(st, prov, nil)
	return &testEnv{
		coord:    coord,
		store:    st,
		provider: prov,
		sessions: NewSessionHandler(coord),
		voting:   NewVotingHandler(coord),
	}
}

// swipingSession seeds a full swiping-phase session directly in the store.
// The host is d1.
func (e *testEnv) swipingSession(t *testing.T, id string) *models.Session {
	t.Helper()
	s := testutil.Session(id, 2, 2, 3)
	if err := e.store.Create(context.Background(), s); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return s
}

func TestCreateSession(t *testing.T) {
	env := setup(t)

	req := testutil.MakeRequest("POST", "/sessions", models.CreateSessionRequest{
		GroupSize: 3,
		Filters:   models.Filters{Cuisines: []string{"Thai"}},
	}, testutil.DeviceHeader("host-device"))
	w := httptest.NewRecorder()

	env.sessions.Create(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CreateSessionResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.SessionID == "" {
		t.Fatal("empty session id")
	}

	s, err := env.coord.Get(context.Background(), resp.SessionID)
	if err != nil {
		t.Fatalf("created session not stored: %v", err)
	}
	if s.HostID != "host-device" || s.Status != models.StatusWaiting {
		t.Errorf("session = %+v", s)
	}
}

func TestCreateSessionValidation(t *testing.T) {
	env := setup(t)

	// Missing device header
	req := testutil.MakeRequest("POST", "/sessions", models.CreateSessionRequest{GroupSize: 2}, nil)
	w := httptest.NewRecorder()
	env.sessions.Create(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	// Zero group size
	req = testutil.MakeRequest("POST", "/sessions", models.CreateSessionRequest{GroupSize: 0}, testutil.DeviceHeader("d1"))
	w = httptest.NewRecorder()
	env.sessions.Create(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestGetSession(t *testing.T) {
	env := setup(t)
	env.swipingSession(t, "s1")

	req := testutil.MakeRequest("GET", "/sessions/s1", nil, nil)
	req.SetPathValue("id", "s1")
	w := httptest.NewRecorder()

	env.sessions.Get(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var s models.Session
	testutil.AssertJSON(t, w, &s)
	if s.ID != "s1" || len(s.Restaurants) != 3 {
		t.Errorf("session = %+v", s)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	env := setup(t)

	req := testutil.MakeRequest("GET", "/sessions/missing", nil, nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	env.sessions.Get(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestGetView(t *testing.T) {
	env := setup(t)
	env.swipingSession(t, "s1")

	req := testutil.MakeRequest("GET", "/sessions/s1/view", nil, testutil.DeviceHeader("d1"))
	req.SetPathValue("id", "s1")
	w := httptest.NewRecorder()

	env.sessions.GetView(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var v coordinator.View
	testutil.AssertJSON(t, w, &v)
	if !v.IsHost {
		t.Error("host view: IsHost = false")
	}
	if v.Phase != models.StatusSwiping {
		t.Errorf("Phase = %s", v.Phase)
	}
}

func TestJoinSession(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	s, _ := env.coord.Create(ctx, "host", 3, models.Filters{})

	req := testutil.MakeRequest("POST", "/sessions/"+s.ID+"/join", models.JoinSessionRequest{
		Name:  "Grace Hopper",
		Email: "grace@example.com",
	}, testutil.DeviceHeader("guest-1"))
	req.SetPathValue("id", s.ID)
	w := httptest.NewRecorder()

	env.sessions.Join(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.JoinSessionResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Participant.ID != "guest-1" || resp.Participant.Initials != "GH" {
		t.Errorf("participant = %+v", resp.Participant)
	}
}

func TestJoinSessionErrors(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	s, _ := env.coord.Create(ctx, "host", 2, models.Filters{})
	env.coord.Join(ctx, s.ID, "g1", "Guest One", "g1@example.com")

	tests := []struct {
		name       string
		deviceID   string
		body       models.JoinSessionRequest
		wantStatus int
	}{
		{"missing name", "g2", models.JoinSessionRequest{Email: "g2@example.com"}, http.StatusBadRequest},
		{"missing email", "g2", models.JoinSessionRequest{Name: "Guest"}, http.StatusBadRequest},
		{"reserved host seat", "g2", models.JoinSessionRequest{Name: "Guest", Email: "g2@example.com"}, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/sessions/"+s.ID+"/join", tt.body, testutil.DeviceHeader(tt.deviceID))
			req.SetPathValue("id", s.ID)
			w := httptest.NewRecorder()

			env.sessions.Join(w, req)
			testutil.AssertStatus(t, w, tt.wantStatus)
		})
	}
}

func TestJoinEndedSession(t *testing.T) {
	env := setup(t)
	env.swipingSession(t, "s1")
	env.coord.End(context.Background(), "s1", "d1")

	req := testutil.MakeRequest("POST", "/sessions/s1/join", models.JoinSessionRequest{
		Name:  "Late Guest",
		Email: "late@example.com",
	}, testutil.DeviceHeader("d9"))
	req.SetPathValue("id", "s1")
	w := httptest.NewRecorder()

	env.sessions.Join(w, req)
	testutil.AssertStatus(t, w, http.StatusGone)
}

func TestStartSession(t *testing.T) {
	env := setup(t)
	ctx := context.Background()
	s, _ := env.coord.Create(ctx, "host", 2, models.Filters{})
	env.coord.Join(ctx, s.ID, "host", "Holly Host", "holly@example.com")
	env.coord.Join(ctx, s.ID, "g1", "Guest One", "g1@example.com")

	req := testutil.MakeRequest("POST", "/sessions/"+s.ID+"/start", nil, testutil.DeviceHeader("host"))
	req.SetPathValue("id", s.ID)
	w := httptest.NewRecorder()

	env.sessions.Start(w, req)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	cur, _ := env.coord.Get(ctx, s.ID)
	if cur.Status != models.StatusSwiping {
		t.Errorf("Status = %s, want swiping", cur.Status)
	}
}

func TestStartSessionForbiddenForGuests(t *testing.T) {
	env := setup(t)
	env.swipingSession(t, "s1")

	req := testutil.MakeRequest("POST", "/sessions/s1/start", nil, testutil.DeviceHeader("d2"))
	req.SetPathValue("id", "s1")
	w := httptest.NewRecorder()

	env.sessions.Start(w, req)
	testutil.AssertStatus(t, w, http.StatusForbidden)
}

func TestLoadMoreSession(t *testing.T) {
	env := setup(t)
	env.provider.Results = [][]models.Restaurant{{{ID: "r99", Name: "Brand New"}}}
	env.swipingSession(t, "s1")

	req := testutil.MakeRequest("POST", "/sessions/s1/load-more", nil, testutil.DeviceHeader("d1"))
	req.SetPathValue("id", "s1")
	w := httptest.NewRecorder()

	env.sessions.LoadMore(w, req)
	testutil.AssertStatus(t, w, http.StatusAccepted)

	cur, _ := env.coord.Get(context.Background(), "s1")
	if len(cur.Restaurants) != 1 || cur.Restaurants[0].ID != "r99" {
		t.Errorf("restaurants = %+v", cur.Restaurants)
	}
}

func TestEndSession(t *testing.T) {
	env := setup(t)
	env.swipingSession(t, "s1")

	// Guests cannot end
	req := testutil.MakeRequest("POST", "/sessions/s1/end", nil, testutil.DeviceHeader("d2"))
	req.SetPathValue("id", "s1")
	w := httptest.NewRecorder()
	env.sessions.End(w, req)
	testutil.AssertStatus(t, w, http.StatusForbidden)

	req = testutil.MakeRequest("POST", "/sessions/s1/end", nil, testutil.DeviceHeader("d1"))
	req.SetPathValue("id", "s1")
	w = httptest.NewRecorder()
	env.sessions.End(w, req)
	testutil.AssertStatus(t, w, http.StatusNoContent)

	cur, _ := env.coord.Get(context.Background(), "s1")
	if cur.Status != models.StatusEnded {
		t.Errorf("Status = %s, want ended", cur.Status)
	}
}
