// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/group-table/models"
)

// StubProvider is a scriptable restaurant source. Results are returned in
// order, one slice per Fetch call; when the script runs out the last entry
// repeats. Set Err to fail every call instead.
type StubProvider struct {
	mu      sync.Mutex
	Results [][]models.Restaurant
	Err     error

	calls    int
	excludes [][]string
}

func (p *StubProvider) Fetch(ctx context.Context, filters models.Filters, excludeNames []string) ([]models.Restaurant, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	p.excludes = append(p.excludes, append([]string(nil), excludeNames...))

	if p.Err != nil {
		return nil, p.Err
	}
	if len(p.Results) == 0 {
		return nil, nil
	}
	i := p.calls - 1
	if i >= len(p.Results) {
		i = len(p.Results) - 1
	}
	return p.Results[i], nil
}

// Calls returns how many times Fetch ran.
func (p *StubProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// Excludes returns the exclude-names argument of each Fetch call.
func (p *StubProvider) Excludes() [][]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.excludes
}

// Restaurants builds n distinct candidates with ids r1..rn.
func Restaurants(n int) []models.Restaurant {
	out := make([]models.Restaurant, n)
	for i := range out {
		out[i] = models.Restaurant{
			ID:      fmt.Sprintf("r%d", i+1),
			Name:    fmt.Sprintf("Restaurant %d", i+1),
			Cuisine: "Italian",
			Rating:  4.0,
		}
	}
	return out
}

// Participants builds n joined participants with ids d1..dn.
func Participants(n int) []models.Participant {
	out := make([]models.Participant, n)
	for i := range out {
		out[i] = models.Participant{
			ID:       fmt.Sprintf("d%d", i+1),
			Name:     fmt.Sprintf("Person %d", i+1),
			Email:    fmt.Sprintf("p%d@example.com", i+1),
			Initials: "P",
			JoinedAt: time.Now().UTC(),
		}
	}
	return out
}

// Session builds a swiping-phase session with the given seats filled and
// candidates loaded. The host is d1.
func Session(id string, groupSize, joined, candidates int) *models.Session {
	return &models.Session{
		ID:           id,
		HostID:       "d1",
		GroupSize:    groupSize,
		Status:       models.StatusSwiping,
		Restaurants:  Restaurants(candidates),
		Votes:        models.Votes{},
		Participants: Participants(joined),
		CreatedAt:    time.Now().UTC(),
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// DeviceHeader is the header map for one device identity.
func DeviceHeader(deviceID string) map[string]string {
	return map[string]string{"X-Device-UUID": deviceID}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
