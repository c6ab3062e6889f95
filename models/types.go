// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Session status constants
const (
	StatusWaiting = "waiting"
	StatusSwiping = "swiping"
	StatusMatched = "matched"
	StatusEnded   = "ended"
)

// LastAction type constants
const (
	ActionLoadingMore   = "loadingMore"
	ActionLoadMore      = "loadMore"
	ActionLoadMoreEmpty = "loadMoreEmpty"
	ActionLoadMoreError = "loadMoreError"
)

// Request types

type CreateSessionRequest struct {
	GroupSize int     `json:"group_size"`
	Filters   Filters `json:"filters"`
}

type JoinSessionRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type VoteRequest struct {
	RestaurantID string `json:"restaurant_id"`
}

type RecommendRequest struct {
	Filters      Filters  `json:"filters"`
	ExcludeNames []string `json:"exclude_names,omitempty"`
}

// Response types

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

type JoinSessionResponse struct {
	Participant Participant `json:"participant"`
}

type VoteResponse struct {
	Matched bool   `json:"matched"`
	MatchID string `json:"match_id,omitempty"`
}

type RecommendResponse struct {
	Restaurants []Restaurant `json:"restaurants"`
}

// Error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

// Filters is the search criteria a host picks before sharing a session.
// Immutable after creation; load-more keeps the criteria and grows only the
// exclusion list passed to the provider.
type Filters struct {
	Cuisines  []string `json:"cuisines,omitempty"`
	Locations []string `json:"locations,omitempty"`
	Costs     []int    `json:"costs,omitempty"`
	MinRating float64  `json:"min_rating,omitempty"`
	Dietary   []string `json:"dietary,omitempty"`
	Date      string   `json:"date,omitempty"`
	Time      string   `json:"time,omitempty"`
}

type Restaurant struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Cuisine     string  `json:"cuisine,omitempty"`
	Location    string  `json:"location,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	ReviewCount int     `json:"review_count,omitempty"`
	Price       string  `json:"price,omitempty"`
	Image       string  `json:"image,omitempty"`
}

type Participant struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Initials string    `json:"initials"`
	JoinedAt time.Time `json:"joined_at"`
	Finished bool      `json:"finished"`
}

// Votes maps a restaurant id to the ordered set of participant ids that
// voted for it. A participant id appears at most once per restaurant.
type Votes map[string][]string

// LastAction is a broadcast marker for the most recent host-triggered side
// effect. Timestamp is Unix milliseconds; subscribers use it only to
// deduplicate notifications, never to order state transitions.
type LastAction struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
}

// Session is the shared coordination record for one group's restaurant
// decision. Every connected client observes the same document through the
// store; no client is privileged except by comparing HostID against its own
// device id.
type Session struct {
	ID             string        `json:"id" rethinkdb:"id,omitempty"`
	HostID         string        `json:"host_id" rethinkdb:"host_id"`
	GroupSize      int           `json:"group_size" rethinkdb:"group_size"`
	Status         string        `json:"status" rethinkdb:"status"`
	Filters        Filters       `json:"filters" rethinkdb:"filters"`
	Restaurants    []Restaurant  `json:"restaurants" rethinkdb:"restaurants"`
	Votes          Votes         `json:"votes" rethinkdb:"votes"`
	MatchID        string        `json:"match_id,omitempty" rethinkdb:"match_id"`
	Participants   []Participant `json:"participants" rethinkdb:"participants"`
	LoadingStarted bool          `json:"loading_started" rethinkdb:"loading_started"`
	LastAction     *LastAction   `json:"last_action,omitempty" rethinkdb:"last_action"`
	CreatedAt      time.Time     `json:"created_at" rethinkdb:"created_at"`

	// Rev increments on every accepted write. Store backends use it for
	// optimistic concurrency control; it never drives client decisions.
	Rev int64 `json:"rev" rethinkdb:"rev"`
}

// Participant returns the participant with the given id, or nil.
func (s *Session) Participant(id string) *Participant {
	for i := range s.Participants {
		if s.Participants[i].ID == id {
			return &s.Participants[i]
		}
	}
	return nil
}

// HostJoined reports whether the host appears in the participant list.
func (s *Session) HostJoined() bool {
	return s.Participant(s.HostID) != nil
}

// Restaurant returns the candidate with the given id from the current list.
func (s *Session) Restaurant(id string) (Restaurant, bool) {
	for _, r := range s.Restaurants {
		if r.ID == id {
			return r, true
		}
	}
	return Restaurant{}, false
}

// Clone returns a deep copy. Stores hand out clones so callers can never
// mutate shared state behind the store's back.
func (s *Session) Clone() *Session {
	c := *s
	if s.Restaurants != nil {
		c.Restaurants = make([]Restaurant, len(s.Restaurants))
		copy(c.Restaurants, s.Restaurants)
	}
	if s.Participants != nil {
		c.Participants = make([]Participant, len(s.Participants))
		copy(c.Participants, s.Participants)
	}
	if s.Votes != nil {
		c.Votes = make(Votes, len(s.Votes))
		for id, voters := range s.Votes {
			vs := make([]string, len(voters))
			copy(vs, voters)
			c.Votes[id] = vs
		}
	}
	if s.Filters.Cuisines != nil {
		c.Filters.Cuisines = append([]string(nil), s.Filters.Cuisines...)
	}
	if s.Filters.Locations != nil {
		c.Filters.Locations = append([]string(nil), s.Filters.Locations...)
	}
	if s.Filters.Costs != nil {
		c.Filters.Costs = append([]int(nil), s.Filters.Costs...)
	}
	if s.Filters.Dietary != nil {
		c.Filters.Dietary = append([]string(nil), s.Filters.Dietary...)
	}
	if s.LastAction != nil {
		la := *s.LastAction
		c.LastAction = &la
	}
	return &c
}
