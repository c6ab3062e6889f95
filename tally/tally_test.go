// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"reflect"
	"testing"

	"github.com/danielhkuo/group-table/models"
)

func TestRecord(t *testing.T) {
	votes := models.Votes{}

	next, changed := Record(votes, "d1", "r1")
	if !changed {
		t.Error("Record() first vote reported changed=false")
	}
	if Count(next, "r1") != 1 {
		t.Errorf("Count() = %d, want 1", Count(next, "r1"))
	}

	// Same participant, same restaurant: no change
	again, changed := Record(next, "d1", "r1")
	if changed {
		t.Error("Record() duplicate vote reported changed=true")
	}
	if Count(again, "r1") != 1 {
		t.Errorf("Count() after duplicate = %d, want 1", Count(again, "r1"))
	}

	// Same participant may vote for several restaurants
	next, changed = Record(next, "d1", "r2")
	if !changed || Count(next, "r2") != 1 {
		t.Errorf("Record() second restaurant: changed=%v count=%d", changed, Count(next, "r2"))
	}
}

func TestRecordDoesNotMutateInput(t *testing.T) {
	votes := models.Votes{"r1": {"d1"}}

	next, _ := Record(votes, "d2", "r1")

	if got := Count(votes, "r1"); got != 1 {
		t.Errorf("input map mutated: count = %d, want 1", got)
	}
	if got := Count(next, "r1"); got != 2 {
		t.Errorf("result count = %d, want 2", got)
	}
}

func TestMatched(t *testing.T) {
	tests := []struct {
		name      string
		votes     models.Votes
		groupSize int
		want      bool
	}{
		{"below threshold", models.Votes{"r1": {"d1"}}, 2, false},
		{"at threshold", models.Votes{"r1": {"d1", "d2"}}, 2, true},
		{"no votes", models.Votes{}, 2, false},
		{"solo group", models.Votes{"r1": {"d1"}}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matched(tt.votes, "r1", tt.groupSize); got != tt.want {
				t.Errorf("Matched() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRanked(t *testing.T) {
	restaurants := []models.Restaurant{
		{ID: "r1", Name: "First"},
		{ID: "r2", Name: "Second"},
		{ID: "r3", Name: "Third"},
	}
	votes := models.Votes{
		"r1": {"d1"},
		"r3": {"d1", "d2"},
	}

	ranked := Ranked(restaurants, votes)

	wantOrder := []string{"r3", "r1", "r2"}
	for i, want := range wantOrder {
		if ranked[i].ID != want {
			t.Errorf("Ranked()[%d] = %s, want %s", i, ranked[i].ID, want)
		}
	}
	if ranked[0].VoteCount != 2 {
		t.Errorf("top vote count = %d, want 2", ranked[0].VoteCount)
	}
}

func TestRankedTiesKeepListOrder(t *testing.T) {
	restaurants := []models.Restaurant{
		{ID: "r1"}, {ID: "r2"}, {ID: "r3"},
	}
	votes := models.Votes{
		"r1": {"d1"},
		"r2": {"d2"},
		"r3": {"d3"},
	}

	ranked := Ranked(restaurants, votes)
	got := []string{ranked[0].ID, ranked[1].ID, ranked[2].ID}
	if !reflect.DeepEqual(got, []string{"r1", "r2", "r3"}) {
		t.Errorf("tied ranking reordered candidates: %v", got)
	}
}

func TestTopPicks(t *testing.T) {
	restaurants := []models.Restaurant{
		{ID: "r1"}, {ID: "r2"}, {ID: "r3"}, {ID: "r4"},
	}
	votes := models.Votes{
		"r1": {"d1"},
		"r2": {"d1", "d2"},
		"r3": {"d1", "d2", "d3"},
	}

	picks := TopPicks(restaurants, votes, 2)

	if len(picks) != 2 {
		t.Fatalf("TopPicks() returned %d picks, want 2", len(picks))
	}
	if picks[0].ID != "r3" || picks[1].ID != "r2" {
		t.Errorf("TopPicks() order = %s, %s; want r3, r2", picks[0].ID, picks[1].ID)
	}

	// Zero-vote candidates never appear, even when n allows more
	picks = TopPicks(restaurants, votes, 10)
	if len(picks) != 3 {
		t.Errorf("TopPicks() included zero-vote candidates: got %d picks", len(picks))
	}

	if got := TopPicks(restaurants, models.Votes{}, 3); len(got) != 0 {
		t.Errorf("TopPicks() with no votes = %d picks, want 0", len(got))
	}
}

func TestAllFinished(t *testing.T) {
	tests := []struct {
		name         string
		participants []models.Participant
		want         bool
	}{
		{"empty list", nil, true},
		{"all finished", []models.Participant{{Finished: true}, {Finished: true}}, true},
		{"one unfinished", []models.Participant{{Finished: true}, {Finished: false}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllFinished(tt.participants); got != tt.want {
				t.Errorf("AllFinished() = %v, want %v", got, tt.want)
			}
		})
	}
}
