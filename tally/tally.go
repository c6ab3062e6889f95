// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"sort"

	"github.com/danielhkuo/group-table/models"
)

// Record adds a participant's vote for a restaurant. It is idempotent:
// voting twice for the same restaurant reports changed=false and leaves the
// tally untouched. The input map is never modified.
func Record(votes models.Votes, participantID, restaurantID string) (models.Votes, bool) {
	for _, id := range votes[restaurantID] {
		if id == participantID {
			return votes, false
		}
	}

	next := make(models.Votes, len(votes)+1)
	for rid, voters := range votes {
		next[rid] = append([]string(nil), voters...)
	}
	next[restaurantID] = append(next[restaurantID], participantID)
	return next, true
}

// Count returns the number of votes for a restaurant.
func Count(votes models.Votes, restaurantID string) int {
	return len(votes[restaurantID])
}

// Matched reports whether a restaurant has reached the group threshold.
// Because participants appear at most once per restaurant and the set only
// grows, the first restaurant to cross the threshold is the match.
func Matched(votes models.Votes, restaurantID string, groupSize int) bool {
	return len(votes[restaurantID]) >= groupSize
}

// RankedRestaurant pairs a candidate with its current vote count.
type RankedRestaurant struct {
	models.Restaurant
	VoteCount int `json:"vote_count"`
}

// Ranked orders the candidate list by descending vote count. Ties keep the
// original candidate order.
func Ranked(restaurants []models.Restaurant, votes models.Votes) []RankedRestaurant {
	ranked := make([]RankedRestaurant, len(restaurants))
	for i, r := range restaurants {
		ranked[i] = RankedRestaurant{Restaurant: r, VoteCount: len(votes[r.ID])}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].VoteCount > ranked[j].VoteCount
	})
	return ranked
}

// TopPicks returns the n highest-ranked candidates that have at least one
// vote.
func TopPicks(restaurants []models.Restaurant, votes models.Votes, n int) []RankedRestaurant {
	var picks []RankedRestaurant
	for _, r := range Ranked(restaurants, votes) {
		if r.VoteCount == 0 {
			continue
		}
		picks = append(picks, r)
		if len(picks) == n {
			break
		}
	}
	return picks
}

// AllFinished reports whether every participant has swiped through the
// whole list. Vacuously true for an empty participant list.
func AllFinished(participants []models.Participant) bool {
	for _, p := range participants {
		if !p.Finished {
			return false
		}
	}
	return true
}
