// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package coordinator

import (
	"context"

	"github.com/danielhkuo/group-table/models"
	"github.com/danielhkuo/group-table/tally"
)

// topPicksShown caps the ranked list surfaced next to the swipe deck.
const topPicksShown = 3

// View is the read-only derived state handed to the presentation layer.
// Everything here is recomputed from a single snapshot; a view never mixes
// fields from two document versions.
type View struct {
	Phase             string                   `json:"phase"`
	Restaurants       []models.Restaurant      `json:"restaurants"`
	Votes             models.Votes             `json:"votes"`
	Participants      []models.Participant     `json:"participants"`
	MatchedRestaurant *models.Restaurant       `json:"matched_restaurant,omitempty"`
	TopPicks          []tally.RankedRestaurant `json:"top_picks,omitempty"`
	IsHost            bool                     `json:"is_host"`
	AllFinished       bool                     `json:"all_finished"`
	WaitingForOthers  bool                     `json:"waiting_for_others"`
	IsLoadingMore     bool                     `json:"is_loading_more"`
}

// BuildView derives the presentation state of one snapshot for one device.
func BuildView(s *models.Session, deviceID string) View {
	v := View{
		Phase:        s.Status,
		Restaurants:  s.Restaurants,
		Votes:        s.Votes,
		Participants: s.Participants,
		IsHost:       deviceID == s.HostID,
		AllFinished:  tally.AllFinished(s.Participants),
	}

	if s.Status == models.StatusMatched && s.MatchID != "" {
		if match, ok := s.Restaurant(s.MatchID); ok {
			v.MatchedRestaurant = &match
		}
	}

	// The ranked sidebar is a product decision for larger groups: with two
	// people the match IS the ranking.
	if s.GroupSize > 2 {
		v.TopPicks = tally.TopPicks(s.Restaurants, s.Votes, topPicksShown)
	}

	if p := s.Participant(deviceID); p != nil {
		v.WaitingForOthers = p.Finished && !v.AllFinished
	}

	v.IsLoadingMore = s.LastAction != nil && s.LastAction.Type == models.ActionLoadingMore

	return v
}

// View reads the current document and derives the view for one device.
func (c *Coordinator) View(ctx context.Context, sessionID, deviceID string) (View, error) {
	s, err := c.store.Get(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	return BuildView(s, deviceID), nil
}
