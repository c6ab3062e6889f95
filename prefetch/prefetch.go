// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package prefetch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/danielhkuo/group-table/models"
	"github.com/danielhkuo/group-table/provider"
	"github.com/danielhkuo/group-table/store"
)

// errNothingToDo aborts a claim mutation without writing: the list is
// already populated, another fetch is in flight, or the session is over.
var errNothingToDo = errors.New("prefetch: nothing to do")

// Coordinator guarantees that a restaurant fetch is attempted at most once
// per list generation. The claim on loadingStarted is a check-and-set
// inside a serialized store mutation, so exactly one caller wins it; on
// provider failure the winner releases the claim so another attempt can
// run.
type Coordinator struct {
	store    store.Store
	provider provider.Provider
}

func New(st store.Store, pv provider.Provider) *Coordinator {
	return &Coordinator{store: st, provider: pv}
}

// EnsureLoaded fetches the initial candidate list if nobody else is doing
// it. Safe to call opportunistically on every snapshot: when the list is
// populated or a fetch is already claimed it returns nil without touching
// the document.
func (c *Coordinator) EnsureLoaded(ctx context.Context, sessionID string) error {
	claimed, err := c.store.Mutate(ctx, sessionID, func(s *models.Session) error {
		if s.Status == models.StatusEnded {
			return errNothingToDo
		}
		if len(s.Restaurants) > 0 || s.LoadingStarted {
			return errNothingToDo
		}
		s.LoadingStarted = true
		return nil
	})
	if errors.Is(err, errNothingToDo) {
		return nil
	}
	if err != nil {
		return err
	}

	results, err := c.provider.Fetch(ctx, claimed.Filters, nil)
	if err != nil {
		// Release the claim so another client (or a retry) can attempt.
		if _, resetErr := c.store.Mutate(ctx, sessionID, func(s *models.Session) error {
			s.LoadingStarted = false
			return nil
		}); resetErr != nil {
			slog.Warn("failed to release prefetch claim", "session_id", sessionID, "error", resetErr)
		}
		return err
	}

	_, err = c.store.Mutate(ctx, sessionID, func(s *models.Session) error {
		s.Restaurants = results
		s.Votes = models.Votes{}
		s.LoadingStarted = false
		return nil
	})
	return err
}

// LoadMore replaces the candidate list with fresh results, excluding every
// restaurant the group has already seen, and resets the round: votes and
// match cleared, all finished flags dropped, status back to swiping.
//
// Other clients learn what is happening through LastAction: loadingMore is
// announced before the fetch, then loadMore, loadMoreEmpty, or
// loadMoreError depending on the outcome. An empty result leaves the
// current list untouched.
func (c *Coordinator) LoadMore(ctx context.Context, sessionID string) error {
	snap, err := c.store.Mutate(ctx, sessionID, func(s *models.Session) error {
		if s.Status == models.StatusEnded {
			return models.ErrSessionEnded
		}
		s.LastAction = action(models.ActionLoadingMore)
		return nil
	})
	if err != nil {
		return err
	}

	exclude := make([]string, len(snap.Restaurants))
	for i, r := range snap.Restaurants {
		exclude[i] = r.Name
	}

	results, err := c.provider.Fetch(ctx, snap.Filters, exclude)
	if err != nil {
		c.recordOutcome(ctx, sessionID, models.ActionLoadMoreError)
		return err
	}
	if len(results) == 0 {
		c.recordOutcome(ctx, sessionID, models.ActionLoadMoreEmpty)
		return nil
	}

	_, err = c.store.Mutate(ctx, sessionID, func(s *models.Session) error {
		if s.Status == models.StatusEnded {
			return models.ErrSessionEnded
		}
		s.Status = models.StatusSwiping
		s.MatchID = ""
		s.Votes = models.Votes{}
		s.Restaurants = results
		for i := range s.Participants {
			s.Participants[i].Finished = false
		}
		s.LoadingStarted = false
		s.LastAction = action(models.ActionLoadMore)
		return nil
	})
	return err
}

// recordOutcome broadcasts a terminal LastAction so other clients stop
// showing a loading indicator. Failures only get logged; the caller's
// error matters more.
func (c *Coordinator) recordOutcome(ctx context.Context, sessionID, actionType string) {
	if _, err := c.store.Mutate(ctx, sessionID, func(s *models.Session) error {
		s.LastAction = action(actionType)
		return nil
	}); err != nil {
		slog.Warn("failed to record load-more outcome", "session_id", sessionID, "action", actionType, "error", err)
	}
}

func action(actionType string) *models.LastAction {
	return &models.LastAction{
		Type:      actionType,
		Timestamp: time.Now().UnixMilli(),
	}
}
