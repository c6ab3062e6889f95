// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package coordinator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/danielhkuo/group-table/identity"
	"github.com/danielhkuo/group-table/models"
	"github.com/danielhkuo/group-table/prefetch"
	"github.com/danielhkuo/group-table/provider"
	"github.com/danielhkuo/group-table/registry"
	"github.com/danielhkuo/group-table/store"
	"github.com/danielhkuo/group-table/tally"
)

var (
	// ErrNotHost rejects host-only operations from other participants.
	ErrNotHost = errors.New("only the host can perform this action")

	// ErrNotParticipant rejects votes and finished flags from identities
	// that never joined the session.
	ErrNotParticipant = errors.New("not a participant of this session")

	// ErrUnknownRestaurant rejects votes for ids outside the current list.
	ErrUnknownRestaurant = errors.New("restaurant is not in the current list")

	// ErrNotSwiping rejects votes before the host has started the round.
	ErrNotSwiping = errors.New("session is not in the swiping phase")

	// ErrLoadInProgress tells the host that start has to wait for an
	// in-flight candidate fetch claimed by another client.
	ErrLoadInProgress = errors.New("candidate list is still loading")

	// ErrGroupSizeInvalid rejects session creation with no seats.
	ErrGroupSizeInvalid = errors.New("group size must be at least 1")
)

// Archiver persists a terminal session record. The coordinator treats
// archiving as best effort: failures are logged and never block the host.
type Archiver interface {
	ArchiveSession(ctx context.Context, s *models.Session) error
}

// Coordinator is the single operation surface over a shared session
// document. Every compound operation runs inside a serialized store
// mutation, so the snapshot each decision is based on is the snapshot the
// write lands against — concurrent votes, joins, and resets cannot lose
// updates or double-match.
type Coordinator struct {
	store    store.Store
	provider provider.Provider
	prefetch *prefetch.Coordinator
	archiver Archiver
}

// New builds a coordinator. The archiver may be nil.
func New(st store.Store, pv provider.Provider, ar Archiver) *Coordinator {
	return &Coordinator{
		store:    st,
		provider: pv,
		prefetch: prefetch.New(st, pv),
		archiver: ar,
	}
}

// Create starts a new session in the waiting state with the given host
// device as the designated host.
func (c *Coordinator) Create(ctx context.Context, hostID string, groupSize int, filters models.Filters) (*models.Session, error) {
	if groupSize < 1 {
		return nil, ErrGroupSizeInvalid
	}

	s := &models.Session{
		ID:           identity.NewSessionID(),
		HostID:       hostID,
		GroupSize:    groupSize,
		Status:       models.StatusWaiting,
		Filters:      filters,
		Votes:        models.Votes{},
		Participants: []models.Participant{},
		CreatedAt:    time.Now().UTC(),
	}
	if err := c.store.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the raw session document.
func (c *Coordinator) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	return c.store.Get(ctx, sessionID)
}

// Join admits a participant. The capacity check and the append run as one
// serialized mutation, so concurrent joiners can never exceed the group
// size or steal the reserved host seat. Joining twice from the same device
// is idempotent and returns the existing record.
func (c *Coordinator) Join(ctx context.Context, sessionID, deviceID, name, email string) (models.Participant, error) {
	p, err := registry.NewParticipant(deviceID, name, email, time.Now().UTC())
	if err != nil {
		return models.Participant{}, err
	}

	after, err := c.store.Mutate(ctx, sessionID, func(s *models.Session) error {
		if s.Status == models.StatusEnded {
			return models.ErrSessionEnded
		}
		if err := registry.CanAdmit(s, deviceID); err != nil {
			return err
		}
		s.Participants = append(s.Participants, p)
		return nil
	})
	if errors.Is(err, registry.ErrAlreadyJoined) {
		existing, getErr := c.store.Get(ctx, sessionID)
		if getErr != nil {
			return models.Participant{}, getErr
		}
		return *existing.Participant(deviceID), nil
	}
	if err != nil {
		return models.Participant{}, err
	}
	return *after.Participant(deviceID), nil
}

// Start is the host's waiting -> swiping transition. The candidate list is
// normally in place already (prefetch); if not, Start fetches it
// synchronously, unless another client holds the fetch claim, in which
// case the host gets ErrLoadInProgress and retries once the list lands.
func (c *Coordinator) Start(ctx context.Context, sessionID, actorID string) error {
	var needsFetch bool
	_, err := c.store.Mutate(ctx, sessionID, func(s *models.Session) error {
		if err := requireHost(s, actorID); err != nil {
			return err
		}
		if s.Status == models.StatusEnded {
			return models.ErrSessionEnded
		}
		if s.Status != models.StatusWaiting {
			// Someone observed a stale snapshot; the transition already
			// happened.
			return nil
		}
		if len(s.Restaurants) == 0 {
			if s.LoadingStarted {
				return ErrLoadInProgress
			}
			needsFetch = true
			s.LoadingStarted = true
			return nil
		}
		s.Status = models.StatusSwiping
		s.Votes = models.Votes{}
		return nil
	})
	if err != nil {
		return err
	}
	if !needsFetch {
		return nil
	}

	snap, err := c.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	results, err := c.provider.Fetch(ctx, snap.Filters, nil)
	if err != nil {
		if _, resetErr := c.store.Mutate(ctx, sessionID, func(s *models.Session) error {
			s.LoadingStarted = false
			return nil
		}); resetErr != nil {
			slog.Warn("failed to release fetch claim", "session_id", sessionID, "error", resetErr)
		}
		return err
	}

	_, err = c.store.Mutate(ctx, sessionID, func(s *models.Session) error {
		if s.Status == models.StatusEnded {
			return models.ErrSessionEnded
		}
		s.Restaurants = results
		s.LoadingStarted = false
		s.Status = models.StatusSwiping
		s.Votes = models.Votes{}
		return nil
	})
	return err
}

// Vote records a participant's affirmative swipe. Idempotent per
// participant and restaurant. The vote that lifts a restaurant to the
// group threshold transitions the session to matched in the same write;
// once matched, later votes still count but can never produce a second
// match in the round.
func (c *Coordinator) Vote(ctx context.Context, sessionID, participantID, restaurantID string) (*models.Session, error) {
	return c.store.Mutate(ctx, sessionID, func(s *models.Session) error {
		switch s.Status {
		case models.StatusEnded:
			return models.ErrSessionEnded
		case models.StatusSwiping, models.StatusMatched:
		default:
			return ErrNotSwiping
		}
		if s.Participant(participantID) == nil {
			return ErrNotParticipant
		}
		if _, ok := s.Restaurant(restaurantID); !ok {
			return ErrUnknownRestaurant
		}

		next, changed := tally.Record(s.Votes, participantID, restaurantID)
		if !changed {
			return nil
		}
		s.Votes = next
		if s.Status == models.StatusSwiping && tally.Matched(next, restaurantID, s.GroupSize) {
			s.Status = models.StatusMatched
			s.MatchID = restaurantID
		}
		return nil
	})
}

// Finish marks a participant as done swiping the current list. Idempotent;
// feeds the allFinished and waitingForOthers view predicates.
func (c *Coordinator) Finish(ctx context.Context, sessionID, participantID string) error {
	_, err := c.store.Mutate(ctx, sessionID, func(s *models.Session) error {
		if s.Status == models.StatusEnded {
			return models.ErrSessionEnded
		}
		p := s.Participant(participantID)
		if p == nil {
			return ErrNotParticipant
		}
		p.Finished = true
		return nil
	})
	return err
}

// LoadMore is the host's "new round" action; see prefetch.LoadMore for the
// reset semantics.
func (c *Coordinator) LoadMore(ctx context.Context, sessionID, actorID string) error {
	snap, err := c.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := requireHost(snap, actorID); err != nil {
		return err
	}
	return c.prefetch.LoadMore(ctx, sessionID)
}

// End terminates the session for everyone. Terminal: every subsequent
// operation fails with ErrSessionEnded. The final document is archived
// when an archiver is configured.
func (c *Coordinator) End(ctx context.Context, sessionID, actorID string) error {
	var already bool
	final, err := c.store.Mutate(ctx, sessionID, func(s *models.Session) error {
		if err := requireHost(s, actorID); err != nil {
			return err
		}
		if s.Status == models.StatusEnded {
			already = true
			return nil
		}
		s.Status = models.StatusEnded
		return nil
	})
	if err != nil {
		return err
	}

	if c.archiver != nil && !already {
		if err := c.archiver.ArchiveSession(ctx, final); err != nil {
			slog.Error("failed to archive session", "session_id", sessionID, "error", err)
		}
	}
	return nil
}

func requireHost(s *models.Session, actorID string) error {
	if actorID != s.HostID {
		return ErrNotHost
	}
	return nil
}
