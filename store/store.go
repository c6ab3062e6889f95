// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"

	"github.com/danielhkuo/group-table/models"
)

var (
	// ErrNotFound means the session id does not resolve to a document.
	ErrNotFound = errors.New("session not found")

	// ErrExists means a session with the same id was already created.
	ErrExists = errors.New("session already exists")
)

// Store is the replicated, subscribable session document store. Every
// backend serializes Mutate per session, so compound read-modify-write
// operations (vote recording, finished flags, load-more resets) can never
// lose a concurrent writer's update.
type Store interface {
	// Create inserts a new session document. Fails with ErrExists if the
	// id is taken.
	Create(ctx context.Context, s *models.Session) error

	// Get returns the current document, or ErrNotFound.
	Get(ctx context.Context, id string) (*models.Session, error)

	// Mutate applies fn to the current document and writes the result as
	// one serialized step. If fn returns an error, nothing is written and
	// the error is returned unchanged. The returned session is the state
	// after the write.
	Mutate(ctx context.Context, id string, fn func(*models.Session) error) (*models.Session, error)

	// Subscribe delivers the current document immediately and then a full
	// snapshot on every accepted write, including echoes of the caller's
	// own writes. A subscriber that falls behind may miss intermediate
	// snapshots but always receives the newest write. The cancel func
	// releases the subscription; the channel closes once cancelled or the
	// store shuts down.
	Subscribe(ctx context.Context, id string) (<-chan *models.Session, func(), error)

	Close() error
}
