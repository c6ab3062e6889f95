// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	r "gopkg.in/rethinkdb/rethinkdb-go.v6"

	"github.com/danielhkuo/group-table/models"
)

const (
	rethinkDB       = "grouptable"
	rethinkSessions = "sessions"
)

// RethinkStore keeps sessions in a RethinkDB table and serves Subscribe
// from a changefeed, which delivers the new document value on every write.
// Mutate is serialized with a revision-guarded Replace: the write only
// lands if the document revision is unchanged since the read, otherwise it
// retries against the fresh document.
type RethinkStore struct {
	session *r.Session
}

func NewRethinkStore(addrs []string) (*RethinkStore, error) {
	session, err := r.Connect(r.ConnectOpts{
		Addresses: addrs,
	})
	if err != nil {
		return nil, fmt.Errorf("rethinkdb connect failed: %w", err)
	}
	return &RethinkStore{session: session}, nil
}

func (s *RethinkStore) table() r.Term {
	return r.DB(rethinkDB).Table(rethinkSessions)
}

func (s *RethinkStore) Create(ctx context.Context, sess *models.Session) error {
	resp, err := s.table().Insert(sess).RunWrite(s.session, r.RunOpts{Context: ctx})
	if err != nil {
		return err
	}
	if resp.Errors > 0 {
		// The only insert error on a fresh document is a duplicate key.
		return ErrExists
	}
	return nil
}

func (s *RethinkStore) Get(ctx context.Context, id string) (*models.Session, error) {
	cursor, err := s.table().Get(id).Run(s.session, r.RunOpts{Context: ctx})
	if err != nil {
		return nil, err
	}
	defer cursor.Close()

	var sess models.Session
	if err := cursor.One(&sess); err != nil {
		if errors.Is(err, r.ErrEmptyResult) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sess, nil
}

func (s *RethinkStore) Mutate(ctx context.Context, id string, fn func(*models.Session) error) (*models.Session, error) {
	for attempt := 0; attempt < mutateAttempts; attempt++ {
		cur, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		next := cur.Clone()
		if err := fn(next); err != nil {
			return nil, err
		}
		next.Rev = cur.Rev + 1

		resp, err := s.table().Get(id).
			Replace(r.Branch(
				r.Row.Field("rev").Eq(cur.Rev),
				r.Expr(next),
				r.Row,
			)).
			RunWrite(s.session, r.RunOpts{Context: ctx})
		if err != nil {
			return nil, err
		}
		if resp.Replaced > 0 {
			return next, nil
		}
		// Lost the race against a concurrent writer; re-read and retry.
	}
	return nil, fmt.Errorf("session %s: too many concurrent writers", id)
}

func (s *RethinkStore) Subscribe(ctx context.Context, id string) (<-chan *models.Session, func(), error) {
	initial, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	feedCtx, cancelFeed := context.WithCancel(context.Background())
	cursor, err := s.table().Get(id).
		Changes(r.ChangesOpts{Squash: true}).
		Run(s.session, r.RunOpts{Context: feedCtx})
	if err != nil {
		cancelFeed()
		return nil, nil, err
	}

	out := make(chan *models.Session, subscriberBuffer)
	go func() {
		defer close(out)
		defer cursor.Close()

		out <- initial

		var change struct {
			NewVal *models.Session `rethinkdb:"new_val"`
		}
		for cursor.Next(&change) {
			if change.NewVal == nil {
				// Document deleted; the feed has nothing more to say.
				return
			}
			select {
			case out <- change.NewVal:
			default:
				// Full buffer: evict the oldest snapshot so the newest
				// always lands, terminal writes included.
				select {
				case <-out:
				default:
				}
				out <- change.NewVal
			}
			change.NewVal = nil
		}
		if err := cursor.Err(); err != nil && feedCtx.Err() == nil {
			slog.Warn("session changefeed closed", "session_id", id, "error", err)
		}
	}()

	return out, cancelFeed, nil
}

func (s *RethinkStore) Close() error {
	return s.session.Close()
}
