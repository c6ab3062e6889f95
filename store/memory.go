// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"sync"

	"github.com/danielhkuo/group-table/models"
)

// subscriberBuffer bounds each subscriber channel. When a slow subscriber
// falls behind, the oldest buffered snapshots are shed to make room; the
// newest write is always delivered, so nothing is lost but history.
const subscriberBuffer = 16

// MemoryStore is the in-process Store used for tests and single-node
// deployments. A single mutex serializes all mutations.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*models.Session
	subs     map[string]map[chan *models.Session]struct{}
	closed   bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.Session),
		subs:     make(map[string]map[chan *models.Session]struct{}),
	}
}

func (m *MemoryStore) Create(ctx context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[s.ID]; ok {
		return ErrExists
	}
	m.sessions[s.ID] = s.Clone()
	m.broadcastLocked(s.ID)
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Mutate(ctx context.Context, id string, fn func(*models.Session) error) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	next := cur.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.Rev = cur.Rev + 1
	m.sessions[id] = next
	m.broadcastLocked(id)
	return next.Clone(), nil
}

func (m *MemoryStore) Subscribe(ctx context.Context, id string) (<-chan *models.Session, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.sessions[id]
	if !ok {
		return nil, nil, ErrNotFound
	}

	ch := make(chan *models.Session, subscriberBuffer)
	if m.subs[id] == nil {
		m.subs[id] = make(map[chan *models.Session]struct{})
	}
	m.subs[id][ch] = struct{}{}
	ch <- cur.Clone()

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if set, ok := m.subs[id]; ok {
			if _, live := set[ch]; live {
				delete(set, ch)
				close(ch)
				if len(set) == 0 {
					delete(m.subs, id)
				}
			}
		}
	}
	return ch, cancel, nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	for id, set := range m.subs {
		for ch := range set {
			close(ch)
		}
		delete(m.subs, id)
	}
	return nil
}

// broadcastLocked fans the current document out to all subscribers of the
// session. Callers must hold m.mu.
func (m *MemoryStore) broadcastLocked(id string) {
	set := m.subs[id]
	if len(set) == 0 {
		return
	}
	cur := m.sessions[id]
	for ch := range set {
		select {
		case ch <- cur.Clone():
		default:
			// Full buffer: evict the oldest snapshot so the newest always
			// lands. A slow subscriber skips history, never the current
			// state — if this write is the last one (ended), it still
			// arrives.
			select {
			case <-ch:
			default:
			}
			ch <- cur.Clone()
		}
	}
}
