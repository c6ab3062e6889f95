// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package coordinator

import (
	"context"
	"log/slog"

	"github.com/danielhkuo/group-table/models"
)

// Watch is the per-client event loop: it subscribes to the session
// document, derives a fresh view from every snapshot, and hands it to fn.
// While the session is waiting with an empty candidate list, the watcher
// opportunistically claims the prefetch so the list is ready before the
// host hits start.
//
// Watch returns once the session ends, the document disappears, or ctx is
// cancelled. The final ended view is delivered before returning.
func (c *Coordinator) Watch(ctx context.Context, sessionID, deviceID string, fn func(View)) error {
	snapshots, cancel, err := c.store.Subscribe(ctx, sessionID)
	if err != nil {
		return err
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-snapshots:
			if !ok {
				return nil
			}

			if s.Status == models.StatusWaiting && len(s.Restaurants) == 0 && !s.LoadingStarted {
				if err := c.prefetch.EnsureLoaded(ctx, sessionID); err != nil {
					// The claim was released; another snapshot will trigger
					// a retry here or on a different client.
					slog.Warn("prefetch attempt failed", "session_id", sessionID, "error", err)
				}
			}

			fn(BuildView(s, deviceID))
			if s.Status == models.StatusEnded {
				return nil
			}
		}
	}
}
