// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package coordinator drives a group session through its lifecycle.

The state machine is waiting -> swiping -> matched, with swiping -> swiping
on load-more and any state -> ended by the host. Operations:

  - Create: new session in waiting, host designated, filters frozen
  - Join: admission under capacity with the host seat reserved
  - Start: host-only waiting -> swiping; fetches candidates if the
    prefetch has not landed yet
  - Vote: idempotent; the vote that reaches the group threshold sets
    matched and matchId atomically
  - Finish: idempotent per-participant done flag
  - LoadMore: host-only round reset with a fresh, disjoint candidate list
  - End: host-only and terminal; archives the final document

Every compound operation executes inside store.Mutate, so decisions are
made against the same document version the write lands on. That closes the
lost-update and double-match races the advisory-flag design suffered from:
the first vote to cross the threshold wins, and a concurrent vote for a
different restaurant re-runs against the matched snapshot and records
without matching.

BuildView derives the read-only presentation state (phase, ranked picks,
isHost, allFinished, waitingForOthers, isLoadingMore) from one snapshot.
Watch turns the store subscription into a stream of such views and runs
the opportunistic candidate prefetch.
*/
package coordinator
