// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

The Session document is the unit of coordination: one record shared by every
client in a group, decoded once at the store boundary and treated as
authoritative on every snapshot.

  - Session: group decision state (status, filters, candidates, votes)
  - Participant: one joined member, keyed by a stable per-device id
  - Restaurant: a single candidate
  - Votes: restaurant id -> ordered set of participant ids
  - LastAction: broadcast marker for host-triggered side effects
  - Filters: immutable search criteria

# Status Values

	StatusWaiting = "waiting"
	StatusSwiping = "swiping"
	StatusMatched = "matched"
	StatusEnded   = "ended"

Normal flow is waiting -> swiping -> matched, with swiping -> swiping on
load-more and any state -> ended by the host. Ended is terminal.

# Request and Response Types

Types for the JSON wire surface: CreateSessionRequest/Response,
JoinSessionRequest/Response, VoteRequest/Response, RecommendRequest/Response,
and ErrorResponse.
*/
package models
