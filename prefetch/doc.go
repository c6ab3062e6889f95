// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package prefetch coordinates restaurant fetches against the shared
// session document: an at-most-once initial fetch claimed through the
// loadingStarted flag, and the host-initiated load-more that swaps in a
// fresh candidate list and resets the voting round.
package prefetch
