// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package tally aggregates votes: idempotent vote recording, match
// detection against the group threshold, ranked "top picks" views, and the
// all-finished predicate. All functions are pure and treat their inputs as
// immutable.
package tally
