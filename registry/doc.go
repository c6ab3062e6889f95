// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package registry implements admission control for sessions: capacity
// enforcement, host seat reservation, and participant record construction.
// The functions are pure; callers run them inside a store mutation so the
// capacity check and the append land as one serialized step.
package registry
