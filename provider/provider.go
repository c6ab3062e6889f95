// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package provider

import (
	"context"
	"fmt"

	"github.com/danielhkuo/group-table/models"
)

// Provider returns ranked restaurant candidates for a session's filters.
// An empty result is not an error; callers decide what an empty list means.
// Names in excludeNames never appear in the result.
type Provider interface {
	Fetch(ctx context.Context, filters models.Filters, excludeNames []string) ([]models.Restaurant, error)
}

// Error is a transient provider failure (network or upstream). It is
// recoverable: the caller resets any advisory loading state so another
// attempt can run.
type Error struct {
	Status int
	Msg    string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("restaurant provider failed: %s (status %d)", e.Msg, e.Status)
	}
	return "restaurant provider failed: " + e.Msg
}
