// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package handlers contains the HTTP layer. Handlers stay thin: they pull
// the device identity off the request, decode the body, call the
// coordinator, and map domain errors onto statuses. No business rules live
// here.
package handlers
