// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package router maps URL patterns to handlers using the standard library
// mux with method-prefixed patterns.
package router
