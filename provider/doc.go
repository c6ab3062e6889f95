// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package provider fetches restaurant candidates for a set of session
// filters. The Yelp implementation phrases the filters as a natural
// language query against the Yelp AI chat API, retries transient upstream
// failures, and keeps "no results" distinct from failure: an empty slice
// with a nil error. Transient failures surface as *Error.
package provider
