// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Group Table API server.

Group Table is a group restaurant decision service: a host creates a
session with search filters, friends join from a shared link, everyone
swipes through the same candidate list, and the first restaurant every
seat approves becomes the match.

# Starting the Server

The server requires a Yelp API key via environment variable or CLI flag:

	YELP_API_KEY=... go run main.go

Or with flags:

	go run main.go -p 3626 -s redis -yelp-key ...

# Configuration

Required settings:

  - YELP_API_KEY (-yelp-key): key for the Yelp AI chat API

Optional settings:

  - PORT (-p): server port (default: 3626)
  - STORE_TYPE (-s): session store backend, memory, redis, or rethink
    (default: memory)
  - REDIS_ADDR, REDIS_PASSWORD: Redis connection for the redis store
  - RETHINK_ADDRS: comma-separated RethinkDB addresses for the rethink store
  - ARCHIVE_DRIVER, ARCHIVE_URL: SQL database for archiving ended sessions
    (sqlite or postgres; empty URL disables archiving)
  - YELP_API_URL (-yelp-url): endpoint override for testing

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers plus the websocket view stream
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, device identity
  - coordinator: session operations and derived views
  - store: pluggable shared-document stores (memory, Redis, RethinkDB)
  - registry: admission rules and participant records
  - tally: vote bookkeeping, match detection, rankings
  - prefetch: candidate list loading and load-more rounds
  - provider: restaurant search backends (Yelp)
  - archive: SQL archive of ended sessions
  - models: shared document and request/response types
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
