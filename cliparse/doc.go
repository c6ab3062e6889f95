// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: server listen port (default: 3626)
  - StoreType: session store backend, one of memory, redis, rethink
    (default: memory)
  - RedisAddr, RedisPassword: Redis connection for the redis store
  - RethinkAddrs: RethinkDB addresses for the rethink store
  - ArchiveDriver, ArchiveURL: SQL archive for ended sessions; empty URL
    disables archiving
  - YelpAPIKey: key for the Yelp AI chat API (required)
  - YelpAPIURL: endpoint override, mainly for tests

# CLI Flags

	-p               Server port
	-s               Store type
	-redis-addr      Redis address (host:port)
	-redis-password  Redis password
	-rethink-addrs   Comma-separated RethinkDB addresses
	-archive-driver  Archive database driver (sqlite or postgres)
	-archive-url     Archive database URL
	-yelp-url        Yelp endpoint override
	-yelp-key        Yelp API key

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	STORE_TYPE     → -s
	REDIS_ADDR     → -redis-addr
	REDIS_PASSWORD → -redis-password
	RETHINK_ADDRS  → -rethink-addrs
	ARCHIVE_DRIVER → -archive-driver
	ARCHIVE_URL    → -archive-url
	YELP_API_URL   → -yelp-url
	YELP_API_KEY   → -yelp-key

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing or invalid:

  - YELP_API_KEY must be provided
  - store type must be memory, redis, or rethink
  - archive driver must be sqlite or postgres when archiving is enabled
*/
package cliparse
