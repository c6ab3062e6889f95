// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store provides the replicated session document store.

Each session lives as a single document that every connected client reads,
mutates, and subscribes to. The Store contract gives three guarantees:

  - Get/Create resolve or insert whole documents (ErrNotFound, ErrExists).
  - Mutate serializes read-modify-write cycles per session, so concurrent
    votes, finished flags, and load-more resets never lose an update.
  - Subscribe streams full snapshots: the current document immediately,
    then one snapshot per accepted write, own writes included. Slow
    subscribers shed the oldest buffered snapshots, never the newest
    write, so the terminal state always arrives.

# Backends

Three implementations share the contract:

  - MemoryStore: mutex-serialized, in-process. Tests and single-node use.
  - RedisStore: one JSON document per key, WATCH/MULTI transactions for
    Mutate, pub/sub channel per session for snapshot delivery.
  - RethinkStore: sessions table, revision-guarded Replace for Mutate,
    changefeed for snapshot delivery.

The Redis and Rethink backends both rely on the Rev field of the session
document for optimistic concurrency: a Mutate only lands if the revision it
read is still current, and retries otherwise.
*/
package store
