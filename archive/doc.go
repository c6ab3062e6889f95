// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package archive persists an immutable record of every session the host
// ends, including a full JSON snapshot of the final document. Durability
// of live sessions is the store's concern; the archive exists for
// after-the-fact inspection and stats.
package archive
