// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "errors"

// ErrSessionEnded rejects any operation on a session whose status reached
// ended. The state is terminal: once any client observes it, the session
// is over for everyone.
var ErrSessionEnded = errors.New("session has ended")
