// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity provides id generation and display-name utilities.

# Session IDs

Session ids are random UUIDs, unguessable enough to work as the share
capability in an invite link:

	id := identity.NewSessionID()

# Random IDs

Random hex ids for miscellaneous records:

	id, err := identity.GenerateID(16) // 32 hex characters

# Initials

Avatar initials from a display name, first letter of the first two words:

	identity.Initials("Grace Hopper") // "GH"
	identity.Initials("Cher")         // "C"
*/
package identity
