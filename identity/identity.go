// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewSessionID creates the opaque identifier for a new session document.
func NewSessionID() string {
	return uuid.NewString()
}

// GenerateID creates a random hex ID of the specified byte length.
// Used for restaurant ids when the provider returns entries without one.
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Initials derives the display label for a participant name: the first
// letter of each of the first two words, uppercased.
func Initials(name string) string {
	var initials []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			initials = append(initials, r)
			break
		}
		if len(initials) == 2 {
			break
		}
	}
	return strings.ToUpper(string(initials))
}
