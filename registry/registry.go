// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/group-table/identity"
	"github.com/danielhkuo/group-table/models"
)

var (
	ErrAlreadyJoined = errors.New("participant already joined this session")
	ErrNameRequired  = errors.New("name is required")
	ErrEmailRequired = errors.New("email is required")
)

// AdmissionError means the session cannot seat another participant.
type AdmissionError struct {
	Capacity int
}

func (e *AdmissionError) Error() string {
	return fmt.Sprintf("session is full (max %d participants)", e.Capacity)
}

// CanAdmit decides whether the joining identity may take a seat.
//
// The host may join whenever a seat is free. Anyone else gets one seat
// fewer until the host has actually joined: the host's seat stays reserved
// so latecomers cannot lock the creator out of their own session.
func CanAdmit(s *models.Session, joinerID string) error {
	if s.Participant(joinerID) != nil {
		return ErrAlreadyJoined
	}

	current := len(s.Participants)
	max := s.GroupSize

	if joinerID == s.HostID {
		if current >= max {
			return &AdmissionError{Capacity: max}
		}
		return nil
	}

	limit := max
	if !s.HostJoined() {
		limit = max - 1
	}
	if current >= limit {
		return &AdmissionError{Capacity: max}
	}
	return nil
}

// NewParticipant validates the display values and builds the participant
// record that gets appended to the session document.
func NewParticipant(id, name, email string, joinedAt time.Time) (models.Participant, error) {
	if name == "" {
		return models.Participant{}, ErrNameRequired
	}
	if email == "" {
		return models.Participant{}, ErrEmailRequired
	}
	return models.Participant{
		ID:       id,
		Name:     name,
		Email:    email,
		Initials: identity.Initials(name),
		JoinedAt: joinedAt,
		Finished: false,
	}, nil
}
