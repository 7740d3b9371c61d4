package booking

import (
	"fmt"
	"slices"
)

// BookingStatus is the lifecycle status of a booking.
type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
	StatusCanceled BookingStatus = "CANCELED"
)

// decisions lists the statuses a waiting booking may move to. Every other status is final.
var decisions = []BookingStatus{StatusApproved, StatusRejected, StatusCanceled}

// IsValid reports whether s is one of the four known statuses.
func (s BookingStatus) IsValid() bool {
	return s == StatusWaiting || slices.Contains(decisions, s)
}

// CanTransitionTo reports whether a booking in s may move to target.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	return s == StatusWaiting && slices.Contains(decisions, target)
}

// IsTerminal reports whether no decision can be applied anymore.
func (s BookingStatus) IsTerminal() bool {
	return s != StatusWaiting
}

func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a stored status column back into a BookingStatus.
func ParseBookingStatus(raw string) (BookingStatus, error) {
	s := BookingStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid booking status: %q", raw)
	}
	return s, nil
}
