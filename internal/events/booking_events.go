package events

import (
	"time"
)

// TopicBookingEvents is the default topic for booking lifecycle events.
const TopicBookingEvents = "booking.events"

// Booking lifecycle event types.
const (
	BookingRequested = "booking.requested"
	BookingApproved  = "booking.approved"
	BookingRejected  = "booking.rejected"
	BookingCanceled  = "booking.canceled"
)

// BookingRequestedEvent is emitted when a booking is created in WAITING status.
type BookingRequestedEvent struct {
	BookingID  int64     `json:"bookingId"`
	ItemID     int64     `json:"itemId"`
	OwnerID    int64     `json:"ownerId"`
	BookerID   int64     `json:"bookerId"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	OccurredAt time.Time `json:"occurredAt"`
}

// BookingDecidedEvent is emitted when a waiting booking is approved, rejected or canceled.
type BookingDecidedEvent struct {
	BookingID  int64     `json:"bookingId"`
	ItemID     int64     `json:"itemId"`
	OwnerID    int64     `json:"ownerId"`
	BookerID   int64     `json:"bookerId"`
	Status     string    `json:"status"`
	DecidedBy  int64     `json:"decidedBy"`
	OccurredAt time.Time `json:"occurredAt"`
}

// DecisionEventType maps a decided booking status to its event type.
func DecisionEventType(status string) (string, bool) {
	switch status {
	case "APPROVED":
		return BookingApproved, true
	case "REJECTED":
		return BookingRejected, true
	case "CANCELED":
		return BookingCanceled, true
	default:
		return "", false
	}
}
