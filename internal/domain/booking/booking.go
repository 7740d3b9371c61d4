package booking

import (
	"time"

	"github.com/ShareIt-Rental/service-shareit/internal/platform/domain"
)

// ItemRef is the part of an item a booking needs: who owns it and what to show.
type ItemRef struct {
	ID      int64
	Name    string
	OwnerID int64
}

// BookerRef identifies the user who requested the booking.
type BookerRef struct {
	ID   int64
	Name string
}

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id     int64
	start  time.Time
	end    time.Time
	item   ItemRef
	booker BookerRef
	status BookingStatus

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking aggregate with status=WAITING.
// start and end are stored in UTC at whole-second precision; start must be strictly before end.
func NewBooking(item ItemRef, booker BookerRef, start, end time.Time) (*Booking, error) {
	start = NormalizeTime(start)
	end = NormalizeTime(end)
	if !start.Before(end) {
		return nil, domain.NewValidationError("booking start must be before its end")
	}

	now := time.Now().UTC()
	return &Booking{
		start:     start,
		end:       end,
		item:      item,
		booker:    booker,
		status:    StatusWaiting,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id int64,
	start, end time.Time,
	item ItemRef,
	booker BookerRef,
	status BookingStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		start:     start.UTC(),
		end:       end.UTC(),
		item:      item,
		booker:    booker,
		status:    status,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// NormalizeTime converts t to the stored form: UTC at whole-second precision.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// --- Getters ---

// ID returns the store-assigned identifier, zero until persisted.
func (b *Booking) ID() int64 { return b.id }

// Start returns the beginning of the rental window.
func (b *Booking) Start() time.Time { return b.start }

// End returns the end of the rental window.
func (b *Booking) End() time.Time { return b.end }

// Item returns the booked item reference.
func (b *Booking) Item() ItemRef { return b.item }

// Booker returns the requesting user reference.
func (b *Booking) Booker() BookerRef { return b.booker }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// AssignID records the identifier chosen by the store on insert.
func (b *Booking) AssignID(id int64) { b.id = id }

// IsBooker reports whether userID requested this booking.
func (b *Booking) IsBooker(userID int64) bool { return b.booker.ID == userID }

// IsOwner reports whether userID owns the booked item.
func (b *Booking) IsOwner(userID int64) bool { return b.item.OwnerID == userID }

// CanBeViewedBy reports whether userID is the booker or the item owner.
func (b *Booking) CanBeViewedBy(userID int64) bool {
	return b.IsBooker(userID) || b.IsOwner(userID)
}

// Decide applies an approve/reject/cancel decision made by actorID.
//
// The owner approves or rejects. The booker may only withdraw (approved=false), which cancels.
// Only a WAITING booking can be decided.
func (b *Booking) Decide(actorID int64, approved bool) error {
	if !b.CanBeViewedBy(actorID) {
		return domain.NewForbiddenError("booking is not available to this user")
	}
	if b.status != StatusWaiting {
		return domain.NewInvalidStateError(string(b.status), decisionTarget(b.IsBooker(actorID), approved).String())
	}

	var target BookingStatus
	if b.IsBooker(actorID) {
		if approved {
			return domain.NewForbiddenError("only the owner may approve a booking")
		}
		target = StatusCanceled
	} else {
		target = decisionTarget(false, approved)
	}

	if !b.status.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(b.status), string(target))
	}
	b.status = target
	b.updatedAt = time.Now().UTC()
	return nil
}

func decisionTarget(byBooker, approved bool) BookingStatus {
	switch {
	case byBooker:
		return StatusCanceled
	case approved:
		return StatusApproved
	default:
		return StatusRejected
	}
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
