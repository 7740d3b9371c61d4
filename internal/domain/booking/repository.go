package booking

import (
	"context"
	"time"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its identifier.
	FindByID(ctx context.Context, id int64) (*Booking, error)

	// Find returns the bookings matching filter, ordered by start descending, one page at a time.
	Find(ctx context.Context, filter Filter, page Page) ([]*Booking, error)

	// FindLastForItem returns the latest-ending booking of the item that started before now, or nil.
	FindLastForItem(ctx context.Context, itemID int64, now time.Time) (*Booking, error)

	// FindNextForItem returns the earliest-starting APPROVED booking of the item that starts after now, or nil.
	FindNextForItem(ctx context.Context, itemID int64, now time.Time) (*Booking, error)

	// HasCompletedBooking reports whether the user has an APPROVED booking of the item that ended before now.
	HasCompletedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error)

	// CountByStatus returns booking counts grouped by status.
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new booking and assigns its id.
	Save(ctx context.Context, booking *Booking) error

	// UpdateStatus persists a decided booking. It succeeds only if the stored row is still WAITING
	// at the version preceding the booking's current one.
	UpdateStatus(ctx context.Context, booking *Booking) error
}
