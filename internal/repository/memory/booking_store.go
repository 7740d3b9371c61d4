// Package memory holds map-backed repositories for tests and local runs without a database.
package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	bookingDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/booking"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/domain"
)

var _ bookingDomain.BookingRepository = (*BookingStore)(nil)

// BookingStore is an in-memory BookingRepository.
type BookingStore struct {
	mu       sync.RWMutex
	nextID   int64
	bookings map[int64]*bookingDomain.Booking
}

// NewBookingStore creates an empty BookingStore.
func NewBookingStore() *BookingStore {
	return &BookingStore{bookings: make(map[int64]*bookingDomain.Booking)}
}

func cloneBooking(b *bookingDomain.Booking) *bookingDomain.Booking {
	return bookingDomain.ReconstructBooking(
		b.ID(), b.Start(), b.End(), b.Item(), b.Booker(),
		b.Status(), b.Version(), b.CreatedAt(), b.UpdatedAt(),
	)
}

// FindByID returns a copy of the booking with the given id.
func (s *BookingStore) FindByID(_ context.Context, id int64) (*bookingDomain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", strconv.FormatInt(id, 10))
	}
	return cloneBooking(b), nil
}

// Find returns one page of bookings matching filter, newest start first.
func (s *BookingStore) Find(_ context.Context, filter bookingDomain.Filter, page bookingDomain.Page) ([]*bookingDomain.Booking, error) {
	s.mu.RLock()
	matched := make([]*bookingDomain.Booking, 0)
	for _, b := range s.bookings {
		if filter.Matches(b) {
			matched = append(matched, cloneBooking(b))
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return bookingDomain.Less(matched[i], matched[j]) })

	offset := page.Offset()
	if offset >= len(matched) {
		return []*bookingDomain.Booking{}, nil
	}
	end := offset + page.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

// FindLastForItem returns the latest-ending booking of the item that started before now.
func (s *BookingStore) FindLastForItem(_ context.Context, itemID int64, now time.Time) (*bookingDomain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var last *bookingDomain.Booking
	for _, b := range s.bookings {
		if b.Item().ID != itemID || !b.Start().Before(now) {
			continue
		}
		if last == nil || b.End().After(last.End()) || (b.End().Equal(last.End()) && b.ID() > last.ID()) {
			last = b
		}
	}
	if last == nil {
		return nil, nil
	}
	return cloneBooking(last), nil
}

// FindNextForItem returns the earliest-starting approved booking of the item that starts after now.
func (s *BookingStore) FindNextForItem(_ context.Context, itemID int64, now time.Time) (*bookingDomain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var next *bookingDomain.Booking
	for _, b := range s.bookings {
		if b.Item().ID != itemID || !b.Start().After(now) || b.Status() != bookingDomain.StatusApproved {
			continue
		}
		if next == nil || b.Start().Before(next.Start()) || (b.Start().Equal(next.Start()) && b.ID() < next.ID()) {
			next = b
		}
	}
	if next == nil {
		return nil, nil
	}
	return cloneBooking(next), nil
}

// HasCompletedBooking reports whether the booker finished an approved rental of the item.
func (s *BookingStore) HasCompletedBooking(_ context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bookings {
		if b.Item().ID == itemID && b.Booker().ID == bookerID &&
			b.End().Before(now) && b.Status() == bookingDomain.StatusApproved {
			return true, nil
		}
	}
	return false, nil
}

// CountByStatus returns booking counts grouped by status.
func (s *BookingStore) CountByStatus(_ context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int64)
	for _, b := range s.bookings {
		counts[string(b.Status())]++
	}
	return counts, nil
}

// Save stores a new booking and assigns its id.
func (s *BookingStore) Save(_ context.Context, b *bookingDomain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b.AssignID(s.nextID)
	s.bookings[b.ID()] = cloneBooking(b)
	return nil
}

// UpdateStatus applies the same compare-and-swap as the SQL store: the stored booking must still be
// WAITING at the version preceding b's.
func (s *BookingStore) UpdateStatus(_ context.Context, b *bookingDomain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.bookings[b.ID()]
	if !ok || stored.Version() != b.Version()-1 || stored.Status() != bookingDomain.StatusWaiting {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	s.bookings[b.ID()] = cloneBooking(b)
	return nil
}
