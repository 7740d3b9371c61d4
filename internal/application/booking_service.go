package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/booking"
	itemDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/item"
	userDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/user"
	"github.com/ShareIt-Rental/service-shareit/internal/events"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/domain"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/metrics"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/timestamp"
)

// EventPublisher delivers booking lifecycle events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, data interface{}) error
}

// CreateBookingRequest holds the data needed to create a new booking.
// start and end may be sent as RFC 3339 or as zone-less UTC date-times.
type CreateBookingRequest struct {
	ItemID int64     `json:"itemId" binding:"required"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}

// UnmarshalJSON decodes start and end with timestamp.Parse.
func (r *CreateBookingRequest) UnmarshalJSON(data []byte) error {
	var wire struct {
		ItemID int64          `json:"itemId"`
		Start  timestamp.Time `json:"start"`
		End    timestamp.Time `json:"end"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*r = CreateBookingRequest{ItemID: wire.ItemID, Start: wire.Start.Std(), End: wire.End.Std()}
	return nil
}

// ItemRefDTO is the short item representation embedded in a booking.
type ItemRefDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookerRefDTO is the short user representation embedded in a booking.
type BookerRefDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID     int64        `json:"id"`
	Start  time.Time    `json:"start"`
	End    time.Time    `json:"end"`
	Status string       `json:"status"`
	Item   ItemRefDTO   `json:"item"`
	Booker BookerRefDTO `json:"booker"`
}

// BookingShortDTO is the booking summary attached to an item for its owner.
type BookingShortDTO struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"totalBookings"`
	ByStatus      map[string]int64 `json:"byStatus"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	bookings  bookingDomain.BookingRepository
	items     itemDomain.ItemRepository
	users     userDomain.UserRepository
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.BookingRepository,
	items itemDomain.ItemRepository,
	users userDomain.UserRepository,
	publisher EventPublisher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:  bookings,
		items:     items,
		users:     users,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateBooking requests an item for [start, end) on behalf of requesterID.
// Checks run in a fixed order: dates, item existence, self-booking, availability, requester existence.
func (s *BookingService) CreateBooking(ctx context.Context, requesterID int64, req CreateBookingRequest) (*BookingDTO, error) {
	start, end := bookingDomain.NormalizeTime(req.Start), bookingDomain.NormalizeTime(req.End)
	if !start.Before(end) {
		return nil, domain.NewValidationError("booking start must be before its end")
	}

	it, err := s.items.FindByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if it.IsOwnedBy(requesterID) {
		return nil, domain.NewForbiddenError("owner cannot book own item")
	}
	if !it.Available() {
		return nil, domain.NewValidationError("item " + strconv.FormatInt(it.ID(), 10) + " is not available for booking")
	}

	booker, err := s.users.FindByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	bk, err := bookingDomain.NewBooking(
		bookingDomain.ItemRef{ID: it.ID(), Name: it.Name(), OwnerID: it.OwnerID()},
		bookingDomain.BookerRef{ID: booker.ID(), Name: booker.Name()},
		start,
		end,
	)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}
	metrics.IncBookingTransition(bk.Status().String())

	s.logger.Info("booking requested",
		zap.Int64("booking_id", bk.ID()),
		zap.Int64("item_id", it.ID()),
		zap.Int64("booker_id", booker.ID()),
	)

	s.publishEvent(ctx, events.BookingRequested, bk, events.BookingRequestedEvent{
		BookingID:  bk.ID(),
		ItemID:     it.ID(),
		OwnerID:    it.OwnerID(),
		BookerID:   booker.ID(),
		Start:      bk.Start(),
		End:        bk.End(),
		OccurredAt: s.now(),
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// DecideBooking approves, rejects or cancels a waiting booking on behalf of actorID.
func (s *BookingService) DecideBooking(ctx context.Context, bookingID, actorID int64, approved bool) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	from := bk.Status()
	if err := bk.Decide(actorID, approved); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.UpdateStatus(ctx, bk); err != nil {
		if domain.IsKind(err, domain.KindConflict) {
			return nil, domain.NewInvalidStateError(from.String(), bk.Status().String())
		}
		return nil, err
	}
	metrics.IncBookingTransition(bk.Status().String())

	s.logger.Info("booking decided",
		zap.Int64("booking_id", bk.ID()),
		zap.Int64("actor_id", actorID),
		zap.String("status", bk.Status().String()),
	)

	if eventType, ok := events.DecisionEventType(bk.Status().String()); ok {
		s.publishEvent(ctx, eventType, bk, events.BookingDecidedEvent{
			BookingID:  bk.ID(),
			ItemID:     bk.Item().ID,
			OwnerID:    bk.Item().OwnerID,
			BookerID:   bk.Booker().ID,
			Status:     bk.Status().String(),
			DecidedBy:  actorID,
			OccurredAt: s.now(),
		})
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking visible to actorID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, actorID int64) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !bk.CanBeViewedBy(actorID) {
		return nil, domain.NewForbiddenError("booking is not available to this user")
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// ListBookerBookings lists the bookings actorID made, filtered by state.
func (s *BookingService) ListBookerBookings(ctx context.Context, actorID int64, state string, from, size int) ([]BookingDTO, error) {
	return s.list(ctx, bookingDomain.RoleBooker, actorID, state, from, size)
}

// ListOwnerBookings lists the bookings of items actorID owns, filtered by state.
func (s *BookingService) ListOwnerBookings(ctx context.Context, actorID int64, state string, from, size int) ([]BookingDTO, error) {
	return s.list(ctx, bookingDomain.RoleOwner, actorID, state, from, size)
}

func (s *BookingService) list(ctx context.Context, role bookingDomain.Role, actorID int64, rawState string, from, size int) ([]BookingDTO, error) {
	if _, err := s.users.FindByID(ctx, actorID); err != nil {
		return nil, err
	}

	state, err := bookingDomain.ParseState(rawState)
	if err != nil {
		return nil, err
	}
	page, err := bookingDomain.NewPage(from, size)
	if err != nil {
		return nil, err
	}

	filter, err := bookingDomain.ResolveFilter(role, state, actorID, s.now())
	if err != nil {
		return nil, err
	}

	bookings, err := s.bookings.Find(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, nil
}

// --- Admin methods ---

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:     bk.ID(),
		Start:  bk.Start(),
		End:    bk.End(),
		Status: bk.Status().String(),
		Item:   ItemRefDTO{ID: bk.Item().ID, Name: bk.Item().Name},
		Booker: BookerRefDTO{ID: bk.Booker().ID, Name: bk.Booker().Name},
	}
}

func toBookingShortDTO(bk *bookingDomain.Booking) *BookingShortDTO {
	if bk == nil {
		return nil
	}
	return &BookingShortDTO{
		ID:       bk.ID(),
		BookerID: bk.Booker().ID,
		Start:    bk.Start(),
		End:      bk.End(),
	}
}

func (s *BookingService) publishEvent(ctx context.Context, eventType string, bk *bookingDomain.Booking, data interface{}) {
	if err := s.publisher.Publish(ctx, eventType, strconv.FormatInt(bk.ID(), 10), data); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Int64("booking_id", bk.ID()),
			zap.Error(err),
		)
	}
}
