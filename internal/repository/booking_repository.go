package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookingDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/booking"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/domain"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	StartDate time.Time `gorm:"column:start_date;not null;index"`
	EndDate   time.Time `gorm:"column:end_date;not null"`
	ItemID    int64     `gorm:"not null;index"`
	BookerID  int64     `gorm:"not null;index"`
	Status    string    `gorm:"not null;size:20;index"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Item   ItemModel `gorm:"foreignKey:ItemID"`
	Booker UserModel `gorm:"foreignKey:BookerID"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

func (r *GormBookingRepository) withRefs(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&BookingModel{}).Preload("Item").Preload("Booker")
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.withRefs(ctx).Where("bookings.id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// Find returns one page of bookings matching filter, newest start first.
func (r *GormBookingRepository) Find(ctx context.Context, filter bookingDomain.Filter, page bookingDomain.Page) ([]*bookingDomain.Booking, error) {
	q := r.withRefs(ctx)

	switch filter.Role {
	case bookingDomain.RoleBooker:
		q = q.Where("bookings.booker_id = ?", filter.ActorID)
	case bookingDomain.RoleOwner:
		q = q.Joins("JOIN items ON items.id = bookings.item_id").
			Where("items.owner_id = ?", filter.ActorID)
	default:
		return nil, fmt.Errorf("unsupported booking role: %s", filter.Role)
	}

	if filter.StartBefore != nil {
		q = q.Where("bookings.start_date < ?", *filter.StartBefore)
	}
	if filter.StartAfter != nil {
		q = q.Where("bookings.start_date > ?", *filter.StartAfter)
	}
	if filter.EndAfter != nil {
		q = q.Where("bookings.end_date > ?", *filter.EndAfter)
	}
	if filter.EndBefore != nil {
		q = q.Where("bookings.end_date < ?", *filter.EndBefore)
	}
	if filter.Status != nil {
		q = q.Where("bookings.status = ?", string(*filter.Status))
	}

	var models []BookingModel
	if err := q.
		Order("bookings.start_date DESC").
		Order("bookings.id DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find %s bookings: %w", filter.Role, err)
	}
	return toDomainBookings(models)
}

// FindLastForItem returns the latest-ending booking of the item that started before now.
func (r *GormBookingRepository) FindLastForItem(ctx context.Context, itemID int64, now time.Time) (*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.withRefs(ctx).
		Where("bookings.item_id = ? AND bookings.start_date < ?", itemID, now.UTC()).
		Order("bookings.end_date DESC").
		Order("bookings.id DESC").
		Limit(1).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find last booking: %w", err)
	}
	return firstOrNil(models)
}

// FindNextForItem returns the earliest-starting approved booking of the item that starts after now.
func (r *GormBookingRepository) FindNextForItem(ctx context.Context, itemID int64, now time.Time) (*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.withRefs(ctx).
		Where("bookings.item_id = ? AND bookings.start_date > ? AND bookings.status = ?",
			itemID, now.UTC(), string(bookingDomain.StatusApproved)).
		Order("bookings.start_date ASC").
		Order("bookings.id ASC").
		Limit(1).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find next booking: %w", err)
	}
	return firstOrNil(models)
}

// HasCompletedBooking reports whether the booker finished an approved rental of the item.
func (r *GormBookingRepository) HasCompletedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Where("item_id = ? AND booker_id = ? AND end_date < ? AND status = ?",
			itemID, bookerID, now.UTC(), string(bookingDomain.StatusApproved)).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check completed bookings: %w", err)
	}
	return count > 0, nil
}

// CountByStatus returns booking counts grouped by status.
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new booking and assigns its id.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	bk.AssignID(model.ID)
	return nil
}

// UpdateStatus writes the decided status only if the row is still WAITING at the expected version.
func (r *GormBookingRepository) UpdateStatus(ctx context.Context, bk *bookingDomain.Booking) error {
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ? AND status = ?", bk.ID(), expectedVersion, string(bookingDomain.StatusWaiting)).
		Updates(map[string]interface{}{
			"status":     string(bk.Status()),
			"version":    bk.Version(),
			"updated_at": bk.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:        bk.ID(),
		StartDate: bk.Start(),
		EndDate:   bk.End(),
		ItemID:    bk.Item().ID,
		BookerID:  bk.Booker().ID,
		Status:    string(bk.Status()),
		Version:   bk.Version(),
		CreatedAt: bk.CreatedAt(),
		UpdatedAt: bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.StartDate,
		m.EndDate,
		bookingDomain.ItemRef{ID: m.ItemID, Name: m.Item.Name, OwnerID: m.Item.OwnerID},
		bookingDomain.BookerRef{ID: m.BookerID, Name: m.Booker.Name},
		status,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}

func firstOrNil(models []BookingModel) (*bookingDomain.Booking, error) {
	if len(models) == 0 {
		return nil, nil
	}
	return toDomainBooking(&models[0])
}
