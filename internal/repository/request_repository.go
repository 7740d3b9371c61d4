package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	requestDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/request"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/domain"
)

// RequestModel is the GORM model for the requests table.
type RequestModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Description string    `gorm:"size:2000;not null"`
	RequesterID int64     `gorm:"not null;index"`
	Created     time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (RequestModel) TableName() string { return "requests" }

// GormRequestRepository implements RequestRepository using GORM.
type GormRequestRepository struct {
	db *gorm.DB
}

// NewGormRequestRepository creates a new GormRequestRepository.
func NewGormRequestRepository(db *gorm.DB) *GormRequestRepository {
	return &GormRequestRepository{db: db}
}

// FindByID retrieves a request by id.
func (r *GormRequestRepository) FindByID(ctx context.Context, id int64) (*requestDomain.ItemRequest, error) {
	var model RequestModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Request", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to find request: %w", err)
	}
	return toRequestDomain(&model), nil
}

// FindByRequesterID returns a user's own requests, oldest first.
func (r *GormRequestRepository) FindByRequesterID(ctx context.Context, requesterID int64) ([]*requestDomain.ItemRequest, error) {
	var models []RequestModel
	if err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("created ASC").
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find own requests: %w", err)
	}
	return toRequestDomains(models), nil
}

// FindOthers returns other users' requests, oldest first.
func (r *GormRequestRepository) FindOthers(ctx context.Context, userID int64, offset, limit int) ([]*requestDomain.ItemRequest, error) {
	var models []RequestModel
	if err := r.db.WithContext(ctx).
		Where("requester_id <> ?", userID).
		Order("created ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find requests: %w", err)
	}
	return toRequestDomains(models), nil
}

// Save persists a new request.
func (r *GormRequestRepository) Save(ctx context.Context, req *requestDomain.ItemRequest) error {
	model := RequestModel{
		Description: req.Description(),
		RequesterID: req.RequesterID(),
		Created:     req.Created(),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to save request: %w", err)
	}
	req.AssignID(model.ID)
	return nil
}

func toRequestDomain(m *RequestModel) *requestDomain.ItemRequest {
	return requestDomain.Reconstruct(m.ID, m.RequesterID, m.Description, m.Created)
}

func toRequestDomains(models []RequestModel) []*requestDomain.ItemRequest {
	out := make([]*requestDomain.ItemRequest, len(models))
	for i := range models {
		out[i] = toRequestDomain(&models[i])
	}
	return out
}
