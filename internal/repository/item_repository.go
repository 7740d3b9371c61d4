package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	itemDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/item"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/domain"
)

// ItemModel is the GORM model for the items table.
type ItemModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Name        string    `gorm:"size:255;not null"`
	Description string    `gorm:"size:2000;not null"`
	Available   bool      `gorm:"not null"`
	OwnerID     int64     `gorm:"not null;index"`
	RequestID   *int64    `gorm:"index"`
	Version     int64     `gorm:"not null;default:1"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (ItemModel) TableName() string { return "items" }

// GormItemRepository implements ItemRepository using GORM.
type GormItemRepository struct {
	db *gorm.DB
}

func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

func (r *GormItemRepository) FindByID(ctx context.Context, id int64) (*itemDomain.Item, error) {
	var model ItemModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Item", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("failed to find item: %w", err)
	}
	return toItemDomain(&model), nil
}

func (r *GormItemRepository) FindByOwnerID(ctx context.Context, ownerID int64) ([]*itemDomain.Item, error) {
	var models []ItemModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find owner items: %w", err)
	}
	return toItemDomains(models), nil
}

func (r *GormItemRepository) FindByRequestIDs(ctx context.Context, requestIDs []int64) ([]*itemDomain.Item, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}
	var models []ItemModel
	if err := r.db.WithContext(ctx).
		Where("request_id IN ?", requestIDs).
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find items by request: %w", err)
	}
	return toItemDomains(models), nil
}

func (r *GormItemRepository) Search(ctx context.Context, text string, offset, limit int) ([]*itemDomain.Item, error) {
	pattern := "%" + strings.ToLower(text) + "%"
	var models []ItemModel
	if err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return toItemDomains(models), nil
}

func (r *GormItemRepository) Save(ctx context.Context, it *itemDomain.Item) error {
	model := toItemModel(it)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}
	it.AssignID(model.ID)
	return nil
}

func (r *GormItemRepository) Update(ctx context.Context, it *itemDomain.Item) error {
	previousVersion := it.Version() - 1

	result := r.db.WithContext(ctx).
		Model(&ItemModel{}).
		Where("id = ? AND version = ?", it.ID(), previousVersion).
		Updates(map[string]interface{}{
			"name":        it.Name(),
			"description": it.Description(),
			"available":   it.Available(),
			"version":     it.Version(),
			"updated_at":  it.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("item was modified by another transaction")
	}
	return nil
}

// --- Conversions ---

func toItemModel(it *itemDomain.Item) *ItemModel {
	return &ItemModel{
		ID:          it.ID(),
		Name:        it.Name(),
		Description: it.Description(),
		Available:   it.Available(),
		OwnerID:     it.OwnerID(),
		RequestID:   it.RequestID(),
		Version:     it.Version(),
		CreatedAt:   it.CreatedAt(),
		UpdatedAt:   it.UpdatedAt(),
	}
}

func toItemDomain(m *ItemModel) *itemDomain.Item {
	return itemDomain.Reconstruct(
		m.ID, m.OwnerID,
		m.Name, m.Description,
		m.Available,
		m.RequestID,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	)
}

func toItemDomains(models []ItemModel) []*itemDomain.Item {
	items := make([]*itemDomain.Item, len(models))
	for i := range models {
		items[i] = toItemDomain(&models[i])
	}
	return items
}
