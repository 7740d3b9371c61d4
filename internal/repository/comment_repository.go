package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	commentDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/comment"
)

// CommentModel is the GORM model for the comments table.
type CommentModel struct {
	ID       int64     `gorm:"primaryKey;autoIncrement"`
	Text     string    `gorm:"size:2000;not null"`
	ItemID   int64     `gorm:"not null;index"`
	AuthorID int64     `gorm:"not null"`
	Created  time.Time `gorm:"not null"`

	Author UserModel `gorm:"foreignKey:AuthorID"`
}

// TableName sets the table name.
func (CommentModel) TableName() string { return "comments" }

// GormCommentRepository implements CommentRepository using GORM.
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository.
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// Save persists a new comment.
func (r *GormCommentRepository) Save(ctx context.Context, c *commentDomain.Comment) error {
	model := CommentModel{
		Text:     c.Text(),
		ItemID:   c.ItemID(),
		AuthorID: c.AuthorID(),
		Created:  c.Created(),
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to save comment: %w", err)
	}
	c.AssignID(model.ID)
	return nil
}

// FindByItemIDs returns comments for the given items, oldest first.
func (r *GormCommentRepository) FindByItemIDs(ctx context.Context, itemIDs []int64) ([]*commentDomain.Comment, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	var models []CommentModel
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("item_id IN ?", itemIDs).
		Order("created ASC").
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find comments: %w", err)
	}

	comments := make([]*commentDomain.Comment, len(models))
	for i := range models {
		comments[i] = toCommentDomain(&models[i])
	}
	return comments, nil
}

func toCommentDomain(m *CommentModel) *commentDomain.Comment {
	return commentDomain.Reconstruct(
		m.ID,
		m.ItemID,
		m.AuthorID,
		m.Author.Name,
		m.Text,
		m.Created,
	)
}
