package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/booking"
	commentDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/comment"
	itemDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/item"
	requestDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/request"
	userDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/user"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/domain"
)

// CreateItemRequest is the request DTO for listing an item.
type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"requestId"`
}

// UpdateItemRequest is the request DTO for a partial item update.
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// CreateCommentRequest is the request DTO for commenting on an item.
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// ItemDTO is the API response representation of an item.
type ItemDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *int64 `json:"requestId"`
}

// ItemWithBookingsDTO is an item with its comments and, for the owner, its neighbouring bookings.
type ItemWithBookingsDTO struct {
	ItemDTO
	LastBooking *BookingShortDTO `json:"lastBooking"`
	NextBooking *BookingShortDTO `json:"nextBooking"`
	Comments    []CommentDTO     `json:"comments"`
}

// CommentDTO is the API response representation of a comment.
type CommentDTO struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

// ItemService implements the item catalog and its comments.
type ItemService struct {
	items    itemDomain.ItemRepository
	users    userDomain.UserRepository
	bookings bookingDomain.BookingRepository
	comments commentDomain.CommentRepository
	requests requestDomain.RequestRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewItemService creates a new ItemService.
func NewItemService(
	items itemDomain.ItemRepository,
	users userDomain.UserRepository,
	bookings bookingDomain.BookingRepository,
	comments commentDomain.CommentRepository,
	requests requestDomain.RequestRepository,
	logger *zap.Logger,
) *ItemService {
	return &ItemService{
		items:    items,
		users:    users,
		bookings: bookings,
		comments: comments,
		requests: requests,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateItem lists a new item for ownerID, optionally in answer to a request.
func (s *ItemService) CreateItem(ctx context.Context, ownerID int64, req CreateItemRequest) (*ItemDTO, error) {
	if _, err := s.users.FindByID(ctx, ownerID); err != nil {
		return nil, err
	}
	if req.RequestID != nil {
		if _, err := s.requests.FindByID(ctx, *req.RequestID); err != nil {
			return nil, err
		}
	}
	if req.Available == nil {
		return nil, domain.NewValidationError("item availability is required")
	}

	it, err := itemDomain.NewItem(ownerID, req.Name, req.Description, *req.Available, req.RequestID)
	if err != nil {
		return nil, err
	}
	if err := s.items.Save(ctx, it); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	s.logger.Info("item created",
		zap.Int64("item_id", it.ID()),
		zap.Int64("owner_id", ownerID),
	)
	result := toItemDTO(it)
	return &result, nil
}

// UpdateItem applies a partial update made by the item's owner.
func (s *ItemService) UpdateItem(ctx context.Context, ownerID, itemID int64, req UpdateItemRequest) (*ItemDTO, error) {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !it.IsOwnedBy(ownerID) {
		return nil, domain.NewForbiddenError("user is not the owner of the item")
	}

	it.Update(req.Name, req.Description, req.Available)
	if err := s.items.Update(ctx, it); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	s.logger.Info("item updated", zap.Int64("item_id", itemID))
	result := toItemDTO(it)
	return &result, nil
}

// GetItem returns an item with its comments; the owner also sees the last and next bookings.
func (s *ItemService) GetItem(ctx context.Context, userID, itemID int64) (*ItemWithBookingsDTO, error) {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentsByItem(ctx, []int64{it.ID()})
	if err != nil {
		return nil, err
	}

	result := ItemWithBookingsDTO{ItemDTO: toItemDTO(it), Comments: comments[it.ID()]}
	if it.IsOwnedBy(userID) {
		if err := s.fillBookings(ctx, &result, s.now()); err != nil {
			return nil, err
		}
	}
	return &result, nil
}

// ListOwnerItems returns the owner's items by id, each with bookings and comments.
func (s *ItemService) ListOwnerItems(ctx context.Context, ownerID int64) ([]ItemWithBookingsDTO, error) {
	items, err := s.items.FindByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID()
	}
	comments, err := s.commentsByItem(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := s.now()
	dtos := make([]ItemWithBookingsDTO, len(items))
	for i, it := range items {
		dtos[i] = ItemWithBookingsDTO{ItemDTO: toItemDTO(it), Comments: comments[it.ID()]}
		if err := s.fillBookings(ctx, &dtos[i], now); err != nil {
			return nil, err
		}
	}
	return dtos, nil
}

// SearchItems finds available items whose name or description contains text.
func (s *ItemService) SearchItems(ctx context.Context, text string, from, size int) ([]ItemDTO, error) {
	page, err := bookingDomain.NewPage(from, size)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return []ItemDTO{}, nil
	}

	items, err := s.items.Search(ctx, text, page.Offset(), page.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	dtos := make([]ItemDTO, len(items))
	for i, it := range items {
		dtos[i] = toItemDTO(it)
	}
	return dtos, nil
}

// AddComment lets a user who completed an approved rental of the item leave a comment.
func (s *ItemService) AddComment(ctx context.Context, userID, itemID int64, req CreateCommentRequest) (*CommentDTO, error) {
	it, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	author, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	rented, err := s.bookings.HasCompletedBooking(ctx, it.ID(), author.ID(), s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to check booking history: %w", err)
	}
	if !rented {
		return nil, domain.NewValidationError("user has not completed a rental of this item")
	}

	c, err := commentDomain.NewComment(it.ID(), author.ID(), author.Name(), req.Text)
	if err != nil {
		return nil, err
	}
	if err := s.comments.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}

	s.logger.Info("comment added",
		zap.Int64("item_id", it.ID()),
		zap.Int64("author_id", author.ID()),
	)
	result := toCommentDTO(c)
	return &result, nil
}

func (s *ItemService) fillBookings(ctx context.Context, dto *ItemWithBookingsDTO, now time.Time) error {
	last, err := s.bookings.FindLastForItem(ctx, dto.ID, now)
	if err != nil {
		return fmt.Errorf("failed to load last booking: %w", err)
	}
	next, err := s.bookings.FindNextForItem(ctx, dto.ID, now)
	if err != nil {
		return fmt.Errorf("failed to load next booking: %w", err)
	}
	dto.LastBooking = toBookingShortDTO(last)
	dto.NextBooking = toBookingShortDTO(next)
	return nil
}

func (s *ItemService) commentsByItem(ctx context.Context, itemIDs []int64) (map[int64][]CommentDTO, error) {
	byItem := make(map[int64][]CommentDTO, len(itemIDs))
	for _, id := range itemIDs {
		byItem[id] = []CommentDTO{}
	}
	if len(itemIDs) == 0 {
		return byItem, nil
	}

	comments, err := s.comments.FindByItemIDs(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	for _, c := range comments {
		byItem[c.ItemID()] = append(byItem[c.ItemID()], toCommentDTO(c))
	}
	return byItem, nil
}

func toItemDTO(it *itemDomain.Item) ItemDTO {
	return ItemDTO{
		ID:          it.ID(),
		Name:        it.Name(),
		Description: it.Description(),
		Available:   it.Available(),
		RequestID:   it.RequestID(),
	}
}

func toCommentDTO(c *commentDomain.Comment) CommentDTO {
	return CommentDTO{
		ID:         c.ID(),
		Text:       c.Text(),
		AuthorName: c.AuthorName(),
		Created:    c.Created(),
	}
}
