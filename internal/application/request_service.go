package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	bookingDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/booking"
	itemDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/item"
	requestDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/request"
	userDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/user"
)

// CreateRequestRequest is the request DTO for posting to the request board.
type CreateRequestRequest struct {
	Description string `json:"description" binding:"required"`
}

// RequestDTO is a request board entry with the items listed in answer to it.
type RequestDTO struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
	Items       []ItemDTO `json:"items"`
}

// RequestService implements the item-request board.
type RequestService struct {
	requests requestDomain.RequestRepository
	items    itemDomain.ItemRepository
	users    userDomain.UserRepository
	logger   *zap.Logger
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	requests requestDomain.RequestRepository,
	items itemDomain.ItemRepository,
	users userDomain.UserRepository,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{requests: requests, items: items, users: users, logger: logger}
}

// CreateRequest posts a request for an item nobody has listed yet.
func (s *RequestService) CreateRequest(ctx context.Context, userID int64, req CreateRequestRequest) (*RequestDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	r, err := requestDomain.NewItemRequest(userID, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.requests.Save(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	s.logger.Info("item request created",
		zap.Int64("request_id", r.ID()),
		zap.Int64("requester_id", userID),
	)
	result := toRequestDTO(r, nil)
	return &result, nil
}

// ListOwnRequests returns the user's requests, oldest first, with their answers.
func (s *RequestService) ListOwnRequests(ctx context.Context, userID int64) ([]RequestDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.requests.FindByRequesterID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return s.withItems(ctx, requests)
}

// ListOtherRequests pages through everyone else's requests, oldest first.
func (s *RequestService) ListOtherRequests(ctx context.Context, userID int64, from, size int) ([]RequestDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	page, err := bookingDomain.NewPage(from, size)
	if err != nil {
		return nil, err
	}
	requests, err := s.requests.FindOthers(ctx, userID, page.Offset(), page.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return s.withItems(ctx, requests)
}

// GetRequest returns a single request with its answers.
func (s *RequestService) GetRequest(ctx context.Context, userID, requestID int64) (*RequestDTO, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	r, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	dtos, err := s.withItems(ctx, []*requestDomain.ItemRequest{r})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

func (s *RequestService) withItems(ctx context.Context, requests []*requestDomain.ItemRequest) ([]RequestDTO, error) {
	ids := make([]int64, len(requests))
	for i, r := range requests {
		ids[i] = r.ID()
	}
	answers, err := s.items.FindByRequestIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load answering items: %w", err)
	}

	byRequest := make(map[int64][]*itemDomain.Item)
	for _, it := range answers {
		if it.RequestID() != nil {
			byRequest[*it.RequestID()] = append(byRequest[*it.RequestID()], it)
		}
	}

	dtos := make([]RequestDTO, len(requests))
	for i, r := range requests {
		dtos[i] = toRequestDTO(r, byRequest[r.ID()])
	}
	return dtos, nil
}

func toRequestDTO(r *requestDomain.ItemRequest, items []*itemDomain.Item) RequestDTO {
	dto := RequestDTO{
		ID:          r.ID(),
		Description: r.Description(),
		Created:     r.Created(),
		Items:       make([]ItemDTO, len(items)),
	}
	for i, it := range items {
		dto.Items[i] = toItemDTO(it)
	}
	return dto
}
