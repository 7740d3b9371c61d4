package request

import "context"

// RequestRepository defines persistence operations for the request board.
type RequestRepository interface {
	FindByID(ctx context.Context, id int64) (*ItemRequest, error)
	// FindByRequesterID returns the user's own requests, oldest first.
	FindByRequesterID(ctx context.Context, requesterID int64) ([]*ItemRequest, error)
	// FindOthers returns requests made by anyone but userID, oldest first.
	FindOthers(ctx context.Context, userID int64, offset, limit int) ([]*ItemRequest, error)
	Save(ctx context.Context, request *ItemRequest) error
}
