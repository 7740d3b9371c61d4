package request

import (
	"strings"
	"time"

	"github.com/ShareIt-Rental/service-shareit/internal/platform/domain"
)

// ItemRequest is a post on the request board asking for an item nobody lists yet.
type ItemRequest struct {
	id          int64
	requesterID int64
	description string
	created     time.Time
}

// NewItemRequest creates a request. Description must not be blank.
func NewItemRequest(requesterID int64, description string) (*ItemRequest, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, domain.NewValidationError("request description is required")
	}
	return &ItemRequest{
		requesterID: requesterID,
		description: description,
		created:     time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds an ItemRequest from persistence.
func Reconstruct(id, requesterID int64, description string, created time.Time) *ItemRequest {
	return &ItemRequest{id: id, requesterID: requesterID, description: description, created: created}
}

func (r *ItemRequest) ID() int64           { return r.id }
func (r *ItemRequest) RequesterID() int64  { return r.requesterID }
func (r *ItemRequest) Description() string { return r.description }
func (r *ItemRequest) Created() time.Time  { return r.created }

// AssignID records the identifier chosen by the store on insert.
func (r *ItemRequest) AssignID(id int64) { r.id = id }
