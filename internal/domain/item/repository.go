package item

import "context"

// ItemRepository defines persistence operations for item listings.
type ItemRepository interface {
	FindByID(ctx context.Context, id int64) (*Item, error)
	// FindByOwnerID returns the owner's items ordered by id.
	FindByOwnerID(ctx context.Context, ownerID int64) ([]*Item, error)
	// FindByRequestIDs returns items created in answer to any of the given requests.
	FindByRequestIDs(ctx context.Context, requestIDs []int64) ([]*Item, error)
	// Search matches text case-insensitively against name or description of available items, ordered by id.
	Search(ctx context.Context, text string, offset, limit int) ([]*Item, error)
	Save(ctx context.Context, item *Item) error
	// Update persists changes with optimistic locking on version.
	Update(ctx context.Context, item *Item) error
}
