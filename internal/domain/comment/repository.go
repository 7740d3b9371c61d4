package comment

import "context"

// CommentRepository defines persistence operations for item comments.
type CommentRepository interface {
	Save(ctx context.Context, comment *Comment) error
	// FindByItemIDs returns comments of the given items, oldest first.
	FindByItemIDs(ctx context.Context, itemIDs []int64) ([]*Comment, error)
}
