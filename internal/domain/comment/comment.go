package comment

import (
	"strings"
	"time"

	"github.com/ShareIt-Rental/service-shareit/internal/platform/domain"
)

// Comment is feedback left on an item by someone who rented it.
type Comment struct {
	id         int64
	itemID     int64
	authorID   int64
	authorName string
	text       string
	created    time.Time
}

// NewComment creates a new comment. Text must not be blank.
func NewComment(itemID, authorID int64, authorName, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.NewValidationError("comment text is required")
	}
	return &Comment{
		itemID:     itemID,
		authorID:   authorID,
		authorName: authorName,
		text:       text,
		created:    time.Now().UTC(),
	}, nil
}

// Reconstruct rebuilds a Comment from persistence.
func Reconstruct(id, itemID, authorID int64, authorName, text string, created time.Time) *Comment {
	return &Comment{
		id:         id,
		itemID:     itemID,
		authorID:   authorID,
		authorName: authorName,
		text:       text,
		created:    created,
	}
}

// Getters.
func (c *Comment) ID() int64          { return c.id }
func (c *Comment) ItemID() int64      { return c.itemID }
func (c *Comment) AuthorID() int64    { return c.authorID }
func (c *Comment) AuthorName() string { return c.authorName }
func (c *Comment) Text() string       { return c.text }
func (c *Comment) Created() time.Time { return c.created }

// AssignID records the identifier chosen by the store on insert.
func (c *Comment) AssignID(id int64) { c.id = id }
