package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	commentDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/comment"
	requestDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/request"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/domain"
)

var (
	_ commentDomain.CommentRepository = (*CommentStore)(nil)
	_ requestDomain.RequestRepository = (*RequestStore)(nil)
)

// CommentStore is an in-memory CommentRepository.
type CommentStore struct {
	mu       sync.RWMutex
	comments []*commentDomain.Comment
}

// NewCommentStore creates an empty CommentStore.
func NewCommentStore() *CommentStore {
	return &CommentStore{}
}

// Save stores a new comment and assigns its id.
func (s *CommentStore) Save(_ context.Context, c *commentDomain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.AssignID(int64(len(s.comments) + 1))
	s.comments = append(s.comments, commentDomain.Reconstruct(
		c.ID(), c.ItemID(), c.AuthorID(), c.AuthorName(), c.Text(), c.Created()))
	return nil
}

// FindByItemIDs returns the comments of the given items in the order they were added.
func (s *CommentStore) FindByItemIDs(_ context.Context, itemIDs []int64) ([]*commentDomain.Comment, error) {
	wanted := make(map[int64]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = struct{}{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*commentDomain.Comment, 0)
	for _, c := range s.comments {
		if _, ok := wanted[c.ItemID()]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// RequestStore is an in-memory RequestRepository.
type RequestStore struct {
	mu       sync.RWMutex
	requests []*requestDomain.ItemRequest
}

// NewRequestStore creates an empty RequestStore.
func NewRequestStore() *RequestStore {
	return &RequestStore{}
}

// FindByID returns a copy of the request with the given id.
func (s *RequestStore) FindByID(_ context.Context, id int64) (*requestDomain.ItemRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.requests {
		if r.ID() == id {
			return r, nil
		}
	}
	return nil, domain.NewNotFoundError("ItemRequest", strconv.FormatInt(id, 10))
}

func (s *RequestStore) filter(keep func(*requestDomain.ItemRequest) bool) []*requestDomain.ItemRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*requestDomain.ItemRequest, 0)
	for _, r := range s.requests {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Created().Before(out[j].Created()) })
	return out
}

// FindByRequesterID returns the requests created by requesterID, oldest first.
func (s *RequestStore) FindByRequesterID(_ context.Context, requesterID int64) ([]*requestDomain.ItemRequest, error) {
	return s.filter(func(r *requestDomain.ItemRequest) bool { return r.RequesterID() == requesterID }), nil
}

// FindOthers returns one page of requests created by anyone but userID, oldest first.
func (s *RequestStore) FindOthers(_ context.Context, userID int64, offset, limit int) ([]*requestDomain.ItemRequest, error) {
	others := s.filter(func(r *requestDomain.ItemRequest) bool { return r.RequesterID() != userID })
	if offset >= len(others) {
		return []*requestDomain.ItemRequest{}, nil
	}
	end := offset + limit
	if end > len(others) {
		end = len(others)
	}
	return others[offset:end], nil
}

// Save stores a new request and assigns its id.
func (s *RequestStore) Save(_ context.Context, r *requestDomain.ItemRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.AssignID(int64(len(s.requests) + 1))
	s.requests = append(s.requests, requestDomain.Reconstruct(r.ID(), r.RequesterID(), r.Description(), r.Created()))
	return nil
}
