package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	itemDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/item"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/domain"
)

var _ itemDomain.ItemRepository = (*ItemStore)(nil)

// ItemStore is an in-memory ItemRepository.
type ItemStore struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]*itemDomain.Item
}

// NewItemStore creates an empty ItemStore.
func NewItemStore() *ItemStore {
	return &ItemStore{items: make(map[int64]*itemDomain.Item)}
}

func cloneItem(i *itemDomain.Item) *itemDomain.Item {
	return itemDomain.Reconstruct(
		i.ID(), i.OwnerID(), i.Name(), i.Description(), i.Available(),
		i.RequestID(), i.Version(), i.CreatedAt(), i.UpdatedAt(),
	)
}

// collect returns clones of the items accepted by keep, ordered by id.
func (s *ItemStore) collect(keep func(*itemDomain.Item) bool) []*itemDomain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*itemDomain.Item, 0)
	for _, it := range s.items {
		if keep(it) {
			out = append(out, cloneItem(it))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// FindByID returns a copy of the item with the given id.
func (s *ItemStore) FindByID(_ context.Context, id int64) (*itemDomain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("Item", strconv.FormatInt(id, 10))
	}
	return cloneItem(it), nil
}

// FindByOwnerID returns the items of ownerID ordered by id.
func (s *ItemStore) FindByOwnerID(_ context.Context, ownerID int64) ([]*itemDomain.Item, error) {
	return s.collect(func(it *itemDomain.Item) bool { return it.OwnerID() == ownerID }), nil
}

// FindByRequestIDs returns the items created in answer to the given requests.
func (s *ItemStore) FindByRequestIDs(_ context.Context, requestIDs []int64) ([]*itemDomain.Item, error) {
	wanted := make(map[int64]struct{}, len(requestIDs))
	for _, id := range requestIDs {
		wanted[id] = struct{}{}
	}
	return s.collect(func(it *itemDomain.Item) bool {
		if it.RequestID() == nil {
			return false
		}
		_, ok := wanted[*it.RequestID()]
		return ok
	}), nil
}

// Search returns one page of available items whose name or description contains text.
func (s *ItemStore) Search(_ context.Context, text string, offset, limit int) ([]*itemDomain.Item, error) {
	needle := strings.ToLower(text)
	found := s.collect(func(it *itemDomain.Item) bool {
		return it.Available() &&
			(strings.Contains(strings.ToLower(it.Name()), needle) ||
				strings.Contains(strings.ToLower(it.Description()), needle))
	})
	if offset >= len(found) {
		return []*itemDomain.Item{}, nil
	}
	end := offset + limit
	if end > len(found) {
		end = len(found)
	}
	return found[offset:end], nil
}

// Save stores a new item and assigns its id.
func (s *ItemStore) Save(_ context.Context, it *itemDomain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	it.AssignID(s.nextID)
	s.items[it.ID()] = cloneItem(it)
	return nil
}

// Update replaces the item when the stored version is one behind it.
func (s *ItemStore) Update(_ context.Context, it *itemDomain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.items[it.ID()]
	if !ok || stored.Version() != it.Version()-1 {
		return domain.NewConflictError("item was modified by another transaction")
	}
	s.items[it.ID()] = cloneItem(it)
	return nil
}
