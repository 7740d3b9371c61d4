package memory

import (
	"context"
	"sort"
	"strconv"
	"sync"

	userDomain "github.com/ShareIt-Rental/service-shareit/internal/domain/user"
	"github.com/ShareIt-Rental/service-shareit/internal/platform/domain"
)

var _ userDomain.UserRepository = (*UserStore)(nil)

// UserStore is an in-memory UserRepository.
type UserStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*userDomain.User
}

// NewUserStore creates an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[int64]*userDomain.User)}
}

func cloneUser(u *userDomain.User) *userDomain.User {
	return userDomain.Reconstruct(u.ID(), u.Name(), u.Email(), u.CreatedAt(), u.UpdatedAt())
}

// FindByID returns a copy of the user with the given id.
func (s *UserStore) FindByID(_ context.Context, id int64) (*userDomain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.NewNotFoundError("User", strconv.FormatInt(id, 10))
	}
	return cloneUser(u), nil
}

// FindAll returns every user ordered by id.
func (s *UserStore) FindAll(_ context.Context) ([]*userDomain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*userDomain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

// ExistsByEmail reports whether a user other than excludeID already uses email.
func (s *UserStore) ExistsByEmail(_ context.Context, email string, excludeID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emailTaken(email, excludeID), nil
}

func (s *UserStore) emailTaken(email string, excludeID int64) bool {
	for _, u := range s.users {
		if u.Email() == email && u.ID() != excludeID {
			return true
		}
	}
	return false
}

// Save stores a new user and assigns its id. A taken email is a conflict.
func (s *UserStore) Save(_ context.Context, u *userDomain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTaken(u.Email(), 0) {
		return domain.NewConflictError("email already in use: " + u.Email())
	}
	s.nextID++
	u.AssignID(s.nextID)
	s.users[u.ID()] = cloneUser(u)
	return nil
}

// Update replaces a stored user. A taken email is a conflict.
func (s *UserStore) Update(_ context.Context, u *userDomain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID()]; !ok {
		return domain.NewNotFoundError("User", strconv.FormatInt(u.ID(), 10))
	}
	if s.emailTaken(u.Email(), u.ID()) {
		return domain.NewConflictError("email already in use: " + u.Email())
	}
	s.users[u.ID()] = cloneUser(u)
	return nil
}

// Delete removes the user with the given id.
func (s *UserStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return domain.NewNotFoundError("User", strconv.FormatInt(id, 10))
	}
	delete(s.users, id)
	return nil
}
