package user

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ShareIt-Rental/service-shareit/internal/platform/domain"
)

// emailValidator applies the same "email" rule gin uses when binding request bodies.
var emailValidator = validator.New()

// User is a marketplace member: an item owner, a booker, or both.
type User struct {
	id        int64
	name      string
	email     string
	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates a User with a required name and a well-formed email.
func NewUser(name, email string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("user name is required")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		name:      name,
		email:     email,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(id int64, name, email string, createdAt, updatedAt time.Time) *User {
	return &User{id: id, name: name, email: email, createdAt: createdAt, updatedAt: updatedAt}
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return domain.NewValidationError("user email is required")
	}
	if err := emailValidator.Var(email, "required,email"); err != nil {
		return domain.NewValidationError("user email is invalid: " + email)
	}
	return nil
}

func (u *User) ID() int64            { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// AssignID records the identifier chosen by the store on insert.
func (u *User) AssignID(id int64) { u.id = id }

// Update applies a partial update. Nil fields are left unchanged.
func (u *User) Update(name, email *string) error {
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" {
			return domain.NewValidationError("user name must not be blank")
		}
		u.name = n
	}
	if email != nil {
		if err := validateEmail(*email); err != nil {
			return err
		}
		u.email = *email
	}
	u.updatedAt = time.Now().UTC()
	return nil
}
