package user

import "context"

// UserRepository defines persistence operations for users.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	// ExistsByEmail reports whether a user other than excludeID already uses email.
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Save(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
}
