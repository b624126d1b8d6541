// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/nstepa/storefront/internal/model"
)

// UserRepository provides account storage.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByEmail loads a user by normalized email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// List returns all users.
	List(ctx context.Context) ([]model.User, error)
	// SetResetToken stores a pending reset token and its expiry on the user.
	SetResetToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error
	// GetByLiveResetToken loads the user whose stored reset token matches
	// and whose expiry is after now.
	GetByLiveResetToken(ctx context.Context, token string, now time.Time) (*model.User, error)
	// RotatePassword replaces the password hash/salt and clears the reset
	// token fields in one write.
	RotatePassword(ctx context.Context, id uuid.UUID, pwdHash, saltAuth []byte) error
	// SetCapabilities replaces the user's granted capability set.
	SetCapabilities(ctx context.Context, id uuid.UUID, caps []model.Capability) error
}
