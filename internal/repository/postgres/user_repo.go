package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/nstepa/storefront/internal/errs"
	"github.com/nstepa/storefront/internal/model"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, email, pwd_hash, salt_auth, capabilities, reset_token, reset_expiry, created_at`

// Create inserts a new user row.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (id, email, pwd_hash, salt_auth, capabilities)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Pool.Exec(ctx, q, u.ID, u.Email, u.PwdHash, u.SaltAuth, capsToStrings(u.Capabilities))
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByID selects a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.db.Pool.QueryRow(ctx, q, id))
}

// GetByEmail selects a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return scanUser(r.db.Pool.QueryRow(ctx, q, email))
}

// List returns all users ordered by creation time.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// SetResetToken stores a pending reset token and its expiry.
func (r *UserRepo) SetResetToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error {
	const q = `UPDATE users SET reset_token=$2, reset_expiry=$3 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, token, expiry)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// GetByLiveResetToken selects the user holding the token with an unexpired window.
func (r *UserRepo) GetByLiveResetToken(ctx context.Context, token string, now time.Time) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE reset_token=$1 AND reset_expiry>$2`
	u, err := scanUser(r.db.Pool.QueryRow(ctx, q, token, now))
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errs.ErrResetToken
	}
	return u, err
}

// RotatePassword replaces credentials and clears the reset token in one write.
func (r *UserRepo) RotatePassword(ctx context.Context, id uuid.UUID, pwdHash, saltAuth []byte) error {
	const q = `
UPDATE users
SET pwd_hash=$2, salt_auth=$3, reset_token=NULL, reset_expiry=NULL
WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, pwdHash, saltAuth)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// SetCapabilities replaces the granted capability set.
func (r *UserRepo) SetCapabilities(ctx context.Context, id uuid.UUID, caps []model.Capability) error {
	const q = `UPDATE users SET capabilities=$2 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id, capsToStrings(caps))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// scanUser maps a row onto model.User, translating no-rows to ErrNotFound.
func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u     model.User
		caps  []string
		token *string
	)
	err := row.Scan(&u.ID, &u.Email, &u.PwdHash, &u.SaltAuth, &caps, &token, &u.ResetExpiry, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	u.Capabilities = capsFromStrings(caps)
	if token != nil {
		u.ResetToken = *token
	}
	return &u, nil
}

func capsToStrings(caps []model.Capability) []string {
	out := make([]string, len(caps))
	for i, c := range caps {
		out[i] = string(c)
	}
	return out
}

func capsFromStrings(ss []string) []model.Capability {
	out := make([]model.Capability, len(ss))
	for i, s := range ss {
		out[i] = model.Capability(s)
	}
	return out
}
