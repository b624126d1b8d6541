// Package service contains application services for accounts, catalog, cart and checkout.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/nstepa/storefront/internal/credentials"
	"github.com/nstepa/storefront/internal/errs"
	"github.com/nstepa/storefront/internal/limiter"
	"github.com/nstepa/storefront/internal/mail"
	"github.com/nstepa/storefront/internal/model"
	"github.com/nstepa/storefront/internal/permission"
	"github.com/nstepa/storefront/internal/repository"
)

const minPasswordLen = 8

// AuthService defines account, session and password-reset operations.
type AuthService interface {
	// Signup creates an account with a normalized unique email and returns
	// the user with a fresh session token.
	Signup(ctx context.Context, email, password string) (*model.User, string, error)
	// Signin authenticates by email/password with rate limiting by (email, ip).
	Signin(ctx context.Context, email, password, ip string) (*model.User, string, error)
	// Me loads the current principal's record.
	Me(ctx context.Context, userID uuid.UUID) (*model.User, error)
	// ListUsers returns all accounts; requires ADMIN or PERMISSION_UPDATE.
	ListUsers(ctx context.Context, actor *model.User) ([]model.User, error)
	// UpdateCapabilities replaces a user's grant set; requires ADMIN or PERMISSION_UPDATE.
	UpdateCapabilities(ctx context.Context, actor *model.User, target uuid.UUID, caps []model.Capability) (*model.User, error)
	// RequestReset issues a time-boxed reset token and emails a reset link.
	RequestReset(ctx context.Context, email string) error
	// ResetPassword redeems a reset token, rotates the password and returns
	// the user with a fresh session token.
	ResetPassword(ctx context.Context, token, newPassword, confirm string) (*model.User, string, error)
}

type AuthServiceImpl struct {
	users  repository.UserRepository
	creds  *credentials.Service
	lim    limiter.Limiter
	mailer mail.Sender
	appURL string // base URL for reset links
	log    *zap.Logger
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(
	users repository.UserRepository,
	creds *credentials.Service,
	lim limiter.Limiter,
	mailer mail.Sender,
	appURL string,
	log *zap.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, creds: creds, lim: lim, mailer: mailer, appURL: appURL, log: log}
}

// NormalizeEmail lower-cases and trims an email address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates a user with the USER capability and issues a session token.
func (s *AuthServiceImpl) Signup(ctx context.Context, email, password string) (*model.User, string, error) {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("bad email: %w", errs.ErrValidation)
	}
	if len(password) < minPasswordLen {
		return nil, "", fmt.Errorf("password shorter than %d characters: %w", minPasswordLen, errs.ErrValidation)
	}

	uid, err := uuid.NewV4()
	if err != nil {
		return nil, "", err
	}
	salt, err := credentials.RandBytes(16)
	if err != nil {
		return nil, "", err
	}

	u := &model.User{
		ID:           uid,
		Email:        email,
		PwdHash:      credentials.HashPassword([]byte(password), salt),
		SaltAuth:     salt,
		Capabilities: []model.Capability{model.CapUser},
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}

	tok, err := s.creds.IssueSessionToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// Signin authenticates a user. Unknown email and wrong password both fail
// with ErrUnauthenticated so account existence does not leak.
func (s *AuthServiceImpl) Signin(ctx context.Context, email, password, ip string) (*model.User, string, error) {
	email = NormalizeEmail(email)
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, email, ipHash)
	if err != nil {
		return nil, "", err
	}
	if !allowed {
		return nil, "", errs.ErrRateLimited
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		// Infrastructure failure, not a bad credential: surface it without
		// touching the failure counter.
		return nil, "", err
	}
	if err != nil || !credentials.VerifyPassword([]byte(password), u.SaltAuth, u.PwdHash) {
		if blocked, _, ferr := s.lim.Failure(ctx, email, ipHash); ferr == nil && blocked {
			return nil, "", errs.ErrRateLimited
		}
		return nil, "", errs.ErrUnauthenticated
	}

	// best-effort counter reset
	_ = s.lim.Success(ctx, email, ipHash)

	tok, err := s.creds.IssueSessionToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// Me loads the principal's own record.
func (s *AuthServiceImpl) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ListUsers returns every account to a sufficiently privileged caller.
func (s *AuthServiceImpl) ListUsers(ctx context.Context, actor *model.User) ([]model.User, error) {
	if err := permission.Require(actor, model.CapAdmin, model.CapPermissionUpdate); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// UpdateCapabilities replaces the target's grant set after validating every
// value against the closed capability enumeration.
func (s *AuthServiceImpl) UpdateCapabilities(
	ctx context.Context, actor *model.User, target uuid.UUID, caps []model.Capability,
) (*model.User, error) {
	if err := permission.Require(actor, model.CapAdmin, model.CapPermissionUpdate); err != nil {
		return nil, err
	}
	for _, c := range caps {
		if !c.Valid() {
			return nil, fmt.Errorf("unknown capability %q: %w", c, errs.ErrValidation)
		}
	}
	if err := s.users.SetCapabilities(ctx, target, caps); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, target)
}
