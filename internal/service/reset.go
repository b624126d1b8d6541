package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nstepa/storefront/internal/credentials"
	"github.com/nstepa/storefront/internal/errs"
	"github.com/nstepa/storefront/internal/mail"
	"github.com/nstepa/storefront/internal/model"
)

// RequestReset issues a single-use reset token, stores it with its expiry,
// and emails the reset link. A failed send does not roll back the token:
// email is best-effort notification.
func (s *AuthServiceImpl) RequestReset(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, expiry, err := s.creds.IssueResetToken()
	if err != nil {
		return err
	}
	if err := s.users.SetResetToken(ctx, u.ID, token, expiry); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset?token=%s", s.appURL, token)
	if err := s.mailer.Send(ctx, u.Email, "Your password reset", mail.ResetEmailBody(resetURL)); err != nil {
		s.log.Warn("reset email not delivered", zap.String("email", u.Email), zap.Error(err))
	}
	return nil
}

// ResetPassword redeems a reset token. The token must match a stored value
// whose expiry is still in the future; redemption clears it so a token is
// usable once.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, token, newPassword, confirm string) (*model.User, string, error) {
	if newPassword != confirm {
		return nil, "", fmt.Errorf("passwords do not match: %w", errs.ErrValidation)
	}
	if len(newPassword) < minPasswordLen {
		return nil, "", fmt.Errorf("password shorter than %d characters: %w", minPasswordLen, errs.ErrValidation)
	}
	if token == "" {
		return nil, "", errs.ErrResetToken
	}

	u, err := s.users.GetByLiveResetToken(ctx, token, time.Now())
	if err != nil {
		return nil, "", err
	}

	salt, err := credentials.RandBytes(16)
	if err != nil {
		return nil, "", err
	}
	hash := credentials.HashPassword([]byte(newPassword), salt)
	if err := s.users.RotatePassword(ctx, u.ID, hash, salt); err != nil {
		return nil, "", err
	}
	u.PwdHash, u.SaltAuth = hash, salt
	u.ResetToken, u.ResetExpiry = "", nil

	sess, err := s.creds.IssueSessionToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, sess, nil
}
