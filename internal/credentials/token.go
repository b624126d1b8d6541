package credentials

import (
	"encoding/hex"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/nstepa/storefront/internal/errs"
)

// resetTokenBytes is the entropy of a password-reset token before hex encoding.
const resetTokenBytes = 20

// ResetTokenTTL is the validity window of an issued reset token.
const ResetTokenTTL = time.Hour

// Service signs and verifies session tokens and issues reset tokens.
// The signing key is injected once at construction and never read
// from ambient process state.
type Service struct {
	signKey []byte
}

// NewService constructs a credential service with the given HS256 signing key.
func NewService(signKey []byte) *Service {
	return &Service{signKey: signKey}
}

// IssueSessionToken creates a signed HS256 JWT whose subject is the user ID.
// The token carries no expiry claim: sessions end when the client drops
// the credential.
func (s *Service) IssueSessionToken(userID uuid.UUID) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  userID.String(),
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.signKey)
}

// VerifySessionToken checks the signature and returns the embedded user ID.
// Malformed or badly signed tokens fail with errs.ErrTokenInvalid.
func (s *Service) VerifySessionToken(token string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.signKey, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, errs.ErrTokenInvalid
	}
	id, err := uuid.FromString(claims.Subject)
	if err != nil {
		return uuid.Nil, errs.ErrTokenInvalid
	}
	return id, nil
}

// IssueResetToken generates a random single-use reset token and its
// absolute expiry timestamp.
func (s *Service) IssueResetToken() (string, time.Time, error) {
	b, err := RandBytes(resetTokenBytes)
	if err != nil {
		return "", time.Time{}, err
	}
	return hex.EncodeToString(b), time.Now().Add(ResetTokenTTL), nil
}
