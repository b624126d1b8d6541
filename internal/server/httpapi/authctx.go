package httpapi

import (
	"context"
	"sync"

	"github.com/gofrs/uuid/v5"

	"github.com/nstepa/storefront/internal/model"
	"github.com/nstepa/storefront/internal/repository"
)

type ctxKey string

const principalKey ctxKey = "storefront.principal"

// Principal is the request-scoped identity. The full user record, including
// capabilities, is loaded from the store on first access and cached for the
// rest of the request. The cache never outlives the request.
type Principal struct {
	ID    uuid.UUID
	users repository.UserRepository

	mu   sync.Mutex
	user *model.User
}

// User resolves the full user record, loading it lazily.
func (p *Principal) User(ctx context.Context) (*model.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.user != nil {
		return p.user, nil
	}
	u, err := p.users.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.user = u
	return u, nil
}

// WithPrincipal stores the authenticated principal in the request context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromCtx fetches the principal; ok is false for anonymous requests.
func PrincipalFromCtx(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok
}
