package permission

import (
	"errors"
	"testing"

	"github.com/nstepa/storefront/internal/errs"
	"github.com/nstepa/storefront/internal/model"
)

func TestHas_IntersectionSemantics(t *testing.T) {
	t.Parallel()

	// Required {ADMIN, ITEM_DELETE}: holding either one is enough.
	if !Has([]model.Capability{model.CapItemDelete}, model.CapAdmin, model.CapItemDelete) {
		t.Fatalf("ITEM_DELETE alone should satisfy {ADMIN, ITEM_DELETE}")
	}
	if !Has([]model.Capability{model.CapAdmin}, model.CapAdmin, model.CapItemDelete) {
		t.Fatalf("ADMIN alone should satisfy {ADMIN, ITEM_DELETE}")
	}
	if Has([]model.Capability{model.CapUser}, model.CapAdmin, model.CapItemDelete) {
		t.Fatalf("USER should not satisfy {ADMIN, ITEM_DELETE}")
	}
	if Has(nil, model.CapAdmin) {
		t.Fatalf("empty grant set should satisfy nothing")
	}
	if Has([]model.Capability{model.CapAdmin}) {
		t.Fatalf("empty required set should never pass")
	}
}

func TestRequire(t *testing.T) {
	t.Parallel()

	if err := Require(nil, model.CapAdmin); !errors.Is(err, errs.ErrUnauthenticated) {
		t.Fatalf("nil user: want ErrUnauthenticated, got %v", err)
	}

	u := &model.User{Capabilities: []model.Capability{model.CapUser}}
	if err := Require(u, model.CapAdmin, model.CapPermissionUpdate); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}

	u.Capabilities = append(u.Capabilities, model.CapPermissionUpdate)
	if err := Require(u, model.CapAdmin, model.CapPermissionUpdate); err != nil {
		t.Fatalf("want nil, got %v", err)
	}
}
