// Package permission implements capability checks for gated operations.
package permission

import (
	"fmt"

	"github.com/nstepa/storefront/internal/errs"
	"github.com/nstepa/storefront/internal/model"
)

// Has reports whether the granted set intersects the required set.
// Semantics are OR across required capabilities: holding any one of
// them is enough.
func Has(granted []model.Capability, required ...model.Capability) bool {
	for _, need := range required {
		for _, have := range granted {
			if have == need {
				return true
			}
		}
	}
	return false
}

// Require fails the operation unless the user holds at least one of the
// required capabilities. A nil user is anonymous and always fails.
func Require(u *model.User, required ...model.Capability) error {
	if u == nil {
		return errs.ErrUnauthenticated
	}
	if !Has(u.Capabilities, required...) {
		return fmt.Errorf("need one of %v: %w", required, errs.ErrForbidden)
	}
	return nil
}
