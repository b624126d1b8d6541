// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Capability is a named permission grantable to a user.
// The set is closed: values outside the enumeration below are rejected
// at the permission-update boundary.
type Capability string

const (
	CapUser             Capability = "USER"
	CapAdmin            Capability = "ADMIN"
	CapItemCreate       Capability = "ITEM_CREATE"
	CapItemUpdate       Capability = "ITEM_UPDATE"
	CapItemDelete       Capability = "ITEM_DELETE"
	CapPermissionUpdate Capability = "PERMISSION_UPDATE"
)

// AllCapabilities enumerates every valid capability value.
var AllCapabilities = []Capability{
	CapUser, CapAdmin, CapItemCreate, CapItemUpdate, CapItemDelete, CapPermissionUpdate,
}

// Valid reports whether c belongs to the closed capability set.
func (c Capability) Valid() bool {
	for _, k := range AllCapabilities {
		if c == k {
			return true
		}
	}
	return false
}

// User represents an account. Email is stored case-normalized and unique.
type User struct {
	ID           uuid.UUID // PK
	Email        string    // lower-cased, unique
	PwdHash      []byte    // Argon2id(password, SaltAuth)
	SaltAuth     []byte    // per-user auth salt
	Capabilities []Capability
	ResetToken   string     // empty when no reset is pending
	ResetExpiry  *time.Time // nil when no reset is pending
	CreatedAt    time.Time
}

// Product is a catalog entry. Price is authoritative and server-held;
// checkout reads it and never trusts a client-supplied amount.
type Product struct {
	ID          uuid.UUID
	Title       string
	Description string
	PriceCents  int64
	Image       string
	LargeImage  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CartLine is one (user, product, quantity) record in an active cart.
// At most one line exists per (user, product) pair.
type CartLine struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int32
}

// CartItem pairs a cart line with its product snapshot, as read in one
// consistent query at checkout time.
type CartItem struct {
	Line    CartLine
	Product Product
}

// OrderLine is a priced copy of a product at purchase time, decoupled
// from later catalog edits. It carries its own ID, not the product's.
type OrderLine struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	Title       string
	Description string
	PriceCents  int64
	Quantity    int32
	Image       string
}

// Order is an immutable record of a completed purchase. Total is the
// amount the gateway reports as actually charged.
type Order struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	TotalCents int64
	ChargeID   string // external gateway charge reference
	Lines      []OrderLine
	CreatedAt  time.Time
}
