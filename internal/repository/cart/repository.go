package cart

import (
	"context"

	"storefront/internal/domain"
)

// Repository persists carts and their items. Implementations must enforce
// the cart lock and per-line serialization at the storage layer; callers
// may run concurrently without in-process coordination.
type Repository interface {
	Create(ctx context.Context, userID *int64) (*domain.Cart, error)
	// GetOrCreateByUser returns the user's cart, creating one if absent.
	GetOrCreateByUser(ctx context.Context, userID int64) (*domain.Cart, error)
	GetByID(ctx context.Context, id int64) (*domain.Cart, error)
	GetByUser(ctx context.Context, userID int64) (*domain.Cart, error)

	// ApplyDelta adjusts a line's quantity relative to its current value.
	// A nil item with nil error means the delta drove the quantity to zero
	// or below and the line was deleted.
	ApplyDelta(ctx context.Context, cartID, productID int64, delta int) (*domain.CartItem, error)
	SetQuantity(ctx context.Context, cartID, productID int64, quantity int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, cartID, productID int64) error
	Clear(ctx context.Context, cartID int64) error

	Associate(ctx context.Context, cartID, userID int64) (*domain.Cart, error)
	Disassociate(ctx context.Context, cartID int64) (*domain.Cart, error)
}
