package order

import (
	"context"

	"storefront/internal/domain"
)

// Repository persists orders. Create and Cancel are single transactions;
// a failure leaves no partial order or lock state behind.
type Repository interface {
	// Create snapshots the cart into a pending order, freezing per-item
	// prices, and locks the cart by setting its order_id. The cart's
	// items are left in place for display.
	Create(ctx context.Context, cartID int64, userID *int64) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// Cancel unlocks the originating cart if one still references the
	// order, then deletes the order and its items. The returned cart id
	// is nil when no cart was linked.
	Cancel(ctx context.Context, orderID int64) (*int64, error)
}
