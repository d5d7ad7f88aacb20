package domain

import "time"

// Cart is one shopping session. UserID is nil for anonymous carts.
// A non-nil OrderID marks the cart locked: no item mutation is permitted
// until the pending order is cancelled.
type Cart struct {
	ID        int64      `json:"id"`
	UserID    *int64     `json:"userId"`
	OrderID   *int64     `json:"orderId"`
	CreatedAt time.Time  `json:"createdAt"`
	Products  []CartItem `json:"products"`
}

// Locked reports whether the cart has a pending order.
func (c Cart) Locked() bool {
	return c.OrderID != nil
}

// CartItem is one (cart, product) line. Quantity is always >= 1 while the
// line exists; a delta that would drive it to zero or below deletes it.
type CartItem struct {
	CartID    int64    `json:"cartId"`
	ProductID int64    `json:"productId"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}
