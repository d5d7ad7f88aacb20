package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrEmptyCart indicates order creation was attempted on a cart with no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrOrderExists indicates the cart already has a pending order.
	ErrOrderExists = errors.New("order already exists for cart")
	// ErrCartLocked indicates a mutation was attempted on a cart with a pending order.
	ErrCartLocked = errors.New("cart is locked by a pending order")
	// ErrInvalidQuantity indicates a non-positive quantity or a decrement of a missing item.
	ErrInvalidQuantity = errors.New("invalid quantity")
)
