package cart

import (
	"context"

	"storefront/internal/domain"
)

// Service owns the cart lifecycle: resolution, line mutation and
// association with an identity. All exclusion is delegated to the
// repository's transactional primitives; the service holds no locks.
type Service struct {
	repo        cartRepo
	productRepo productRepo
}

type cartRepo interface {
	Create(ctx context.Context, userID *int64) (*domain.Cart, error)
	GetOrCreateByUser(ctx context.Context, userID int64) (*domain.Cart, error)
	GetByID(ctx context.Context, id int64) (*domain.Cart, error)
	GetByUser(ctx context.Context, userID int64) (*domain.Cart, error)
	ApplyDelta(ctx context.Context, cartID, productID int64, delta int) (*domain.CartItem, error)
	SetQuantity(ctx context.Context, cartID, productID int64, quantity int) (*domain.CartItem, error)
	RemoveItem(ctx context.Context, cartID, productID int64) error
	Clear(ctx context.Context, cartID int64) error
	Associate(ctx context.Context, cartID, userID int64) (*domain.Cart, error)
	Disassociate(ctx context.Context, cartID int64) (*domain.Cart, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

func New(repo cartRepo, productRepo productRepo) *Service {
	return &Service{repo: repo, productRepo: productRepo}
}

// emptyCart is the canonical zero-item shape returned when no cart exists
// yet. Callers treat it as a valid state, not an error.
func emptyCart() *domain.Cart {
	return &domain.Cart{Products: []domain.CartItem{}}
}

// ResolveOrCreate returns the cart for the request. An authenticated
// identity takes precedence over an explicit cart id; a user with no cart
// gets one created, an anonymous request with no usable cart id gets a
// fresh ownerless cart.
func (s *Service) ResolveOrCreate(ctx context.Context, userID, cartID *int64) (*domain.Cart, error) {
	if userID != nil {
		return s.repo.GetOrCreateByUser(ctx, *userID)
	}
	if cartID != nil {
		cart, err := s.repo.GetByID(ctx, *cartID)
		if err == nil {
			return cart, nil
		}
		if err != domain.ErrNotFound {
			return nil, err
		}
	}
	return s.repo.Create(ctx, nil)
}

// Fetch is the read-only counterpart of ResolveOrCreate. A request that
// resolves to no cart gets the empty shape back.
func (s *Service) Fetch(ctx context.Context, userID, cartID *int64) (*domain.Cart, error) {
	var (
		cart *domain.Cart
		err  error
	)
	switch {
	case userID != nil:
		cart, err = s.repo.GetByUser(ctx, *userID)
	case cartID != nil:
		cart, err = s.repo.GetByID(ctx, *cartID)
	default:
		return emptyCart(), nil
	}
	if err != nil {
		if err == domain.ErrNotFound {
			return emptyCart(), nil
		}
		return nil, err
	}
	return cart, nil
}

// ApplyDelta adjusts a line quantity by a signed delta. A delta that would
// drive the quantity to zero or below deletes the line; the returned item
// is nil in that case.
func (s *Service) ApplyDelta(ctx context.Context, cartID, productID int64, delta int) (*domain.CartItem, error) {
	if delta == 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.repo.ApplyDelta(ctx, cartID, productID, delta)
}

// SetQuantity sets an absolute quantity on an existing line.
func (s *Service) SetQuantity(ctx context.Context, cartID, productID int64, quantity int) (*domain.CartItem, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}
	return s.repo.SetQuantity(ctx, cartID, productID, quantity)
}

// Remove deletes one line from the cart.
func (s *Service) Remove(ctx context.Context, cartID, productID int64) error {
	return s.repo.RemoveItem(ctx, cartID, productID)
}

// Clear deletes all lines, preserving the cart itself.
func (s *Service) Clear(ctx context.Context, cartID int64) error {
	return s.repo.Clear(ctx, cartID)
}

// Associate rebinds an anonymous cart to a user on login. If the user
// already owns a different cart the rebind is rejected with
// domain.ErrAlreadyExists; both carts are left untouched.
func (s *Service) Associate(ctx context.Context, cartID, userID int64) (*domain.Cart, error) {
	return s.repo.Associate(ctx, cartID, userID)
}

// Disassociate detaches a cart from its user on logout; the cart stays
// usable anonymously.
func (s *Service) Disassociate(ctx context.Context, cartID int64) (*domain.Cart, error) {
	return s.repo.Disassociate(ctx, cartID)
}
