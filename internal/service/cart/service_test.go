package cart

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
)

type stubRepo struct {
	createCart       *domain.Cart
	createErr        error
	createCalls      int
	lastCreateUser   *int64
	getOrCreateCart  *domain.Cart
	getOrCreateCalls int
	byIDCart         *domain.Cart
	byIDErr          error
	byUserCart       *domain.Cart
	byUserErr        error
	deltaItem        *domain.CartItem
	deltaErr         error
	lastDeltaCart    int64
	lastDeltaProduct int64
	lastDelta        int
	setItem          *domain.CartItem
	setErr           error
	lastSetQty       int
	removeErr        error
	clearErr         error
	associateCart    *domain.Cart
	associateErr     error
	disassociateCart *domain.Cart
	disassociateErr  error
}

func (s *stubRepo) Create(_ context.Context, userID *int64) (*domain.Cart, error) {
	s.createCalls++
	s.lastCreateUser = userID
	return s.createCart, s.createErr
}

func (s *stubRepo) GetOrCreateByUser(_ context.Context, _ int64) (*domain.Cart, error) {
	s.getOrCreateCalls++
	return s.getOrCreateCart, nil
}

func (s *stubRepo) GetByID(_ context.Context, _ int64) (*domain.Cart, error) {
	return s.byIDCart, s.byIDErr
}

func (s *stubRepo) GetByUser(_ context.Context, _ int64) (*domain.Cart, error) {
	return s.byUserCart, s.byUserErr
}

func (s *stubRepo) ApplyDelta(_ context.Context, cartID, productID int64, delta int) (*domain.CartItem, error) {
	s.lastDeltaCart = cartID
	s.lastDeltaProduct = productID
	s.lastDelta = delta
	return s.deltaItem, s.deltaErr
}

func (s *stubRepo) SetQuantity(_ context.Context, _, _ int64, quantity int) (*domain.CartItem, error) {
	s.lastSetQty = quantity
	return s.setItem, s.setErr
}

func (s *stubRepo) RemoveItem(_ context.Context, _, _ int64) error { return s.removeErr }
func (s *stubRepo) Clear(_ context.Context, _ int64) error         { return s.clearErr }

func (s *stubRepo) Associate(_ context.Context, _, _ int64) (*domain.Cart, error) {
	return s.associateCart, s.associateErr
}

func (s *stubRepo) Disassociate(_ context.Context, _ int64) (*domain.Cart, error) {
	return s.disassociateCart, s.disassociateErr
}

type stubProductRepo struct {
	product *domain.Product
	err     error
}

func (s *stubProductRepo) GetByID(_ context.Context, _ int64) (*domain.Product, error) {
	return s.product, s.err
}

func int64p(v int64) *int64 { return &v }

func TestResolveOrCreate_IdentityTakesPrecedence(t *testing.T) {
	repo := &stubRepo{getOrCreateCart: &domain.Cart{ID: 7, UserID: int64p(3)}}
	svc := New(repo, &stubProductRepo{})

	cartID := int64p(99)
	cart, err := svc.ResolveOrCreate(context.Background(), int64p(3), cartID)
	if err != nil {
		t.Fatalf("ResolveOrCreate: %v", err)
	}
	if cart.ID != 7 {
		t.Fatalf("expected user cart 7, got %d", cart.ID)
	}
	if repo.getOrCreateCalls != 1 || repo.createCalls != 0 {
		t.Fatalf("expected user-cart upsert only, got %+v", repo)
	}
}

func TestResolveOrCreate_UnknownCartIDCreatesAnonymous(t *testing.T) {
	repo := &stubRepo{
		byIDErr:    domain.ErrNotFound,
		createCart: &domain.Cart{ID: 11},
	}
	svc := New(repo, &stubProductRepo{})

	cart, err := svc.ResolveOrCreate(context.Background(), nil, int64p(99))
	if err != nil {
		t.Fatalf("ResolveOrCreate: %v", err)
	}
	if cart.ID != 11 {
		t.Fatalf("expected fresh cart 11, got %d", cart.ID)
	}
	if repo.lastCreateUser != nil {
		t.Fatalf("expected ownerless cart, got user %v", *repo.lastCreateUser)
	}
}

func TestResolveOrCreate_ExistingCartID(t *testing.T) {
	repo := &stubRepo{byIDCart: &domain.Cart{ID: 5}}
	svc := New(repo, &stubProductRepo{})

	cart, err := svc.ResolveOrCreate(context.Background(), nil, int64p(5))
	if err != nil {
		t.Fatalf("ResolveOrCreate: %v", err)
	}
	if cart.ID != 5 || repo.createCalls != 0 {
		t.Fatalf("expected existing cart 5 without create, got %+v calls=%d", cart, repo.createCalls)
	}
}

func TestFetch_NoCartReturnsEmptyShape(t *testing.T) {
	repo := &stubRepo{byUserErr: domain.ErrNotFound}
	svc := New(repo, &stubProductRepo{})

	cart, err := svc.Fetch(context.Background(), int64p(1), nil)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if cart == nil || cart.ID != 0 || cart.Products == nil || len(cart.Products) != 0 {
		t.Fatalf("expected empty cart shape, got %+v", cart)
	}
}

func TestFetch_NoReferenceReturnsEmptyShape(t *testing.T) {
	svc := New(&stubRepo{}, &stubProductRepo{})

	cart, err := svc.Fetch(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(cart.Products) != 0 {
		t.Fatalf("expected empty cart shape, got %+v", cart)
	}
}

func TestApplyDelta_ZeroDeltaRejected(t *testing.T) {
	svc := New(&stubRepo{}, &stubProductRepo{product: &domain.Product{ID: 1}})

	_, err := svc.ApplyDelta(context.Background(), 1, 1, 0)
	if !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestApplyDelta_UnknownProduct(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, &stubProductRepo{err: domain.ErrNotFound})

	_, err := svc.ApplyDelta(context.Background(), 1, 42, 2)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if repo.lastDelta != 0 {
		t.Fatalf("delta must not reach storage for unknown product")
	}
}

func TestApplyDelta_PassesThrough(t *testing.T) {
	repo := &stubRepo{deltaItem: &domain.CartItem{CartID: 1, ProductID: 2, Quantity: 3}}
	svc := New(repo, &stubProductRepo{product: &domain.Product{ID: 2}})

	item, err := svc.ApplyDelta(context.Background(), 1, 2, -1)
	if err != nil {
		t.Fatalf("ApplyDelta: %v", err)
	}
	if repo.lastDeltaCart != 1 || repo.lastDeltaProduct != 2 || repo.lastDelta != -1 {
		t.Fatalf("unexpected repo call %+v", repo)
	}
	if item.Quantity != 3 {
		t.Fatalf("unexpected item %+v", item)
	}
}

func TestApplyDelta_LockedCart(t *testing.T) {
	repo := &stubRepo{deltaErr: domain.ErrCartLocked}
	svc := New(repo, &stubProductRepo{product: &domain.Product{ID: 2}})

	_, err := svc.ApplyDelta(context.Background(), 1, 2, 1)
	if !errors.Is(err, domain.ErrCartLocked) {
		t.Fatalf("expected ErrCartLocked, got %v", err)
	}
}

func TestSetQuantity_RequiresPositive(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo, &stubProductRepo{})

	for _, qty := range []int{0, -3} {
		if _, err := svc.SetQuantity(context.Background(), 1, 2, qty); !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Fatalf("quantity %d: expected ErrInvalidQuantity, got %v", qty, err)
		}
	}
	if repo.lastSetQty != 0 {
		t.Fatalf("invalid quantity must not reach storage")
	}
}

func TestAssociate_RejectedWhenUserOwnsCart(t *testing.T) {
	repo := &stubRepo{associateErr: domain.ErrAlreadyExists}
	svc := New(repo, &stubProductRepo{})

	_, err := svc.Associate(context.Background(), 4, 9)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}
