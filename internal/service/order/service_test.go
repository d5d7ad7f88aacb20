package order

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/events"
)

type stubRepo struct {
	createOrder  *domain.Order
	createErr    error
	lastCartID   int64
	lastUserID   *int64
	getOrder     *domain.Order
	getErr       error
	getCalls     int
	cancelCartID *int64
	cancelErr    error
	cancelCalls  int
}

func (s *stubRepo) Create(_ context.Context, cartID int64, userID *int64) (*domain.Order, error) {
	s.lastCartID = cartID
	s.lastUserID = userID
	return s.createOrder, s.createErr
}

func (s *stubRepo) GetByID(_ context.Context, _ int64) (*domain.Order, error) {
	s.getCalls++
	return s.getOrder, s.getErr
}

func (s *stubRepo) Cancel(_ context.Context, _ int64) (*int64, error) {
	s.cancelCalls++
	return s.cancelCartID, s.cancelErr
}

type stubProducer struct {
	published []events.Envelope
}

func (s *stubProducer) Publish(_ int64, env events.Envelope) {
	s.published = append(s.published, env)
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func int64p(v int64) *int64 { return &v }

func TestCreate_PublishesOrderCreated(t *testing.T) {
	repo := &stubRepo{
		createOrder: &domain.Order{
			ID:         10,
			UserID:     int64p(3),
			TotalCents: 3000,
			Status:     domain.StatusPending,
			Items: []domain.OrderItem{
				{ProductID: 1, Quantity: 3, PriceCents: 1000},
			},
		},
	}
	producer := &stubProducer{}
	svc := New(repo, producer, nil, testLogger())

	order, err := svc.Create(context.Background(), 5, int64p(3))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if order.ID != 10 || order.Status != domain.StatusPending {
		t.Fatalf("unexpected order %+v", order)
	}
	if repo.lastCartID != 5 {
		t.Fatalf("expected cart 5, got %d", repo.lastCartID)
	}

	if len(producer.published) != 1 {
		t.Fatalf("expected one event, got %d", len(producer.published))
	}
	env := producer.published[0]
	if env.EventType != events.EventOrderCreated || env.EventID == "" {
		t.Fatalf("unexpected envelope %+v", env)
	}
	var payload events.OrderCreatedPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.OrderID != 10 || payload.TotalCents != 3000 || len(payload.Items) != 1 {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if payload.Items[0].PriceCents != 1000 || payload.Items[0].Quantity != 3 {
		t.Fatalf("unexpected item payload %+v", payload.Items[0])
	}
}

func TestCreate_EmptyCartFailsWithoutEvent(t *testing.T) {
	repo := &stubRepo{createErr: domain.ErrEmptyCart}
	producer := &stubProducer{}
	svc := New(repo, producer, nil, testLogger())

	_, err := svc.Create(context.Background(), 5, nil)
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if len(producer.published) != 0 {
		t.Fatalf("no event expected on failure")
	}
}

func TestCreate_AlreadyLockedCart(t *testing.T) {
	repo := &stubRepo{createErr: domain.ErrOrderExists}
	svc := New(repo, nil, nil, testLogger())

	_, err := svc.Create(context.Background(), 5, nil)
	if !errors.Is(err, domain.ErrOrderExists) {
		t.Fatalf("expected ErrOrderExists, got %v", err)
	}
}

func TestCancel_PublishesOrderCancelled(t *testing.T) {
	repo := &stubRepo{cancelCartID: int64p(5)}
	producer := &stubProducer{}
	svc := New(repo, producer, nil, testLogger())

	if err := svc.Cancel(context.Background(), 10); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if repo.cancelCalls != 1 {
		t.Fatalf("expected one cancel call")
	}
	if len(producer.published) != 1 || producer.published[0].EventType != events.EventOrderCancelled {
		t.Fatalf("expected OrderCancelled event, got %+v", producer.published)
	}
	var payload events.OrderCancelledPayload
	if err := json.Unmarshal(producer.published[0].Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.OrderID != 10 || payload.CartID == nil || *payload.CartID != 5 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestCancel_NotFound(t *testing.T) {
	repo := &stubRepo{cancelErr: domain.ErrNotFound}
	producer := &stubProducer{}
	svc := New(repo, producer, nil, testLogger())

	if err := svc.Cancel(context.Background(), 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(producer.published) != 0 {
		t.Fatalf("no event expected on failure")
	}
}

func TestStatus_FallsBackToRepoWithoutCache(t *testing.T) {
	repo := &stubRepo{getOrder: &domain.Order{ID: 10, Status: domain.StatusPending}}
	svc := New(repo, nil, nil, testLogger())

	status, err := svc.Status(context.Background(), 10)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status != domain.StatusPending || repo.getCalls != 1 {
		t.Fatalf("expected pending from repo, got %q calls=%d", status, repo.getCalls)
	}
}
