package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"storefront/internal/domain"
	"storefront/internal/events"
	"github.com/redis/go-redis/v9"
)

const (
	// statusKey caches order status for the read path.
	statusKey      = "order_status:%d"
	statusCacheTTL = 5 * time.Minute
)

// Service converts carts into immutable orders and back. The conversion
// itself is a single repository transaction; event publishing and status
// caching happen after commit and never fail the request.
type Service struct {
	repo     orderRepo
	producer eventProducer
	rdb      *redis.Client
	logger   *log.Logger
}

type orderRepo interface {
	Create(ctx context.Context, cartID int64, userID *int64) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Cancel(ctx context.Context, orderID int64) (*int64, error)
}

type eventProducer interface {
	Publish(orderID int64, env events.Envelope)
}

// New creates a Service. Both producer and rdb may be nil; the
// corresponding side effects are then skipped.
func New(repo orderRepo, producer eventProducer, rdb *redis.Client, logger *log.Logger) *Service {
	return &Service{repo: repo, producer: producer, rdb: rdb, logger: logger}
}

// Create checkouts a cart. It fails with domain.ErrEmptyCart when the cart
// has no lines and domain.ErrOrderExists when the cart is already locked.
func (s *Service) Create(ctx context.Context, cartID int64, userID *int64) (*domain.Order, error) {
	order, err := s.repo.Create(ctx, cartID, userID)
	if err != nil {
		return nil, err
	}

	s.cacheStatus(ctx, order.ID, order.Status)
	s.publishCreated(order)
	return order, nil
}

// Get returns the order with its items.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// Status returns the order status, served from the cache when possible.
func (s *Service) Status(ctx context.Context, id int64) (string, error) {
	if s.rdb != nil {
		if status, err := s.rdb.Get(ctx, fmt.Sprintf(statusKey, id)).Result(); err == nil {
			return status, nil
		} else if !errors.Is(err, redis.Nil) && s.logger != nil {
			s.logger.Printf("redis get status: %v", err)
		}
	}
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	s.cacheStatus(ctx, id, order.Status)
	return order.Status, nil
}

// Cancel deletes a pending order and unlocks its cart, if one still
// references it.
func (s *Service) Cancel(ctx context.Context, orderID int64) error {
	cartID, err := s.repo.Cancel(ctx, orderID)
	if err != nil {
		return err
	}

	s.dropStatus(ctx, orderID)
	s.publishCancelled(orderID, cartID)
	return nil
}

func (s *Service) cacheStatus(ctx context.Context, orderID int64, status string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Set(ctx, fmt.Sprintf(statusKey, orderID), status, statusCacheTTL).Err(); err != nil && s.logger != nil {
		s.logger.Printf("redis set status: %v", err)
	}
}

func (s *Service) dropStatus(ctx context.Context, orderID int64) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, fmt.Sprintf(statusKey, orderID)).Err(); err != nil && s.logger != nil {
		s.logger.Printf("redis del status: %v", err)
	}
}

func (s *Service) publishCreated(order *domain.Order) {
	if s.producer == nil {
		return
	}
	items := make([]events.OrderItemPayload, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, events.OrderItemPayload{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
		})
	}
	env, err := events.NewEnvelope(events.EventOrderCreated, "storefront-api", events.OrderCreatedPayload{
		OrderID:    order.ID,
		UserID:     order.UserID,
		Items:      items,
		TotalCents: order.TotalCents,
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("build %s event: %v", events.EventOrderCreated, err)
		}
		return
	}
	s.producer.Publish(order.ID, env)
}

func (s *Service) publishCancelled(orderID int64, cartID *int64) {
	if s.producer == nil {
		return
	}
	env, err := events.NewEnvelope(events.EventOrderCancelled, "storefront-api", events.OrderCancelledPayload{
		OrderID: orderID,
		CartID:  cartID,
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Printf("build %s event: %v", events.EventOrderCancelled, err)
		}
		return
	}
	s.producer.Publish(orderID, env)
}
