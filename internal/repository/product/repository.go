package product

import (
	"context"

	"storefront/internal/domain"
)

// Repository is a read-only view of the catalog. The cart/order subsystem
// never writes products.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)
}
