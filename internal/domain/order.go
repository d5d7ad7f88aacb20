package domain

import "time"

// Order statuses. Only StatusPending is ever produced by checkout; the
// remaining states belong to fulfilment flows outside this service.
const (
	StatusPending   = "pending"
	StatusShipped   = "shipped"
	StatusCompleted = "completed"
)

// Order is an immutable snapshot of a cart at conversion time. TotalCents
// and the per-item prices are frozen; later catalog price changes never
// touch an existing order.
type Order struct {
	ID         int64       `json:"id"`
	UserID     *int64      `json:"userId"`
	TotalCents int64       `json:"totalCents"`
	Status     string      `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	Items      []OrderItem `json:"items,omitempty"`
}

// OrderItem copies a cart line with the product price captured at the
// instant of conversion.
type OrderItem struct {
	ID         int64  `json:"id"`
	OrderID    int64  `json:"orderId"`
	ProductID  int64  `json:"productId"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"priceCents"`
	Name       string `json:"name,omitempty"`
}
