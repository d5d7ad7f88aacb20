package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderCreated   = "OrderCreated"
	EventOrderCancelled = "OrderCancelled"
)

// Envelope wraps every event published to the orders topic.
type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	Payload      json.RawMessage `json:"payload"`
}

type OrderItemPayload struct {
	ProductID  int64 `json:"product_id"`
	Quantity   int   `json:"quantity"`
	PriceCents int64 `json:"price_cents"`
}

type OrderCreatedPayload struct {
	OrderID    int64              `json:"order_id"`
	UserID     *int64             `json:"user_id,omitempty"`
	Items      []OrderItemPayload `json:"items"`
	TotalCents int64              `json:"total_cents"`
}

type OrderCancelledPayload struct {
	OrderID int64  `json:"order_id"`
	CartID  *int64 `json:"cart_id,omitempty"`
}

// NewEnvelope marshals the payload into a versioned envelope with a fresh
// event id.
func NewEnvelope(eventType, producer string, payload interface{}) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     producer,
		Payload:      raw,
	}, nil
}
