package events

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestNewEnvelope(t *testing.T) {
	payload := OrderCreatedPayload{
		OrderID:    42,
		TotalCents: 2500,
		Items:      []OrderItemPayload{{ProductID: 1, Quantity: 2, PriceCents: 1250}},
	}

	env, err := NewEnvelope(EventOrderCreated, "storefront-api", payload)
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	if _, err := uuid.Parse(env.EventID); err != nil {
		t.Fatalf("event id is not a uuid: %q", env.EventID)
	}
	if env.EventType != EventOrderCreated || env.EventVersion != 1 {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if env.OccurredAt.IsZero() {
		t.Fatalf("occurred_at must be set")
	}

	var decoded OrderCreatedPayload
	if err := json.Unmarshal(env.Payload, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.OrderID != 42 || len(decoded.Items) != 1 {
		t.Fatalf("payload round trip lost data: %+v", decoded)
	}
}

func TestNewEnvelope_DistinctIDs(t *testing.T) {
	a, err := NewEnvelope(EventOrderCancelled, "storefront-api", OrderCancelledPayload{OrderID: 1})
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	b, err := NewEnvelope(EventOrderCancelled, "storefront-api", OrderCancelledPayload{OrderID: 1})
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	if a.EventID == b.EventID {
		t.Fatalf("event ids must be unique")
	}
}
