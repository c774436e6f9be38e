package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TypeStockUpdate  = "stock_update"
	TypeOrderCreated = "order_created"
)

const (
	ActionItemStocked   = "item_stocked"
	ActionStockAdded    = "stock_added"
	ActionQuantityAdded = "quantity_added"
	ActionStockUpdated  = "stock_updated"
	ActionRunningOut    = "running_out"
	ActionOrderCreated  = "order_created"
)

// Event is a domain change pushed to subscribers. Key identifies the changed record and is
// used as the partition key when the event goes to Kafka.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Action     string    `json:"action"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

func New(typ, action, key string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		Action:     action,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher delivers events without blocking the caller on subscribers.
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// Fanout publishes every event to each of its publishers in order.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, e Event) {
	for _, p := range f {
		p.Publish(ctx, e)
	}
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) {}

// Recorder keeps every published event. Used by tests.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) {
	r.Events = append(r.Events, e)
}
