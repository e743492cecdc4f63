package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/voyago/travel-gateway/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

const (
	BookingAdded = "booking.added"
)

// BookingAddedEvent is emitted after a booking lands in the tenant's
// bookings collection and its ID is appended to the user document.
type BookingAddedEvent struct {
	Tenant   string  `json:"tenant"`
	Username string  `json:"username"`
	Flight   string  `json:"flight"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	BookedOn string  `json:"booked_on"`
}
