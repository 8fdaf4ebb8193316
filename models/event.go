package models

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Event types
const (
	EventNewOrder             EventType = "NEW_ORDER"
	EventOrderStatusUpdated   EventType = "ORDER_STATUS_UPDATED"
	EventOrderDeleted         EventType = "ORDER_DELETED"
	EventOrdersCleared        EventType = "ORDERS_CLEARED"
	EventKitchenStatusChanged EventType = "KITCHEN_STATUS_CHANGED"

	// frame khusus channel push, tidak pernah masuk event log
	EventConnected EventType = "connected"
	EventHeartbeat EventType = "heartbeat"
)

type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
	ID        string      `json:"id"`
}

func NewEvent(eventType EventType, data interface{}) Event {
	return Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		ID:        uuid.NewString(),
	}
}

// AffectsOrders reports whether a consumer should re-fetch the order lists.
func (e Event) AffectsOrders() bool {
	switch e.Type {
	case EventNewOrder, EventOrderStatusUpdated, EventOrderDeleted, EventOrdersCleared:
		return true
	}
	return false
}

// StatusChange payload ORDER_STATUS_UPDATED
type StatusChange struct {
	Order          Order  `json:"order"`
	OrderID        string `json:"orderId"`
	PreviousStatus Status `json:"previousStatus"`
	Status         Status `json:"status"`
}

// KitchenChange payload KITCHEN_STATUS_CHANGED
type KitchenChange struct {
	IsOpen         bool `json:"isOpen"`
	PreviousStatus bool `json:"previousStatus"`
}
