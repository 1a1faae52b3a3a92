package event

import "time"

const (
	// OrdersTopic carries every order lifecycle notification emitted by the POS.
	OrdersTopic = "pos.orders"

	// EventOrderPlaced identifies an order accepted by the webhook backend.
	EventOrderPlaced = "pos.order.placed"
	// EventOrderStatusChanged identifies a kitchen status transition the backend acknowledged.
	EventOrderStatusChanged = "pos.order.status_changed"
)

type OrderEventMetadata struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	OrderID    string    `json:"order_id"`
	Table      string    `json:"table,omitempty"`
}

type OrderLine struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Qty   int    `json:"qty"`
}

type OrderPlacedEvent struct {
	OrderEventMetadata
	Items         []OrderLine `json:"items"`
	Subtotal      int64       `json:"subtotal"`
	GST           int64       `json:"gst"`
	Total         int64       `json:"total"`
	PaymentMethod string      `json:"payment_method"`
}

type OrderStatusChangedEvent struct {
	OrderEventMetadata
	NewStatus      string `json:"new_status"`
	PreviousStatus string `json:"previous_status"`
}
