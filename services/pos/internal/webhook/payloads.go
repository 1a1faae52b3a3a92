package webhook

import (
	"bytes"
	"encoding/json"

	"github.com/appetiteclub/pos/services/pos/internal/normalize"
)

type placeOrderItem struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Qty   int    `json:"qty"`
	Total int64  `json:"total"`
}

type placeOrderRequest struct {
	Table         string           `json:"table"`
	Items         []placeOrderItem `json:"items"`
	Subtotal      int64            `json:"subtotal"`
	GST           int64            `json:"gst"`
	Total         int64            `json:"total"`
	PaymentMethod string           `json:"paymentMethod"`
	Timestamp     string           `json:"timestamp"`
}

type updateStatusRequest struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// ack is the tolerant reading of a submit or update reply.
type ack struct {
	Success  bool
	OrderID  string
	Total    int64
	HasTotal bool
	Message  string
	Parsed   bool
}

// parseAck never fails: unreadable bodies count as success.
// A list reply uses its first object.
func parseAck(body []byte) ack {
	a := ack{Success: true}

	dec := json.NewDecoder(bytes.NewReader(bytes.TrimSpace(body)))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return a
	}

	if list, ok := doc.([]any); ok && len(list) > 0 {
		doc = list[0]
	}
	m, ok := doc.(map[string]any)
	if !ok {
		return a
	}
	a.Parsed = true

	if v, ok := m["success"].(bool); ok && !v {
		a.Success = false
	}
	for _, key := range []string{"order_id", "orderId"} {
		if id, ok := normalize.Text(m[key]); ok && id != "" {
			a.OrderID = id
			break
		}
	}
	if total, ok := normalize.Amount(m["total"]); ok {
		a.Total = total
		a.HasTotal = true
	}
	a.Message, _ = normalize.Text(m["message"])
	return a
}
