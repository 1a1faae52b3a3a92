package order

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/appetiteclub/pos/pkg/enums/orderstatus"
	"github.com/appetiteclub/pos/pkg/enums/payment"
	"github.com/shopspring/decimal"
)

var gstRate = decimal.RequireFromString("0.18")

// LineItem is the snapshot of a cart entry taken when an order is placed.
type LineItem struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Qty   int    `json:"qty"`
}

func (l LineItem) Total() int64 {
	return l.Price * int64(l.Qty)
}

// Payload is what the customer side submits.
type Payload struct {
	Table         string
	Items         []LineItem
	PaymentMethod payment.Method
}

type Totals struct {
	Subtotal int64 `json:"subtotal"`
	GST      int64 `json:"gst"`
	Total    int64 `json:"total"`
}

// GST is 18% of subtotal rounded half away from zero.
func GST(subtotal int64) int64 {
	return decimal.NewFromInt(subtotal).Mul(gstRate).Round(0).IntPart()
}

func ComputeTotals(items []LineItem) Totals {
	var subtotal int64
	for _, item := range items {
		subtotal += item.Total()
	}
	gst := GST(subtotal)
	return Totals{Subtotal: subtotal, GST: gst, Total: subtotal + gst}
}

// Summary renders items in the backend display form "Name xN, Name xN".
func Summary(items []LineItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%s x%d", item.Name, item.Qty))
	}
	return strings.Join(parts, ", ")
}

// Confirmation is returned to the customer after a successful submission.
type Confirmation struct {
	OrderID       string `json:"order_id"`
	Table         string `json:"table"`
	Items         string `json:"items"`
	Subtotal      int64  `json:"subtotal"`
	GST           int64  `json:"gst"`
	Total         int64  `json:"total"`
	PaymentMethod string `json:"payment_method"`
	Success       bool   `json:"success"`
}

// ItemCount is one decomposed entry of a backend item string.
type ItemCount struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// KitchenOrder is the canonical board entity. The backend owns it.
type KitchenOrder struct {
	OrderID   string
	Table     string
	Items     string
	Total     int64
	Status    orderstatus.Status
	CreatedAt time.Time
}

// ShortID is the trailing five characters shown on kitchen cards.
func (o KitchenOrder) ShortID() string {
	r := []rune(o.OrderID)
	if len(r) <= 5 {
		return o.OrderID
	}
	return string(r[len(r)-5:])
}

// Raw renders the order in its canonical wire form.
func (o KitchenOrder) Raw() map[string]any {
	return map[string]any{
		"order_id":   o.OrderID,
		"table":      o.Table,
		"items":      o.Items,
		"total":      o.Total,
		"status":     o.Status.Code(),
		"created_at": o.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (o KitchenOrder) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Raw())
}
