package board

import (
	"time"

	"github.com/appetiteclub/pos/pkg/enums/orderstatus"
	"github.com/appetiteclub/pos/services/pos/internal/normalize"
	"github.com/appetiteclub/pos/services/pos/internal/order"
)

// DefaultLateAfter flags orders waiting longer than this.
const DefaultLateAfter = 25 * time.Minute

var columns = []struct {
	status orderstatus.Status
	title  string
}{
	{status: orderstatus.Statuses.Pending, title: "New Orders"},
	{status: orderstatus.Statuses.Cooking, title: "In Kitchen"},
	{status: orderstatus.Statuses.Ready, title: "Ready to Serve"},
}

type Card struct {
	OrderID        string            `json:"order_id"`
	ShortID        string            `json:"short_id"`
	Table          string            `json:"table"`
	Items          []order.ItemCount `json:"items"`
	ItemsText      string            `json:"items_text"`
	Total          int64             `json:"total"`
	Status         string            `json:"status"`
	StatusLabel    string            `json:"status_label"`
	CreatedAt      time.Time         `json:"created_at"`
	ElapsedMinutes int               `json:"elapsed_minutes"`
	Late           bool              `json:"late"`
	Action         string            `json:"action,omitempty"`
	NextStatus     string            `json:"next_status,omitempty"`
	Updating       bool              `json:"updating"`
	Error          string            `json:"error,omitempty"`
}

type Column struct {
	Status string `json:"status"`
	Title  string `json:"title"`
	Cards  []Card `json:"cards"`
}

type View struct {
	Columns     []Column          `json:"columns"`
	Total       int               `json:"total"`
	LastUpdated *time.Time        `json:"last_updated,omitempty"`
	Error       string            `json:"error,omitempty"`
	Errors      map[string]string `json:"errors,omitempty"`
}

// Render derives the kitchen view. Elapsed time and lateness are computed
// against now on every call.
func Render(s State, now time.Time, lateAfter time.Duration) View {
	if lateAfter <= 0 {
		lateAfter = DefaultLateAfter
	}

	v := View{
		Columns: make([]Column, 0, len(columns)),
		Total:   len(s.Orders),
		Error:   s.LastError,
	}
	if !s.LastUpdated.IsZero() {
		at := s.LastUpdated
		v.LastUpdated = &at
	}
	if len(s.Errors) > 0 {
		v.Errors = make(map[string]string, len(s.Errors))
		for k, e := range s.Errors {
			v.Errors[k] = e
		}
	}

	for _, col := range columns {
		c := Column{Status: col.status.Code(), Title: col.title, Cards: make([]Card, 0)}
		for _, o := range s.Orders {
			if o.Status == col.status {
				c.Cards = append(c.Cards, NewCard(o, s, now, lateAfter))
			}
		}
		v.Columns = append(v.Columns, c)
	}
	return v
}

func NewCard(o order.KitchenOrder, s State, now time.Time, lateAfter time.Duration) Card {
	elapsed := now.Sub(o.CreatedAt)
	if elapsed < 0 {
		elapsed = 0
	}

	c := Card{
		OrderID:        o.OrderID,
		ShortID:        o.ShortID(),
		Table:          o.Table,
		Items:          normalize.Items(o.Items),
		ItemsText:      o.Items,
		Total:          o.Total,
		Status:         o.Status.Code(),
		StatusLabel:    o.Status.Label(),
		CreatedAt:      o.CreatedAt,
		ElapsedMinutes: int(elapsed / time.Minute),
		Late:           elapsed > lateAfter && o.Status != orderstatus.Statuses.Served,
		Action:         o.Status.Action(),
		Updating:       s.Updating(o.OrderID),
		Error:          s.Errors[o.OrderID],
	}
	if next, ok := o.Status.Next(); ok {
		c.NextStatus = next.Code()
	}
	return c
}
