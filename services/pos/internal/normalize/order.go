package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/appetiteclub/pos/pkg/enums/orderstatus"
	"github.com/appetiteclub/pos/services/pos/internal/order"
)

// DefaultTable is used when a record carries no table.
const DefaultTable = "N/A"

var (
	orderIDKeys   = []string{"order_id", "orderId"}
	createdAtKeys = []string{"created_at", "timestamp"}
)

// Order maps a loosely shaped backend record onto the canonical order.
// It never fails; the bool is false when any default or fallback was used.
func Order(raw map[string]any, now time.Time, loc *time.Location) (order.KitchenOrder, bool) {
	complete := true
	o := order.KitchenOrder{}

	if v, ok := lookup(raw, orderIDKeys...); ok {
		o.OrderID, _ = Text(v)
	}
	if o.OrderID == "" {
		complete = false
	}

	if v, ok := lookup(raw, "table"); ok {
		o.Table, _ = Text(v)
	}
	if o.Table == "" {
		o.Table = DefaultTable
		complete = false
	}

	if v, ok := lookup(raw, "items"); ok {
		o.Items = itemsText(v)
	} else {
		complete = false
	}

	total, ok := Amount(raw["total"])
	o.Total = total
	if !ok {
		complete = false
	}

	o.Status = orderstatus.Statuses.Pending
	var status string
	if v, ok := lookup(raw, "status"); ok {
		status, _ = Text(v)
	}
	if status != "" {
		o.Status = orderstatus.Parse(status)
	} else {
		complete = false
	}

	var created any
	if v, ok := lookup(raw, createdAtKeys...); ok {
		created = v
	}
	var parsed bool
	o.CreatedAt, parsed = Time(created, now, loc)
	if !parsed {
		complete = false
	}

	return o, complete
}

// lookup returns the first non-nil value among keys.
func lookup(raw map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Text renders strings and numbers as trimmed text.
func Text(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return "", false
	}
}

// Amount reads a number or numeric string rounded to a whole currency unit.
func Amount(v any) (int64, bool) {
	var f float64
	switch t := v.(type) {
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = t
	case int:
		return int64(t), true
	case int64:
		return t, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Round(f)
	// float64(math.MaxInt64) is 2^63, itself out of range.
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// itemsText accepts the display string or a list of names or
// {name, qty|quantity} objects and returns the display string.
func itemsText(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, el := range t {
			switch e := el.(type) {
			case map[string]any:
				name, _ := Text(e["name"])
				if name == "" {
					continue
				}
				qty := int64(1)
				if q, ok := lookup(e, "qty", "quantity"); ok {
					if n, ok := Amount(q); ok && n > 0 {
						qty = n
					}
				}
				parts = append(parts, fmt.Sprintf("%s x%d", name, qty))
			default:
				if s, ok := Text(e); ok && s != "" {
					parts = append(parts, s)
				}
			}
		}
		return strings.Join(parts, ", ")
	default:
		s, _ := Text(v)
		return s
	}
}
