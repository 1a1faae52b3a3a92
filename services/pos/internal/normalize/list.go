package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/appetiteclub/pos/services/pos/internal/order"
)

var (
	// ErrUnrecognizedShape is returned for JSON that is neither a list,
	// an {orders: [...]} envelope, nor a single order object.
	ErrUnrecognizedShape = errors.New("unrecognized order list shape")
	// ErrRejected is returned when the listing carries success:false.
	ErrRejected = errors.New("order listing rejected")
)

// List is the outcome of normalizing an order listing.
type List struct {
	Orders  []order.KitchenOrder
	Dropped int
	Partial int
}

// Normalizer binds the clock and zone used for fallbacks and zoneless dates.
type Normalizer struct {
	Now      func() time.Time
	Location *time.Location
}

func New(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{Now: time.Now, Location: loc}
}

func (n *Normalizer) now() time.Time {
	if n.Now == nil {
		return time.Now()
	}
	return n.Now()
}

func (n *Normalizer) Order(raw map[string]any) (order.KitchenOrder, bool) {
	return Order(raw, n.now(), n.Location)
}

// List decodes and normalizes an order listing body. Orders without an id
// are dropped and the rest are sorted newest first. An empty body is an
// empty listing; a lone object that yields no order is an error.
func (n *Normalizer) List(body []byte) (List, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return List{Orders: []order.KitchenOrder{}}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return List{}, fmt.Errorf("decode order list: %w", err)
	}

	elements, single, err := elementsOf(doc)
	if err != nil {
		return List{}, err
	}

	now := n.now()
	out := List{Orders: make([]order.KitchenOrder, 0, len(elements))}
	for _, el := range elements {
		raw, ok := el.(map[string]any)
		if !ok {
			out.Dropped++
			continue
		}
		o, complete := Order(raw, now, n.Location)
		if o.OrderID == "" {
			out.Dropped++
			continue
		}
		if !complete {
			out.Partial++
		}
		out.Orders = append(out.Orders, o)
	}

	if single && len(out.Orders) == 0 {
		obj, _ := doc.(map[string]any)
		return List{}, fmt.Errorf("%w: object without order id (%s)", ErrUnrecognizedShape, messageOf(obj))
	}

	sort.SliceStable(out.Orders, func(i, j int) bool {
		return out.Orders[i].CreatedAt.After(out.Orders[j].CreatedAt)
	})
	return out, nil
}

// elementsOf reports single when doc is a bare object read as one order.
func elementsOf(doc any) (elements []any, single bool, err error) {
	switch v := doc.(type) {
	case nil:
		return nil, false, nil
	case []any:
		return v, false, nil
	case map[string]any:
		if ok, isBool := v["success"].(bool); isBool && !ok {
			return nil, false, fmt.Errorf("%w: %s", ErrRejected, messageOf(v))
		}
		if orders, ok := v["orders"]; ok {
			switch list := orders.(type) {
			case []any:
				return list, false, nil
			case nil:
				return nil, false, nil
			}
		}
		return []any{v}, true, nil
	default:
		return nil, false, fmt.Errorf("%w: %T", ErrUnrecognizedShape, doc)
	}
}

func messageOf(obj map[string]any) string {
	for _, key := range []string{"message", "error"} {
		if s, ok := Text(obj[key]); ok && s != "" {
			return s
		}
	}
	return "no message"
}
