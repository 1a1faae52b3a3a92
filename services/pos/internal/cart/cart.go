package cart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/appetiteclub/pos/pkg/enums/payment"
	"github.com/appetiteclub/pos/services/pos/internal/menu"
	"github.com/appetiteclub/pos/services/pos/internal/order"
)

var (
	ErrUnknownItem   = errors.New("item is not on the menu")
	ErrEmptyCart     = errors.New("cart is empty")
	ErrTableRequired = errors.New("table is required")
)

// Catalog resolves menu item ids.
type Catalog interface {
	Find(id string) (menu.Item, bool)
}

// Entry is a single id/quantity pair.
type Entry struct {
	ID  string `json:"id"`
	Qty int    `json:"qty"`
}

// Summary is the derived view of a cart.
type Summary struct {
	TotalItems int              `json:"total_items"`
	TotalPrice int64            `json:"total_price"`
	LineItems  []order.LineItem `json:"line_items"`
}

// Cart maps item ids to positive quantities. Keys keep insertion order;
// an entry removed and added again moves to the end.
type Cart struct {
	catalog Catalog
	qty     map[string]int
	keys    []string
}

func New(catalog Catalog) *Cart {
	return &Cart{
		catalog: catalog,
		qty:     make(map[string]int),
	}
}

// Increment adds one unit of item. Items missing from the catalog are rejected.
func (c *Cart) Increment(item menu.Item) error {
	if _, ok := c.catalog.Find(item.ID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, item.ID)
	}
	c.add(item.ID, 1)
	return nil
}

// Decrement removes one unit of item; the entry disappears at zero.
// Absent entries are left alone.
func (c *Cart) Decrement(item menu.Item) {
	c.remove(item.ID, 1)
}

func (c *Cart) add(id string, n int) {
	if _, ok := c.qty[id]; !ok {
		c.keys = append(c.keys, id)
	}
	c.qty[id] += n
}

func (c *Cart) remove(id string, n int) {
	current, ok := c.qty[id]
	if !ok || n <= 0 {
		return
	}
	if current > n {
		c.qty[id] = current - n
		return
	}
	delete(c.qty, id)
	for i, key := range c.keys {
		if key == id {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
}

func (c *Cart) Quantity(id string) int {
	return c.qty[id]
}

// Len is the number of distinct entries.
func (c *Cart) Len() int {
	return len(c.keys)
}

func (c *Cart) Reset() {
	c.qty = make(map[string]int)
	c.keys = nil
}

// Entries returns the raw entries in key order.
func (c *Cart) Entries() []Entry {
	out := make([]Entry, 0, len(c.keys))
	for _, id := range c.keys {
		out = append(out, Entry{ID: id, Qty: c.qty[id]})
	}
	return out
}

// Derive folds the entries against the catalog, skipping ids it no longer has.
func (c *Cart) Derive() Summary {
	s := Summary{LineItems: make([]order.LineItem, 0, len(c.keys))}
	for _, id := range c.keys {
		item, ok := c.catalog.Find(id)
		if !ok {
			continue
		}
		qty := c.qty[id]
		s.TotalItems += qty
		s.TotalPrice += item.Price * int64(qty)
		s.LineItems = append(s.LineItems, order.LineItem{Name: item.Name, Price: item.Price, Qty: qty})
	}
	return s
}

// Payload snapshots the cart for submission.
func (c *Cart) Payload(table string, method payment.Method) (order.Payload, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return order.Payload{}, ErrTableRequired
	}
	summary := c.Derive()
	if len(summary.LineItems) == 0 {
		return order.Payload{}, ErrEmptyCart
	}
	return order.Payload{
		Table:         table,
		Items:         summary.LineItems,
		PaymentMethod: method,
	}, nil
}
