package cart

import (
	"fmt"
	"sync"

	"github.com/appetiteclub/pos/pkg/enums/payment"
	"github.com/appetiteclub/pos/services/pos/internal/order"
)

// Store keeps one cart per table.
type Store struct {
	mu      sync.Mutex
	catalog Catalog
	carts   map[string]*Cart
}

func NewStore(catalog Catalog) *Store {
	return &Store{
		catalog: catalog,
		carts:   make(map[string]*Cart),
	}
}

func (s *Store) cartLocked(table string) *Cart {
	c, ok := s.carts[table]
	if !ok {
		c = New(s.catalog)
		s.carts[table] = c
	}
	return c
}

func (s *Store) Increment(table, itemID string) (Summary, error) {
	item, ok := s.catalog.Find(itemID)
	if !ok {
		return Summary{}, fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartLocked(table)
	if err := c.Increment(item); err != nil {
		return Summary{}, err
	}
	return c.Derive(), nil
}

func (s *Store) Decrement(table, itemID string) (Summary, error) {
	item, ok := s.catalog.Find(itemID)
	if !ok {
		return Summary{}, fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartLocked(table)
	c.Decrement(item)
	return c.Derive(), nil
}

func (s *Store) Summary(table string) Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartLocked(table).Derive()
}

func (s *Store) Reset(table string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, table)
}

// Checkout snapshots the table's cart. The entries identify exactly what
// was submitted so Settle can remove them afterwards.
func (s *Store) Checkout(table string, method payment.Method) (order.Payload, []Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartLocked(table)
	payload, err := c.Payload(table, method)
	if err != nil {
		return order.Payload{}, nil, err
	}
	return payload, c.Entries(), nil
}

// Settle removes submitted entries, keeping anything added since Checkout.
func (s *Store) Settle(table string, submitted []Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[table]
	if !ok {
		return
	}
	for _, e := range submitted {
		c.remove(e.ID, e.Qty)
	}
	if c.Len() == 0 {
		delete(s.carts, table)
	}
}
