package pos

import (
	"context"
	"errors"
	"sync"

	"github.com/appetiteclub/pos/pkg/enums/orderstatus"
	"github.com/appetiteclub/pos/services/pos/internal/order"
)

// fakeKitchen is an in-memory backend that keeps the orders it serves.
type fakeKitchen struct {
	mu       sync.Mutex
	orders   []order.KitchenOrder
	accept   bool
	fetchErr error
}

func newFakeKitchen(orders ...order.KitchenOrder) *fakeKitchen {
	return &fakeKitchen{orders: orders, accept: true}
}

func (f *fakeKitchen) FetchOrders(_ context.Context) ([]order.KitchenOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]order.KitchenOrder, len(f.orders))
	copy(out, f.orders)
	return out, nil
}

func (f *fakeKitchen) UpdateOrderStatus(_ context.Context, orderID string, status orderstatus.Status) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.accept {
		return false
	}
	for i := range f.orders {
		if f.orders[i].OrderID == orderID {
			f.orders[i].Status = status
		}
	}
	return true
}

type MockOrderSubmitter struct {
	mu       sync.Mutex
	Fail     bool
	Received []order.Payload
}

func (m *MockOrderSubmitter) SubmitOrder(_ context.Context, p order.Payload) (order.Confirmation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Received = append(m.Received, p)
	if m.Fail {
		return order.Confirmation{}, errors.New("Failed to place order: backend unavailable")
	}
	totals := order.ComputeTotals(p.Items)
	return order.Confirmation{
		OrderID:       "ORD-1",
		Table:         p.Table,
		Items:         order.Summary(p.Items),
		Subtotal:      totals.Subtotal,
		GST:           totals.GST,
		Total:         totals.Total,
		PaymentMethod: p.PaymentMethod.Code(),
		Success:       true,
	}, nil
}

type MockPublisher struct {
	mu       sync.Mutex
	Messages map[string][][]byte
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Messages: make(map[string][][]byte)}
}

func (m *MockPublisher) Publish(_ context.Context, topic string, msg []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages[topic] = append(m.Messages[topic], msg)
	return nil
}

func (m *MockPublisher) Last(topic string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	msgs := m.Messages[topic]
	if len(msgs) == 0 {
		return nil
	}
	return msgs[len(msgs)-1]
}
