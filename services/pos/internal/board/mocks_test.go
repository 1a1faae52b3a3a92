package board

import (
	"context"
	"sync"

	"github.com/appetiteclub/pos/pkg/enums/orderstatus"
	"github.com/appetiteclub/pos/services/pos/internal/order"
)

type MockTransport struct {
	mu sync.Mutex

	FetchOrdersFunc       func(ctx context.Context) ([]order.KitchenOrder, error)
	UpdateOrderStatusFunc func(ctx context.Context, orderID string, status orderstatus.Status) bool

	fetchCalls  int
	updateCalls map[string]int
}

func NewMockTransport() *MockTransport {
	return &MockTransport{updateCalls: make(map[string]int)}
}

func (m *MockTransport) FetchOrders(ctx context.Context) ([]order.KitchenOrder, error) {
	m.mu.Lock()
	m.fetchCalls++
	fn := m.FetchOrdersFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return nil, nil
}

func (m *MockTransport) UpdateOrderStatus(ctx context.Context, orderID string, status orderstatus.Status) bool {
	m.mu.Lock()
	m.updateCalls[orderID]++
	fn := m.UpdateOrderStatusFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, orderID, status)
	}
	return true
}

func (m *MockTransport) FetchCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCalls
}

func (m *MockTransport) UpdateCalls(orderID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateCalls[orderID]
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

func (m *MockPublisher) Count(topic string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Messages[topic])
}
