package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/appetiteclub/pos/pkg/enums/orderstatus"
	"github.com/appetiteclub/pos/pkg/event"
	"github.com/appetiteclub/pos/pkg/logger"
	"github.com/appetiteclub/pos/services/pos/internal/order"
	"github.com/google/uuid"
)

const (
	updateFailedMessage = "Failed to update order status"
	fetchFailedMessage  = "Failed to fetch orders"
)

var (
	ErrInFlight          = errors.New("status update already in progress")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrOrderNotFound     = errors.New("order not found")
	ErrUpdateFailed      = errors.New("status update failed")
)

// Transport is the slice of the webhook client the board needs.
type Transport interface {
	FetchOrders(ctx context.Context) ([]order.KitchenOrder, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status orderstatus.Status) bool
}

// Board owns the kitchen board state. Network calls happen outside the
// lock; every state change goes through Reduce.
type Board struct {
	mu          sync.Mutex
	state       State
	subscribers map[string]chan State

	transport Transport
	publisher event.Publisher
	logger    logger.Logger
	now       func() time.Time
	fetchSeq  atomic.Uint64
}

type Option func(*Board)

func WithPublisher(p event.Publisher) Option {
	return func(b *Board) {
		b.publisher = p
	}
}

func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		if now != nil {
			b.now = now
		}
	}
}

func New(transport Transport, log logger.Logger, opts ...Option) *Board {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	b := &Board{
		state:       State{InFlight: map[string]orderstatus.Status{}, Errors: map[string]string{}},
		subscribers: make(map[string]chan State),
		transport:   transport,
		logger:      log.With("component", "board"),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State returns a copy of the current state.
func (b *Board) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.clone()
}

// Now is the board's clock.
func (b *Board) Now() time.Time {
	return b.now()
}

func (b *Board) apply(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.applyLocked(ev)
}

func (b *Board) applyLocked(ev Event) {
	b.state = Reduce(b.state, ev)
	b.broadcastLocked()
}

// Refresh fetches the board from the backend. Results from a fetch that
// started before an already applied one are discarded.
func (b *Board) Refresh(ctx context.Context) error {
	seq := b.fetchSeq.Add(1)

	orders, err := b.transport.FetchOrders(ctx)
	if err != nil {
		b.apply(FetchFailed{Seq: seq, Err: fetchFailedMessage})
		return err
	}

	b.apply(OrdersFetched{Seq: seq, Orders: orders, At: b.now()})
	return nil
}

// Advance moves the order to its next status.
func (b *Board) Advance(ctx context.Context, orderID string) (orderstatus.Status, error) {
	b.mu.Lock()
	current, ok := b.state.Find(orderID)
	b.mu.Unlock()
	if !ok {
		return orderstatus.Status{}, ErrOrderNotFound
	}

	next, ok := current.Status.Next()
	if !ok {
		return orderstatus.Status{}, fmt.Errorf("%w: %s has no next status", ErrInvalidTransition, current.Status.Code())
	}
	return next, b.Transition(ctx, orderID, next)
}

// Transition applies target optimistically, asks the backend, then either
// reconciles with a fresh fetch or restores the previous order. A second
// call for the same order while one is running returns ErrInFlight.
func (b *Board) Transition(ctx context.Context, orderID string, target orderstatus.Status) error {
	b.mu.Lock()
	if b.state.Updating(orderID) {
		b.mu.Unlock()
		b.logger.Debug("status update ignored, already in flight", "order_id", orderID)
		return ErrInFlight
	}
	previous, ok := b.state.Find(orderID)
	if !ok {
		b.mu.Unlock()
		return ErrOrderNotFound
	}
	if next, ok := previous.Status.Next(); !ok || next != target {
		b.mu.Unlock()
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, previous.Status.Code(), target.Code())
	}
	b.applyLocked(TransitionStarted{OrderID: orderID, Target: target})
	b.mu.Unlock()

	defer b.apply(TransitionSettled{OrderID: orderID})

	if !b.transport.UpdateOrderStatus(ctx, orderID, target) {
		b.apply(TransitionFailed{OrderID: orderID, Previous: previous, Err: updateFailedMessage})
		b.logger.Error("status update failed, reverted", "order_id", orderID, "status", target.Code())
		return fmt.Errorf("%w: %s", ErrUpdateFailed, orderID)
	}

	b.apply(TransitionSucceeded{OrderID: orderID})
	b.emitStatusChanged(ctx, previous, target)

	if err := b.Refresh(ctx); err != nil {
		b.logger.Error("cannot reconcile board after status update", "order_id", orderID, "error", err)
	}
	return nil
}

func (b *Board) emitStatusChanged(ctx context.Context, previous order.KitchenOrder, target orderstatus.Status) {
	if b.publisher == nil {
		return
	}
	evt := event.OrderStatusChangedEvent{
		OrderEventMetadata: event.OrderEventMetadata{
			EventID:    uuid.NewString(),
			EventType:  event.EventOrderStatusChanged,
			OccurredAt: b.now().UTC(),
			OrderID:    previous.OrderID,
			Table:      previous.Table,
		},
		NewStatus:      target.Code(),
		PreviousStatus: previous.Status.Code(),
	}
	if err := event.Emit(ctx, b.publisher, event.OrdersTopic, evt); err != nil {
		b.logger.Error("cannot publish status change", "order_id", previous.OrderID, "error", err)
	}
}

// Subscribe returns a channel receiving the state after every change.
// Slow readers only see the latest state.
func (b *Board) Subscribe(id string) <-chan State {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan State, 1)
	b.subscribers[id] = ch
	ch <- b.state.clone()
	return ch
}

func (b *Board) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		close(ch)
	}
}

func (b *Board) broadcastLocked() {
	for _, ch := range b.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- b.state.clone()
	}
}
