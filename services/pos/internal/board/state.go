package board

import (
	"time"

	"github.com/appetiteclub/pos/pkg/enums/orderstatus"
	"github.com/appetiteclub/pos/services/pos/internal/order"
)

// State is the board as last reconciled plus any optimistic changes.
// Values are treated as immutable; Reduce returns a new State.
type State struct {
	Orders      []order.KitchenOrder
	InFlight    map[string]orderstatus.Status
	Errors      map[string]string
	LastError   string
	LastUpdated time.Time
	Loaded      bool
	AppliedSeq  uint64
}

// Event is anything Reduce understands.
type Event interface {
	event()
}

// OrdersFetched carries a listing. Seq orders fetches by start time.
type OrdersFetched struct {
	Seq    uint64
	Orders []order.KitchenOrder
	At     time.Time
}

type FetchFailed struct {
	Seq uint64
	Err string
}

// TransitionStarted applies the optimistic status and marks the order busy.
type TransitionStarted struct {
	OrderID string
	Target  orderstatus.Status
}

// TransitionFailed restores the order as it was before TransitionStarted.
type TransitionFailed struct {
	OrderID  string
	Previous order.KitchenOrder
	Err      string
}

type TransitionSucceeded struct {
	OrderID string
}

// TransitionSettled clears the in-flight marker.
type TransitionSettled struct {
	OrderID string
}

func (OrdersFetched) event()       {}
func (FetchFailed) event()         {}
func (TransitionStarted) event()   {}
func (TransitionFailed) event()    {}
func (TransitionSucceeded) event() {}
func (TransitionSettled) event()   {}

// Reduce is the only way board state changes.
func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case OrdersFetched:
		if e.Seq < s.AppliedSeq {
			return s
		}
		next := s.clone()
		next.Orders = append([]order.KitchenOrder(nil), e.Orders...)
		next.AppliedSeq = e.Seq
		next.LastUpdated = e.At
		next.LastError = ""
		next.Loaded = true
		for id := range next.Errors {
			if next.index(id) < 0 {
				delete(next.Errors, id)
			}
		}
		return next

	case FetchFailed:
		if e.Seq < s.AppliedSeq {
			return s
		}
		next := s.clone()
		next.LastError = e.Err
		return next

	case TransitionStarted:
		i := s.index(e.OrderID)
		if i < 0 {
			return s
		}
		next := s.clone()
		next.Orders[i].Status = e.Target
		next.InFlight[e.OrderID] = e.Target
		delete(next.Errors, e.OrderID)
		return next

	case TransitionFailed:
		next := s.clone()
		if i := next.index(e.OrderID); i >= 0 {
			next.Orders[i] = e.Previous
		}
		next.Errors[e.OrderID] = e.Err
		return next

	case TransitionSucceeded:
		if _, ok := s.Errors[e.OrderID]; !ok {
			return s
		}
		next := s.clone()
		delete(next.Errors, e.OrderID)
		return next

	case TransitionSettled:
		if _, ok := s.InFlight[e.OrderID]; !ok {
			return s
		}
		next := s.clone()
		delete(next.InFlight, e.OrderID)
		return next
	}

	return s
}

// Find returns the order with id.
func (s State) Find(id string) (order.KitchenOrder, bool) {
	if i := s.index(id); i >= 0 {
		return s.Orders[i], true
	}
	return order.KitchenOrder{}, false
}

// Updating reports whether a transition for id is in flight.
func (s State) Updating(id string) bool {
	_, ok := s.InFlight[id]
	return ok
}

func (s State) index(id string) int {
	for i := range s.Orders {
		if s.Orders[i].OrderID == id {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	c := s
	c.Orders = append([]order.KitchenOrder(nil), s.Orders...)
	c.InFlight = make(map[string]orderstatus.Status, len(s.InFlight))
	for k, v := range s.InFlight {
		c.InFlight[k] = v
	}
	c.Errors = make(map[string]string, len(s.Errors))
	for k, v := range s.Errors {
		c.Errors[k] = v
	}
	return c
}
