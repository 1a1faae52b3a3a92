package pos

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/appetiteclub/pos/pkg/enums/payment"
	"github.com/appetiteclub/pos/pkg/event"
	"github.com/appetiteclub/pos/services/pos/internal/cart"
	"github.com/appetiteclub/pos/services/pos/internal/menu"
	"github.com/appetiteclub/pos/services/pos/internal/order"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type placeOrderRequest struct {
	PaymentMethod string `json:"payment_method"`
}

func (h *Handler) table(w http.ResponseWriter, r *http.Request) (string, bool) {
	table := chi.URLParam(r, "table")
	if !menu.IsTable(table) {
		RespondError(w, http.StatusNotFound, "Unknown table")
		return "", false
	}
	return table, true
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	table, ok := h.table(w, r)
	if !ok {
		return
	}
	Respond(w, http.StatusOK, h.carts.Summary(table), nil)
}

func (h *Handler) ResetCart(w http.ResponseWriter, r *http.Request) {
	table, ok := h.table(w, r)
	if !ok {
		return
	}
	h.carts.Reset(table)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	h.changeItem(w, r, h.carts.Increment)
}

func (h *Handler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	h.changeItem(w, r, h.carts.Decrement)
}

func (h *Handler) changeItem(w http.ResponseWriter, r *http.Request, change func(table, itemID string) (cart.Summary, error)) {
	table, ok := h.table(w, r)
	if !ok {
		return
	}

	summary, err := change(table, chi.URLParam(r, "itemID"))
	if err != nil {
		if errors.Is(err, cart.ErrUnknownItem) {
			RespondError(w, http.StatusNotFound, "Item not found")
			return
		}
		h.log(r).Errorf("cannot update cart: %v", err)
		RespondError(w, http.StatusInternalServerError, "Could not update cart")
		return
	}
	Respond(w, http.StatusOK, summary, nil)
}

// PlaceOrder submits the table's cart. The cart is left untouched when
// the backend fails so the customer can retry.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	log := h.log(r)
	table, ok := h.table(w, r)
	if !ok {
		return
	}
	if h.orders == nil {
		RespondError(w, http.StatusServiceUnavailable, "Ordering is not available")
		return
	}

	var req placeOrderRequest
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	method := payment.Default
	if req.PaymentMethod != "" {
		m := payment.ByName(req.PaymentMethod)
		if m == nil {
			RespondError(w, http.StatusBadRequest, "Invalid payment method")
			return
		}
		method = *m
	}

	payload, submitted, err := h.carts.Checkout(table, method)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrEmptyCart):
			RespondError(w, http.StatusUnprocessableEntity, "Cart is empty")
		case errors.Is(err, cart.ErrTableRequired):
			RespondError(w, http.StatusBadRequest, "Please select a table")
		default:
			RespondError(w, http.StatusInternalServerError, "Could not read cart")
		}
		return
	}

	ctx := context.WithoutCancel(r.Context())
	conf, err := h.orders.SubmitOrder(ctx, payload)
	if err != nil {
		log.Error("order submission failed", "table", table, "error", err)
		RespondError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.carts.Settle(table, submitted)
	h.emitOrderPlaced(ctx, conf, payload)

	Respond(w, http.StatusCreated, conf, nil)
}

func (h *Handler) emitOrderPlaced(ctx context.Context, conf order.Confirmation, p order.Payload) {
	if h.publisher == nil {
		return
	}
	lines := make([]event.OrderLine, 0, len(p.Items))
	for _, item := range p.Items {
		lines = append(lines, event.OrderLine{Name: item.Name, Price: item.Price, Qty: item.Qty})
	}
	evt := event.OrderPlacedEvent{
		OrderEventMetadata: event.OrderEventMetadata{
			EventID:    uuid.NewString(),
			EventType:  event.EventOrderPlaced,
			OccurredAt: time.Now().UTC(),
			OrderID:    conf.OrderID,
			Table:      conf.Table,
		},
		Items:         lines,
		Subtotal:      conf.Subtotal,
		GST:           conf.GST,
		Total:         conf.Total,
		PaymentMethod: conf.PaymentMethod,
	}
	if err := event.Emit(ctx, h.publisher, event.OrdersTopic, evt); err != nil {
		h.logger.Error("cannot publish order placed", "order_id", conf.OrderID, "error", err)
	}
}
