package pos

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/appetiteclub/pos/pkg/enums/orderstatus"
	"github.com/appetiteclub/pos/services/pos/internal/board"
	"github.com/go-chi/chi/v5"
)

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) kitchenAvailable(w http.ResponseWriter) bool {
	if h.board == nil {
		RespondError(w, http.StatusServiceUnavailable, "Kitchen board is not available")
		return false
	}
	return true
}

// loadedState fetches once if the board has never been loaded.
func (h *Handler) loadedState(r *http.Request) board.State {
	s := h.board.State()
	if !s.Loaded {
		if err := h.board.Refresh(r.Context()); err != nil {
			h.log(r).Debug("initial board fetch failed", "error", err)
		}
		s = h.board.State()
	}
	return s
}

func (h *Handler) ListKitchenOrders(w http.ResponseWriter, r *http.Request) {
	if !h.kitchenAvailable(w) {
		return
	}
	s := h.loadedState(r)
	meta := map[string]any{"count": len(s.Orders)}
	if !s.LastUpdated.IsZero() {
		meta["last_updated"] = s.LastUpdated
	}
	if s.LastError != "" {
		meta["error"] = s.LastError
	}
	Respond(w, http.StatusOK, s.Orders, meta)
}

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	if !h.kitchenAvailable(w) {
		return
	}
	s := h.loadedState(r)
	Respond(w, http.StatusOK, board.Render(s, h.board.Now(), h.opts.LateAfter), nil)
}

func (h *Handler) RefreshBoard(w http.ResponseWriter, r *http.Request) {
	if !h.kitchenAvailable(w) {
		return
	}
	if err := h.board.Refresh(r.Context()); err != nil {
		h.log(r).Errorf("manual refresh failed: %v", err)
		RespondError(w, http.StatusBadGateway, "Failed to fetch orders")
		return
	}
	Respond(w, http.StatusOK, board.Render(h.board.State(), h.board.Now(), h.opts.LateAfter), nil)
}

func (h *Handler) AdvanceOrder(w http.ResponseWriter, r *http.Request) {
	if !h.kitchenAvailable(w) {
		return
	}
	id := chi.URLParam(r, "id")

	_, err := h.board.Advance(context.WithoutCancel(r.Context()), id)
	h.respondTransition(w, r, id, err)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	if !h.kitchenAvailable(w) {
		return
	}
	id := chi.URLParam(r, "id")

	var req statusRequest
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	target := orderstatus.ByName(req.Status)
	if target == nil {
		RespondError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	err := h.board.Transition(context.WithoutCancel(r.Context()), id, *target)
	h.respondTransition(w, r, id, err)
}

func (h *Handler) respondTransition(w http.ResponseWriter, r *http.Request, id string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, board.ErrOrderNotFound):
		RespondError(w, http.StatusNotFound, "Order not found")
		return
	case errors.Is(err, board.ErrInFlight):
		RespondError(w, http.StatusConflict, "Status update already in progress")
		return
	case errors.Is(err, board.ErrInvalidTransition):
		RespondError(w, http.StatusUnprocessableEntity, "Invalid status transition")
		return
	default:
		h.log(r).Error("status transition failed", "order_id", id, "error", err)
		RespondError(w, http.StatusBadGateway, "Failed to update order status")
		return
	}

	s := h.board.State()
	o, ok := s.Find(id)
	if !ok {
		Respond(w, http.StatusOK, nil, map[string]any{"order_id": id})
		return
	}
	Respond(w, http.StatusOK, board.NewCard(o, s, h.board.Now(), h.opts.LateAfter), nil)
}
