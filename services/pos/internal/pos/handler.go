package pos

import (
	"context"
	"net/http"
	"time"

	"github.com/appetiteclub/pos/pkg/enums/orderstatus"
	"github.com/appetiteclub/pos/pkg/event"
	"github.com/appetiteclub/pos/pkg/logger"
	"github.com/appetiteclub/pos/services/pos/internal/board"
	"github.com/appetiteclub/pos/services/pos/internal/cart"
	"github.com/appetiteclub/pos/services/pos/internal/menu"
	"github.com/appetiteclub/pos/services/pos/internal/order"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const MaxBodyBytes = 1 << 20

// OrderSubmitter places orders with the backend.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, p order.Payload) (order.Confirmation, error)
}

// KitchenBoard is the board surface the handlers use.
type KitchenBoard interface {
	State() board.State
	Now() time.Time
	Refresh(ctx context.Context) error
	Advance(ctx context.Context, orderID string) (orderstatus.Status, error)
	Transition(ctx context.Context, orderID string, target orderstatus.Status) error
	Subscribe(id string) <-chan board.State
	Unsubscribe(id string)
}

type HandlerDeps struct {
	Catalog   *menu.Catalog
	Carts     *cart.Store
	Orders    OrderSubmitter
	Board     KitchenBoard
	Publisher event.Publisher
}

type HandlerOptions struct {
	LateAfter    time.Duration
	SSEKeepalive time.Duration
}

type Handler struct {
	catalog   *menu.Catalog
	carts     *cart.Store
	orders    OrderSubmitter
	board     KitchenBoard
	publisher event.Publisher
	opts      HandlerOptions
	logger    logger.Logger
}

func NewHandler(deps HandlerDeps, opts HandlerOptions, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	if deps.Catalog == nil {
		deps.Catalog = menu.Default()
	}
	if deps.Carts == nil {
		deps.Carts = cart.NewStore(deps.Catalog)
	}
	if opts.LateAfter <= 0 {
		opts.LateAfter = board.DefaultLateAfter
	}
	if opts.SSEKeepalive <= 0 {
		opts.SSEKeepalive = 30 * time.Second
	}
	return &Handler{
		catalog:   deps.Catalog,
		carts:     deps.Carts,
		orders:    deps.Orders,
		board:     deps.Board,
		publisher: deps.Publisher,
		opts:      opts,
		logger:    log,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/menu", h.ListMenu)
		r.Get("/menu/categories", h.ListCategories)
		r.Get("/tables", h.ListTables)

		r.Route("/tables/{table}", func(r chi.Router) {
			r.Get("/cart", h.GetCart)
			r.Delete("/cart", h.ResetCart)
			r.Post("/cart/{itemID}/increment", h.IncrementItem)
			r.Post("/cart/{itemID}/decrement", h.DecrementItem)
			r.Post("/orders", h.PlaceOrder)
		})

		r.Route("/kitchen", func(r chi.Router) {
			r.Get("/orders", h.ListKitchenOrders)
			r.Get("/board", h.GetBoard)
			r.Post("/refresh", h.RefreshBoard)
			r.Post("/orders/{id}/advance", h.AdvanceOrder)
			r.Patch("/orders/{id}/status", h.UpdateOrderStatus)
			r.Get("/stream", h.Stream)
		})
	})
}

func (h *Handler) log(r *http.Request) logger.Logger {
	return h.logger.With("request_id", middleware.GetReqID(r.Context()))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	Respond(w, http.StatusOK, map[string]string{"status": "ok"}, nil)
}
