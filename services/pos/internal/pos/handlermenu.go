package pos

import (
	"net/http"

	"github.com/appetiteclub/pos/pkg/enums/payment"
	"github.com/appetiteclub/pos/services/pos/internal/menu"
)

func (h *Handler) ListMenu(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	search := r.URL.Query().Get("q")

	items := h.catalog.Filter(category, search)
	Respond(w, http.StatusOK, items, map[string]any{"count": len(items)})
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	Respond(w, http.StatusOK, h.catalog.Categories(), nil)
}

type paymentMethodView struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	methods := make([]paymentMethodView, 0, len(payment.All))
	for _, m := range payment.All {
		methods = append(methods, paymentMethodView{Code: m.Code(), Label: m.Label()})
	}
	Respond(w, http.StatusOK, menu.Tables(), map[string]any{"payment_methods": methods})
}
