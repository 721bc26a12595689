package handler

import (
	"net/http"

	"storefront-be/internal/transport"
	"storefront-be/internal/user"
)

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagination(r)
	if err != nil {
		transport.WriteError(w, r, err)
		return
	}

	customers, total, err := h.Users.ListCustomers(r.Context(), user.ListFilter{
		Search: r.URL.Query().Get("searchTerm"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		transport.WriteError(w, r, err)
		return
	}
	transport.WritePage(w, customers, page, limit, total)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Orders.Summary(r.Context())
	if err != nil {
		transport.WriteError(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, summary)
}
