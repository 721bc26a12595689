package handler

import (
	"net/http"

	"storefront-be/internal/order"
	"storefront-be/internal/transport"
	"storefront-be/internal/utils"
)

// createOrder accepts guests; an authenticated caller is recorded as the
// order's user. The caller's cart is left as is.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var in order.CreateInput
	if err := transport.DecodeJSON(r, &in); err != nil {
		transport.WriteError(w, r, err)
		return
	}

	o, err := h.Orders.Create(r.Context(), in, utils.UserIDPtrFromContext(r.Context()))
	if err != nil {
		transport.WriteError(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusCreated, o)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pagination(r)
	if err != nil {
		transport.WriteError(w, r, err)
		return
	}

	q := r.URL.Query()
	orders, total, err := h.Orders.List(r.Context(), order.ListFilter{
		Search: q.Get("searchTerm"),
		Status: order.Status(q.Get("status")),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		transport.WriteError(w, r, err)
		return
	}
	transport.WritePage(w, orders, page, limit, total)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.Orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		transport.WriteError(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var in order.UpdateStatusInput
	if err := transport.DecodeJSON(r, &in); err != nil {
		transport.WriteError(w, r, err)
		return
	}

	o, err := h.Orders.UpdateStatus(r.Context(), r.PathValue("id"), in)
	if err != nil {
		transport.WriteError(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, o)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.Orders.Delete(r.Context(), r.PathValue("id")); err != nil {
		transport.WriteError(w, r, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, nil)
}
