package handler

import (
	"context"
	"net/http"

	"storefront-be/internal/apperr"
	"storefront-be/internal/cart"
	"storefront-be/internal/category"
	"storefront-be/internal/checkout"
	"storefront-be/internal/middleware"
	"storefront-be/internal/order"
	"storefront-be/internal/product"
	"storefront-be/internal/router"
	"storefront-be/internal/transport"
	"storefront-be/internal/user"
	"storefront-be/internal/utils"
)

// Pinger reports database health. *sql.DB implements it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves the REST API.
type Handler struct {
	Carts      cart.Service
	Checkout   checkout.Service
	Orders     order.Service
	Products   product.Service
	Categories category.Service
	Users      user.Service
	DB         Pinger
}

// Register mounts every route on r.
func (h *Handler) Register(r *router.Router) {
	r.Get("/health", h.health)

	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)

	users := r.Group(middleware.RequireUser)
	users.Get("/cart", h.getCart)
	users.Post("/cart", h.addCartItem)
	users.Patch("/cart", h.updateCartQuantity)
	users.Delete("/cart", h.removeCartItem)
	users.Post("/checkout", h.checkout)

	r.Post("/orders", h.createOrder)
	r.Get("/orders/{id}", h.getOrder)
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	r.Get("/categories", h.listCategories)

	admin := r.Group(middleware.RequireAdmin)
	admin.Get("/orders", h.listOrders)
	admin.Patch("/orders/{id}", h.updateOrderStatus)
	admin.Delete("/orders/{id}", h.deleteOrder)
	admin.Post("/products", h.createProduct)
	admin.Patch("/products/{id}", h.updateProduct)
	admin.Delete("/products/{id}", h.deleteProduct)
	admin.Post("/categories", h.createCategory)
	admin.Delete("/categories/{id}", h.deleteCategory)
	admin.Get("/admin/customers", h.listCustomers)
	admin.Get("/admin/stats", h.stats)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if h.DB != nil {
		if err := h.DB.PingContext(r.Context()); err != nil {
			transport.WriteError(w, r, apperr.Internal(err, "health", "database unavailable"))
			return
		}
	}
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ownerID is only called behind RequireUser.
func ownerID(r *http.Request) uint {
	id, _ := utils.GetUserIDFromContext(r.Context())
	return id
}

// pagination reads page and limit, clamped the same way the repositories do.
func pagination(r *http.Request) (int, int, error) {
	page, err := transport.QueryInt(r, "page", utils.DefaultPage)
	if err != nil {
		return 0, 0, err
	}
	limit, err := transport.QueryInt(r, "limit", utils.DefaultLimit)
	if err != nil {
		return 0, 0, err
	}
	page, limit = utils.NormalizePage(page, limit)
	return page, limit, nil
}
