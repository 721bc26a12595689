package router

import (
	"net/http"
	"slices"
)

type Middleware func(http.Handler) http.Handler

// Router registers method-qualified ServeMux patterns and applies group and
// route middleware to each handler. Groups share the underlying mux.
type Router struct {
	mux   *http.ServeMux
	chain []Middleware
}

func New(middleware ...Middleware) *Router {
	return &Router{
		mux:   http.NewServeMux(),
		chain: middleware,
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) Get(pattern string, h http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodGet, pattern, h, middleware...)
}

func (r *Router) Post(pattern string, h http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodPost, pattern, h, middleware...)
}

func (r *Router) Patch(pattern string, h http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodPatch, pattern, h, middleware...)
}

func (r *Router) Delete(pattern string, h http.HandlerFunc, middleware ...Middleware) {
	r.Handle(http.MethodDelete, pattern, h, middleware...)
}

func (r *Router) Handle(method, pattern string, h http.Handler, middleware ...Middleware) {
	r.mux.Handle(method+" "+pattern, r.wrap(h, middleware))
}

// Group returns a router on the same mux with extra middleware.
func (r *Router) Group(middleware ...Middleware) *Router {
	return &Router{
		mux:   r.mux,
		chain: append(slices.Clone(r.chain), middleware...),
	}
}

// wrap applies middleware so the first listed runs first.
func (r *Router) wrap(h http.Handler, middleware []Middleware) http.Handler {
	combined := append(slices.Clone(r.chain), middleware...)
	for i := len(combined) - 1; i >= 0; i-- {
		h = combined[i](h)
	}
	return h
}
