package middleware

import "net/http"

type Middleware func(http.HandlerFunc) http.HandlerFunc

//Chain middlewares, the first one listed sees the request first
func Chain(h http.HandlerFunc, mws ...Middleware) http.HandlerFunc {
	if len(mws) == 0 {
		return h
	}
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}

	return h
}

//A handler for which requests go through middleware components before they
//reach the wrapped handler. The chain is materialized once at construction
//so serving a request does not rebuild it.
type middlewarePrefixedHandler struct {
	serveHTTP func(w http.ResponseWriter, r *http.Request)
}

func (h *middlewarePrefixedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.serveHTTP(w, r)
}

func NewMiddlewarePrefixedHandler(h http.Handler, prefixMws ...Middleware) *middlewarePrefixedHandler {
	return &middlewarePrefixedHandler{
		serveHTTP: Chain(h.ServeHTTP, prefixMws...),
	}
}
