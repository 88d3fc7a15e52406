package testing

import (
	"net/http"
	"strings"
)

// Middleware wraps an [http.Handler] with additional behavior.
type Middleware func(http.Handler) http.Handler

// Router is a method-aware [http.ServeMux] with a middleware stack.
//
// Each path serves exactly one method; other methods get 405.
type Router struct {
	mux         *http.ServeMux
	middlewares []Middleware
}

// NewRouter creates an empty [Router].
func NewRouter() *Router {
	return &Router{mux: http.NewServeMux(), middlewares: []Middleware{}}
}

// Use adds middleware, applied in the order added.
func (r *Router) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers handler for method on path.
func (r *Router) Handle(method, path string, handler http.Handler) {
	r.mux.Handle(path, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !strings.EqualFold(req.Method, method) {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, req)
	}))
}

// HandleFunc is [Router.Handle] for a function.
func (r *Router) HandleFunc(method, path string, fn http.HandlerFunc) {
	r.Handle(method, path, fn)
}

// ServeHTTP runs the middleware stack, then dispatches.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.apply(r.mux).ServeHTTP(w, req)
}

// apply wraps handler so the first middleware added runs first.
func (r *Router) apply(handler http.Handler) http.Handler {
	wrapped := handler
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}
	return wrapped
}
