package web

import (
	"net/http"
	"strings"
)

// Routes builds the route table. Paths end in {$} so /new/ and /{id}/ match
// exactly; any other method on a known path gets 405 from the mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	h.handle(mux, "GET /{$}", h.List)
	h.handle(mux, "GET /new/{$}", h.New)
	h.handle(mux, "POST /new/{$}", h.Create)
	h.handle(mux, "GET /{id}/{$}", h.Detail)
	h.handle(mux, "GET /{id}/update/{$}", h.Edit)
	h.handle(mux, "POST /{id}/update/{$}", h.Update)
	h.handle(mux, "POST /{id}/delete/{$}", h.Delete)

	mux.HandleFunc("GET /healthz", h.Healthz)
	return mux
}

// handle registers a page route. The CSRF check runs after routing so an
// unsupported method is still answered with 405.
func (h *Handler) handle(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	var next http.Handler = fn
	if h.csrf != nil {
		next = h.csrf(next)
	}
	mux.Handle(pattern, instrument(routeLabel(pattern), h.metrics, next))
}

// routeLabel drops the method and the end anchor from a mux pattern
func routeLabel(pattern string) string {
	if _, path, ok := strings.Cut(pattern, " "); ok {
		pattern = path
	}
	return strings.TrimSuffix(pattern, "{$}")
}
