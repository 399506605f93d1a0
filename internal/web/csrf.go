package web

import (
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"

	"task-tracker/internal/config"
)

// CSRF token transport
const (
	CSRFFieldName  = "csrfmiddlewaretoken"
	CSRFCookieName = "csrftoken"
)

// WithCSRF requires a valid token on every form submission. An empty key is
// replaced by a random one, so tokens do not survive a restart.
func WithCSRF(key []byte, secureCookie bool) HandlerOption {
	return func(h *Handler) {
		if len(key) == 0 {
			key = securecookie.GenerateRandomKey(config.CSRFKeyLength)
		}
		protect := csrf.Protect(key,
			csrf.FieldName(CSRFFieldName),
			csrf.CookieName(CSRFCookieName),
			csrf.Path("/"),
			csrf.Secure(secureCookie),
			csrf.SameSite(csrf.SameSiteLaxMode),
			csrf.ErrorHandler(http.HandlerFunc(h.forbidden)),
		)
		h.csrf = func(next http.Handler) http.Handler {
			protected := protect(next)
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				// Without TLS the strict Referer check cannot apply
				if r.TLS == nil {
					r = csrf.PlaintextHTTPRequest(r)
				}
				protected.ServeHTTP(w, r)
			})
		}
	}
}

// forbidden renders the error page for a submission without a valid token
func (h *Handler) forbidden(w http.ResponseWriter, r *http.Request) {
	h.log.WithFields(logrus.Fields{
		"request_id": RequestIDFrom(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
	}).WithError(csrf.FailureReason(r)).Warn("csrf verification failed")

	if h.metrics != nil {
		h.metrics.RequestError(routeLabel(r.Pattern), "csrf")
	}

	h.render(w, r, http.StatusForbidden, pageError, errorPage{
		Status:     http.StatusForbidden,
		StatusText: http.StatusText(http.StatusForbidden),
		Message:    "CSRF verification failed. Request aborted.",
		RequestID:  RequestIDFrom(r.Context()),
	})
}
