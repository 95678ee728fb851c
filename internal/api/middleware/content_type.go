package middleware

import (
	"net/http"
	"strings"
)

// RequireJSON rejects request bodies that are not JSON. Only methods that
// carry a body are checked; frame endpoints and other GETs pass through
// untouched. An absent Content-Type is accepted so bodyless POSTs (select,
// hover, cache invalidation) need no header.
func RequireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/problem+json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"title":"Unsupported Media Type","status":415,"detail":"Content-Type must be application/json"}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
