package http

import (
	"net/http"
	"strings"
)

// ContentTypeJSON rejects mutating requests whose body is not JSON. Routes
// that accept multipart uploads must not be mounted behind it.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				writeJSON(w, http.StatusUnsupportedMediaType, response{
					Error: &errorResponse{
						Code:    "UNSUPPORTED_MEDIA_TYPE",
						Message: "Content-Type must be application/json",
					},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
