// Package middleware holds in house HTTP middlewares
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/webnazakazku/Ares/internal/platform/logger"
)

// RequestID assigns each request an id, honoring an inbound X-Request-ID,
// stores it on the context and echoes it back in the response header
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(logger.WithRequest(r.Context(), reqID)))
	})
}
