package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vehiclegraph/vehiclegraph/internal/log"
)

// CorrelationIDHeader carries a caller-supplied correlation ID.
const CorrelationIDHeader = "X-Correlation-ID"

// CorrelationID propagates the X-Correlation-ID header into the request
// context, generating one when absent, and echoes it on the response.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(CorrelationIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(CorrelationIDHeader, id)
		next.ServeHTTP(w, r.WithContext(log.WithCorrelationID(r.Context(), id)))
	})
}
