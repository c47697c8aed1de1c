package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"fuelshift/internal/platform/requestctx"
)

const requestIDHeader = "X-Request-ID"

// RequestID honors an inbound X-Request-ID so callers can correlate
// retries, otherwise mints a fresh UUID. The ID is echoed back on the
// response and stored in the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(requestctx.WithRequestID(r.Context(), id)))
	})
}

func GetRequestID(ctx context.Context) string {
	return requestctx.GetRequestID(ctx)
}
