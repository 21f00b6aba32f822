package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestID ensures every request carries an X-Request-ID, generating one
// when the client did not supply it. The id is echoed on the response and in
// error envelopes.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
			r.Header.Set("X-Request-ID", requestID)
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
	})
}
