package middleware

import (
	"crypto/subtle"
	"net/http"
)

// APIKeyHeader is the header every gated request must carry
const APIKeyHeader = "Api-Key"

// APIKeyMiddleware validates the shared secret from the Api-Key header before any handler runs.
// A missing header answers 404 and a wrong value answers 400.
func APIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			providedKey := r.Header.Get(APIKeyHeader)

			if providedKey == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error":"Api key is not found"}`))
				return
			}

			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"Please enter a valid api key"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
