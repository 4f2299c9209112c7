package middleware

import (
	"net/http"
)

const (
	// DefaultMaxRequestSize caps request bodies at 1MB. Usage sync batches
	// are the largest payload and stay well under this.
	DefaultMaxRequestSize int64 = 1 << 20
)

// MaxRequestSize caps request body size. Oversized Content-Length headers
// are rejected up front; chunked bodies are capped by MaxBytesReader.
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestSize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			defer r.Body.Close()

			next.ServeHTTP(w, r)
		})
	}
}
