package server

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"

	"github.com/victorcel/ollama-inventario/internal/logger"
	"github.com/victorcel/ollama-inventario/internal/metrics"
)

// Middleware wraps an http.HandlerFunc.
type Middleware func(http.HandlerFunc) http.HandlerFunc

// Chain composes middlewares in onion order: Chain(m1, m2)(h) runs
// m1 -> m2 -> h.
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.HandlerFunc) http.HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// CORS allows cross-origin requests. The API serves internal tooling and
// development frontends, so the policy is permissive, mirroring the
// deployment it replaces.
func CORS() Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next(w, r)
		}
	}
}

// RequestID attaches a random X-Request-Id header to every response.
func RequestID() Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			reqID := make([]byte, 8)
			_, _ = rand.Read(reqID)
			w.Header().Set("X-Request-Id", hex.EncodeToString(reqID))
			next(w, r)
		}
	}
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Observe logs every request and feeds the request counter and duration
// histogram. endpoint is the route pattern, not the raw path, to keep the
// label cardinality bounded.
func Observe(endpoint string, log *logger.Logger, m *metrics.Metrics) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next(recorder, r)

			m.IncrementRequests(endpoint, strconv.Itoa(recorder.status))
			m.RecordRequestDuration(start, endpoint)
			log.Info("request handled", nil, map[string]interface{}{
				"method":      r.Method,
				"endpoint":    endpoint,
				"status":      recorder.status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
		}
	}
}
