package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// requestLogger logs every request with its route pattern, status and
// duration, and feeds the latency histogram.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		// Label the histogram with the matched route pattern, not the raw
		// path, so tenant ids cannot blow up label cardinality.
		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		s.metrics.ObserveRequest(route, elapsed)
		zap.L().Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int64("duration_ms", elapsed.Milliseconds()),
		)
	})
}

// importRateLimit throttles import requests, which rewrite a tenant's whole
// record list.
func (s *Server) importRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.importLimiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "import rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
