package middlewares

import (
	"log/slog"
	"net/http"
	"time"
)

// RequestLogger logs one line per completed request.
type RequestLogger struct {
	logger *slog.Logger
}

// Handle records method, path, status and latency of every request.
func (m *RequestLogger) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)

		next.ServeHTTP(rec, r)

		m.logger.InfoContext(
			r.Context(),
			"http_request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("route", routeLabel(r)),
			slog.Int("status", rec.status),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	})
}

// NewRequestLogger returns a Middleware that logs requests to logger.
func NewRequestLogger(logger *slog.Logger) Middleware {
	return &RequestLogger{logger: logger}
}
