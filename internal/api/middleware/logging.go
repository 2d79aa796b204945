package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs one line per request. Place it after the session
// Verifier so the user id is known.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status_code", status,
				"latency_ms", time.Since(start).Milliseconds(),
				"bytes", ww.BytesWritten(),
				"ip", r.RemoteAddr,
				"request_id", chiMiddleware.GetReqID(r.Context()),
			}
			if s, err := sessionFromRequest(r); err == nil {
				attrs = append(attrs, "user_id", s.UserID)
			}

			switch {
			case status >= http.StatusInternalServerError:
				logger.Error("http_request", attrs...)
			case status == http.StatusForbidden:
				logger.Warn("access_denied", attrs...)
			default:
				logger.Info("http_request", attrs...)
			}
		})
	}
}
