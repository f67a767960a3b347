package middleware

import (
	"net/http"
	"time"

	"github.com/baechuer/account-service/internal/logger"
)

// AccessLog writes one line per request. Must run after RequestID.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := newStatusWriter(w)
		next.ServeHTTP(sw, r)

		evt := logger.WithCtx(r.Context()).Info()
		if sw.status >= http.StatusInternalServerError {
			evt = logger.WithCtx(r.Context()).Error()
		}
		evt.
			Str("method", r.Method).
			Str("route", routePattern(r)).
			Int("status", sw.status).
			Dur("latency", time.Since(start)).
			Str("ip", clientIP(r)).
			Msg("http_request")
	})
}
