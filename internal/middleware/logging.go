package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"pet-care-records/internal/platform/logger"
	"pet-care-records/internal/platform/metrics"
)

// RequestLog registra una línea por request y alimenta las métricas HTTP.
// Los tokens de feed viajan en el path, así que para /api/calendar/ se loguea
// solo el prefijo.
func RequestLog(log logger.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			d := time.Since(start)
			m.ObserveHTTP(r.Method, status, d)

			fields := map[string]any{
				"method":      r.Method,
				"path":        redactPath(r.URL.Path),
				"status":      status,
				"duration_ms": d.Milliseconds(),
				"bytes":       ww.BytesWritten(),
			}
			if id := chimw.GetReqID(r.Context()); id != "" {
				fields["request_id"] = id
			}

			switch {
			case status >= 500:
				log.Error("http request", fields)
			case status >= 400:
				log.Warn("http request", fields)
			default:
				log.Info("http request", fields)
			}
		})
	}
}

const calendarPrefix = "/api/calendar/"

func redactPath(p string) string {
	if len(p) > len(calendarPrefix) && p[:len(calendarPrefix)] == calendarPrefix {
		return calendarPrefix + "***"
	}
	return p
}
