package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tech-sports-pimba/pimba-mvp/core/logger"
)

// statusWriter captures the response status for logging.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Logging logs one structured record per request: method, path, status, and
// elapsed time. Bodies and headers are never logged; the Authorization header
// in particular must stay out of logs.
func Logging(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.NewDiscard()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}

			next.ServeHTTP(sw, r)

			if sw.status == 0 {
				sw.status = http.StatusOK
			}
			log.InfoContext(r.Context(), "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				logger.Duration(time.Since(start)),
			)
		})
	}
}
