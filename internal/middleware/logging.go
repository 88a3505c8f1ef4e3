package middleware

import (
	"net/http"
	"time"

	"astra/telemetry-backend/internal/logging"
)

type respLogger struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (l *respLogger) WriteHeader(code int) {
	l.status = code
	l.ResponseWriter.WriteHeader(code)
}

func (l *respLogger) Write(b []byte) (int, error) {
	n, err := l.ResponseWriter.Write(b)
	l.bytes += n
	return n, err
}

// DebugLogging traces request and response metadata at debug level.
// Bodies and the Authorization header are never logged.
func DebugLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.Debug("request received",
			"request_id", RequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"content_type", r.Header.Get("Content-Type"),
			"user_agent", r.UserAgent(),
		)

		lw := &respLogger{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()
		next.ServeHTTP(lw, r)

		logging.Debug("response sent",
			"request_id", RequestID(r.Context()),
			"status", lw.status,
			"bytes", lw.bytes,
			"duration", time.Since(start).String(),
		)
	})
}
