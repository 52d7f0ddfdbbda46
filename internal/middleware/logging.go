package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Logger writes one zerolog access line per request. Streaming requests are
// logged when the stream ends.
func Logger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				evt := logger.Info()
				if status >= http.StatusInternalServerError {
					evt = logger.Warn()
				}
				evt = evt.
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", status).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", time.Since(start)).
					Str("remote", r.RemoteAddr)
				if reqID := middleware.GetReqID(r.Context()); reqID != "" {
					evt = evt.Str("request_id", reqID)
				}
				if sc := trace.SpanContextFromContext(r.Context()); sc.IsValid() {
					evt = evt.Str("trace_id", sc.TraceID().String())
				}
				evt.Msg("http request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
