package middleware

import (
	"log/slog"
	"net/http"
	"regexp"

	"github.com/phrazzld/scry-cards/internal/api/shared"
	"github.com/phrazzld/scry-cards/internal/platform/logger"
)

// TraceHeader carries the request trace ID in both directions.
const TraceHeader = "X-Trace-ID"

var traceIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{8,64}$`)

// Trace returns middleware that adds a trace ID to the request context and
// stores a request logger carrying it. A well-formed incoming X-Trace-ID is
// reused. It should run early so later handlers see the trace ID.
func Trace(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if incoming := r.Header.Get(TraceHeader); traceIDPattern.MatchString(incoming) {
				ctx = shared.WithTraceID(ctx, incoming)
			} else {
				ctx = shared.SetTraceID(ctx)
			}
			traceID := shared.GetTraceID(ctx)

			log := base.With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, log)
			w.Header().Set(TraceHeader, traceID)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
