package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskman-api/internal/api/shared"
	"github.com/phrazzld/taskman-api/internal/platform/logger"
)

// TraceMiddleware adds a trace ID to the request context and makes it the
// request_id of every logger taken from that context. Apply it early so all
// later handlers and error responses see it.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)
		ctx = logger.WithRequestID(ctx, traceID)

		logger.FromContext(ctx).Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
