package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/drover/pkg/domain/types"
)

// LoggingMiddleware returns a middleware that logs HTTP requests
func LoggingMiddleware(ctx context.Context) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			logger := ctxlog.From(ctx)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("HTTP request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// errorStatus maps the error taxonomy onto HTTP statuses
func errorStatus(err error) int {
	switch {
	case goerr.HasTag(err, types.ErrTagAuth):
		return http.StatusUnauthorized
	case goerr.HasTag(err, types.ErrTagValidation):
		return http.StatusBadRequest
	case goerr.HasTag(err, types.ErrTagProvider):
		return http.StatusBadGateway
	default:
		// configuration, storage and anything untagged are server faults
		return http.StatusInternalServerError
	}
}

func errorKind(err error) string {
	switch {
	case goerr.HasTag(err, types.ErrTagAuth):
		return "authentication"
	case goerr.HasTag(err, types.ErrTagValidation):
		return "validation"
	case goerr.HasTag(err, types.ErrTagProvider):
		return "provider_call"
	case goerr.HasTag(err, types.ErrTagConfig):
		return "configuration"
	case goerr.HasTag(err, types.ErrTagStorage):
		return "storage"
	default:
		return "internal"
	}
}

// writeError renders a structured failure response. Server faults are
// reported to Sentry when a DSN is configured.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		sentry.CaptureException(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
		"kind":  errorKind(err),
	}); encErr != nil {
		ctxlog.From(ctx).Error("Failed to encode error response", "error", encErr)
	}
}

// respondJSON writes a JSON response body
func respondJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ctxlog.From(ctx).Error("Failed to encode response", "error", err)
	}
}
