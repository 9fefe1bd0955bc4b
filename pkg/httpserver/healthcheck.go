package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/opensearch-operator/pkg/logger"
)

// HealthCheckHandler returns a handler usable as both liveness and readiness
// probe. Without funcs it always answers 200 "ALIVE". With funcs each one runs
// against the request context; the first failure answers 503 "NOT_READY",
// otherwise 200 "READY".
func HealthCheckHandler(log *slog.Logger, funcs ...func(context.Context) error) http.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if len(funcs) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}

		for _, f := range funcs {
			if err := f(r.Context()); err != nil {
				log.WarnContext(r.Context(), "readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
