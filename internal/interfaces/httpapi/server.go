package httpapi

import (
	"net/http"

	"github.com/fixturelab/matchbind/internal/platform/logging"
)

func NewRouter(handler *Handler, logger *logging.Logger, corsAllowedOrigins []string) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("POST /api/bindings", handler.SubmitBindings)
	mux.HandleFunc("GET /api/bindings", handler.ListBindings)
	mux.HandleFunc("POST /api/bindings/check-duplicates", handler.CheckDuplicates)
	mux.HandleFunc("POST /api/bindings/check-existing", handler.CheckExisting)
	mux.HandleFunc("DELETE /api/bindings/team", handler.DeleteTeamBinding)
	mux.HandleFunc("POST /api/identities/resolve-league", handler.ResolveLeague)
	mux.HandleFunc("POST /api/identities/resolve-team", handler.ResolveTeam)

	return RequestTracing(RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
