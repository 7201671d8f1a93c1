package ports

import (
	"log/slog"
	"net/http"

	"github.com/Amund211/profilelookup/internal/domain"
	"github.com/Amund211/profilelookup/internal/logging"
	"github.com/Amund211/profilelookup/internal/ratelimiting"
)

// NewRateLimitMiddleware rejects requests the limiter denies with the same 429 body as the steam limit
func NewRateLimitMiddleware(rateLimiter ratelimiting.RequestRateLimiter) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if rateLimiter.Consume(r) {
				next(w, r)
				return
			}

			ctx := r.Context()
			logging.FromContext(ctx).InfoContext(ctx, "Request rate limit exceeded",
				slog.String("callerIP", ratelimiting.CallerIP(r)),
			)
			status, message := errorStatus(domain.ErrRateLimited)
			writeError(ctx, w, status, message, nil)
		}
	}
}

// ComposeMiddlewares applies the middlewares so that the first one runs outermost
func ComposeMiddlewares(middlewares ...func(http.HandlerFunc) http.HandlerFunc) func(http.HandlerFunc) http.HandlerFunc {
	return func(handler http.HandlerFunc) http.HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}
}
