package logging

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

func NewRequestLoggerMiddleware(logger *slog.Logger) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()

			orMissing := func(value string) string {
				if value == "" {
					return "<missing>"
				}
				return value
			}

			requestLogger := logger.With(
				slog.String("correlationID", uuid.New().String()),
				slog.String("type", orMissing(query.Get("type"))),
				// NOTE: User controlled values, truncated to avoid huge log lines
				slog.String("id", orMissing(fmt.Sprintf("%.100s", query.Get("id")))),
				slog.String("username", orMissing(fmt.Sprintf("%.100s", query.Get("username")))),
				slog.String("userAgent", orMissing(r.UserAgent())),
				slog.String("methodPath", fmt.Sprintf("%s %s", r.Method, r.URL.Path)),
			)

			next(w, r.WithContext(AddToContext(r.Context(), requestLogger)))
		}
	}
}
