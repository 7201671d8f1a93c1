package ports

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/Amund211/profilelookup/internal/app"
	"github.com/Amund211/profilelookup/internal/domain"
	"github.com/Amund211/profilelookup/internal/logging"
	"github.com/Amund211/profilelookup/internal/ratelimiting"
	"github.com/Amund211/profilelookup/internal/reporting"
)

func MakeLookupHandler(
	lookupProfile app.LookupProfile,
	ipRateLimiter ratelimiting.RequestRateLimiter,
	rootLogger *slog.Logger,
	sentryMiddleware func(http.HandlerFunc) http.HandlerFunc,
) http.HandlerFunc {
	middleware := ComposeMiddlewares(
		logging.NewRequestLoggerMiddleware(rootLogger),
		sentryMiddleware,
		buildMetricsMiddleware(),
		NewRateLimitMiddleware(ipRateLimiter),
	)

	handler := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		query := r.URL.Query()
		callerIP := ratelimiting.CallerIP(r)

		ctx = reporting.SetCallerIPInContext(ctx, callerIP)
		ctx = reporting.AddExtrasToContext(ctx,
			map[string]string{
				"id":       query.Get("id"),
				"username": query.Get("username"),
			},
		)

		req, err := parseProfileRequest(query, callerIP)
		if err != nil {
			status, message := errorStatus(err)
			writeError(ctx, w, status, message, errorDetails(err))
			return
		}

		profile, err := lookupProfile(ctx, req)
		if err != nil {
			status, message := errorStatus(err)
			if status == http.StatusInternalServerError {
				reporting.Report(ctx, err)
			} else {
				logging.FromContext(ctx).InfoContext(ctx, "Profile lookup failed", "status", status, "error", err.Error())
			}
			writeError(ctx, w, status, message, errorDetails(err))
			return
		}

		ctx = logging.AddMetaToContext(ctx, slog.String("profileID", profile.ID))
		logging.FromContext(ctx).InfoContext(ctx, "Profile lookup succeeded")

		writeProfile(ctx, w, profile)
	}

	return middleware(handler)
}

// parseProfileRequest checks the parameters common to every source before a strategy is selected
func parseProfileRequest(query url.Values, callerIP string) (domain.ProfileRequest, error) {
	fields := map[string]string{}

	source, err := domain.ParseSource(query.Get("type"))
	if err != nil {
		fields["type"] = "must be one of steam, xbl, minecraft"
	}

	params := map[string]string{}
	for _, key := range []string{"id", "username"} {
		if value := query.Get(key); value != "" {
			params[key] = value
		}
	}
	if len(params) == 0 {
		fields["id"] = "is required when username is missing"
		fields["username"] = "is required when id is missing"
	}

	if len(fields) > 0 {
		return domain.ProfileRequest{}, &domain.ValidationError{Fields: fields}
	}

	return domain.ProfileRequest{
		Source:   source,
		Params:   params,
		CallerIP: callerIP,
	}, nil
}
