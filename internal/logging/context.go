package logging

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/Amund211/profilelookup/internal/domain"
)

type requestLoggerContextKey struct{}

var fallbackLogger = sync.OnceValue(func() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("logger", "fallback"))
})

// FromContext returns the logger of the current request, or a stdout logger outside of requests
func FromContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(requestLoggerContextKey{}).(*slog.Logger)
	if !ok || logger == nil {
		return fallbackLogger()
	}
	return logger
}

func AddToContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, requestLoggerContextKey{}, logger)
}

func AddMetaToContext(ctx context.Context, attrs ...slog.Attr) context.Context {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}

	return AddToContext(ctx, FromContext(ctx).With(args...))
}

// AddLookupToContext tags further logs with the validated identity being looked up
func AddLookupToContext(ctx context.Context, lookup domain.Lookup) context.Context {
	return AddMetaToContext(ctx,
		slog.String("source", string(lookup.Source)),
		slog.String("identifier", lookup.Identifier()),
	)
}
