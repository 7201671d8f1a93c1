package reporting

import (
	"context"
	"maps"
	"time"

	"github.com/Amund211/profilelookup/internal/domain"
)

type reportingMetaContextKey struct{}

// ReportingMeta is attached to every error reported during a request
type ReportingMeta struct {
	tags      map[string]string
	extras    map[string]string
	callerIP  string
	startedAt time.Time
}

func MetaFromContext(ctx context.Context) ReportingMeta {
	meta, ok := ctx.Value(reportingMetaContextKey{}).(ReportingMeta)
	if !ok {
		return ReportingMeta{
			tags:   make(map[string]string),
			extras: make(map[string]string),
		}
	}
	// Copy so that contexts further down the chain cannot mutate their parents
	meta.tags = maps.Clone(meta.tags)
	meta.extras = maps.Clone(meta.extras)
	return meta
}

func addMetaToContext(ctx context.Context, meta ReportingMeta) context.Context {
	return context.WithValue(ctx, reportingMetaContextKey{}, meta)
}

func setStartedAtInContext(ctx context.Context, startedAt time.Time) context.Context {
	meta := MetaFromContext(ctx)
	meta.startedAt = startedAt
	return addMetaToContext(ctx, meta)
}

func AddExtrasToContext(ctx context.Context, extras map[string]string) context.Context {
	meta := MetaFromContext(ctx)
	maps.Copy(meta.extras, extras)
	return addMetaToContext(ctx, meta)
}

func AddTagsToContext(ctx context.Context, tags map[string]string) context.Context {
	meta := MetaFromContext(ctx)
	maps.Copy(meta.tags, tags)
	return addMetaToContext(ctx, meta)
}

// SetCallerIPInContext identifies the caller of the lookup in reported errors
func SetCallerIPInContext(ctx context.Context, callerIP string) context.Context {
	meta := MetaFromContext(ctx)
	meta.callerIP = callerIP
	return addMetaToContext(ctx, meta)
}

// AddLookupToContext tags reported errors with the validated identity being looked up
func AddLookupToContext(ctx context.Context, lookup domain.Lookup) context.Context {
	ctx = AddTagsToContext(ctx, map[string]string{
		"source": string(lookup.Source),
	})
	return AddExtrasToContext(ctx, map[string]string{
		"identifier": lookup.Identifier(),
	})
}
