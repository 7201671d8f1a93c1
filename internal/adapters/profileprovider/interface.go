package profileprovider

import (
	"context"
	"fmt"

	"github.com/Amund211/profilelookup/internal/adapters/upstream"
	"github.com/Amund211/profilelookup/internal/domain"
)

type UpstreamClient interface {
	Get(ctx context.Context, url string) (upstream.Response, error)
}

func cacheKey(source domain.Source, identifier string) string {
	return fmt.Sprintf("%s|%s", source, identifier)
}

// Lookups are only created by the strategy that validated them, so a mismatch is a programming error
func mustBeLookupFor(lookup domain.Lookup, source domain.Source, hasIdentifier bool) {
	if lookup.Source != source {
		panic(fmt.Sprintf("logic error: %s strategy called with a lookup for '%s'", source, lookup.Source))
	}
	if !hasIdentifier {
		panic(fmt.Sprintf("logic error: %s strategy called with an unvalidated lookup", source))
	}
}
