package profileprovider

import (
	"errors"
	"slices"

	"github.com/Amund211/profilelookup/internal/domain"
)

// reclassify changes the kind of an upstream failure answered with one of statusCodes
func reclassify(err error, kind error, statusCodes ...int) error {
	var upstreamErr *domain.UpstreamError
	if !errors.As(err, &upstreamErr) || !slices.Contains(statusCodes, upstreamErr.StatusCode) {
		return err
	}

	return &domain.UpstreamError{
		Kind:       kind,
		StatusCode: upstreamErr.StatusCode,
		Body:       upstreamErr.Body,
	}
}
