package domaintest

import (
	"testing"

	"github.com/Amund211/profilelookup/internal/strutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// NewUUID returns a random uuid in the undashed form used for Minecraft ids
func NewUUID(t *testing.T) string {
	id, err := uuid.NewRandom()
	require.NoError(t, err)

	normalized, err := strutils.NormalizeUUID(id.String())
	require.NoError(t, err)
	return normalized
}
