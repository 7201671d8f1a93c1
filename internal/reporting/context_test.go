package reporting

import (
	"testing"

	"github.com/Amund211/profilelookup/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestMetaFromContext(t *testing.T) {
	t.Parallel()

	t.Run("empty context", func(t *testing.T) {
		t.Parallel()

		meta := MetaFromContext(t.Context())
		require.Empty(t, meta.tags)
		require.Empty(t, meta.extras)
		require.Empty(t, meta.callerIP)
	})

	t.Run("children do not mutate parents", func(t *testing.T) {
		t.Parallel()

		parent := AddTagsToContext(t.Context(), map[string]string{"methodPath": "GET /api/lookup"})
		child := AddTagsToContext(parent, map[string]string{"source": "steam"})

		require.Equal(t, map[string]string{"methodPath": "GET /api/lookup"}, MetaFromContext(parent).tags)
		require.Equal(t, map[string]string{
			"methodPath": "GET /api/lookup",
			"source":     "steam",
		}, MetaFromContext(child).tags)
	})

	t.Run("lookup and caller", func(t *testing.T) {
		t.Parallel()

		ctx := SetCallerIPInContext(t.Context(), "10.0.0.1")
		ctx = AddLookupToContext(ctx, domain.Lookup{
			Source:   domain.SourceMinecraft,
			ID:       "a937646bf11544c38dbf9ae4a65669a0",
			CallerIP: "10.0.0.1",
		})

		meta := MetaFromContext(ctx)
		require.Equal(t, "10.0.0.1", meta.callerIP)
		require.Equal(t, "minecraft", meta.tags["source"])
		require.Equal(t, "a937646bf11544c38dbf9ae4a65669a0", meta.extras["identifier"])
	})
}
