package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	t.Parallel()

	t.Run("resolve known and unknown names", func(t *testing.T) {
		t.Parallel()
		catalog := DefaultCatalog()

		key, ok := catalog.Resolve("MockSubmitted")
		require.True(t, ok)
		assert.Equal(t, EventMockSubmitted, key)

		_, ok = catalog.Resolve("NoSuchEvent")
		assert.False(t, ok)
	})

	t.Run("contains checks event keys", func(t *testing.T) {
		t.Parallel()
		catalog := DefaultCatalog()
		assert.True(t, catalog.Contains(EventStreakWarning))
		assert.False(t, catalog.Contains("made_up"))
	})

	t.Run("constructor copies the input map", func(t *testing.T) {
		t.Parallel()
		src := map[string]string{"A": "a"}
		catalog := NewCatalog(src)
		src["B"] = "b"

		_, ok := catalog.Resolve("B")
		assert.False(t, ok)
	})
}
