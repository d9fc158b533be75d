package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreSuite checks the behaviour every Store backend must share.
func runStoreSuite(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := s.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "k1", []byte(`[1,2,3]`)))

		got, err := s.Get(ctx, "k1")
		require.NoError(t, err)
		assert.Equal(t, `[1,2,3]`, string(got))
	})

	t.Run("last write wins", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "k2", []byte(`"first"`)))
		require.NoError(t, s.Set(ctx, "k2", []byte(`"second"`)))

		got, err := s.Get(ctx, "k2")
		require.NoError(t, err)
		assert.Equal(t, `"second"`, string(got))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "k3", []byte(`[]`)))
		require.NoError(t, s.Delete(ctx, "k3"))

		_, err := s.Get(ctx, "k3")
		assert.ErrorIs(t, err, ErrNotFound)

		// deleting again is not an error
		assert.NoError(t, s.Delete(ctx, "k3"))
	})

	t.Run("collection round trip", func(t *testing.T) {
		type line struct {
			ID  string `json:"id"`
			Qty int    `json:"qty"`
		}
		c := NewCollection[line](s, "lines")

		items, err := c.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.NotNil(t, items)

		require.NoError(t, c.Save(ctx, []line{{ID: "p1", Qty: 2}}))

		items, err = c.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []line{{ID: "p1", Qty: 2}}, items)
	})
}
