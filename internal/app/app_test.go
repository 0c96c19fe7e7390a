package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rossa-autoparts/storefront/internal/cart"
	"github.com/rossa-autoparts/storefront/internal/storage/sqlite"
)

func TestOpenCartStore(t *testing.T) {
	ctx := context.Background()
	lg := zap.NewNop()

	t.Run("opens the sqlite store, creating the directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rossa", "cart.db")
		store, closeStore := openCartStore(ctx, lg, path)
		defer closeStore()

		require.IsType(t, &sqlite.CartStore{}, store)
		require.NoError(t, store.Save(ctx, []cart.StoredLine{{ProductID: "p1", Quantity: 2}}))
		lines, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []cart.StoredLine{{ProductID: "p1", Quantity: 2}}, lines)
	})

	t.Run("falls back to a no-op store when persistence is unavailable", func(t *testing.T) {
		// A regular file where the cart directory should be makes both
		// MkdirAll and the subsequent open fail.
		blocker := filepath.Join(t.TempDir(), "blocker")
		require.NoError(t, os.WriteFile(blocker, nil, 0o644))

		store, closeStore := openCartStore(ctx, lg, filepath.Join(blocker, "cart.db"))
		defer closeStore()

		assert.IsType(t, cart.NopStore{}, store)
		require.NoError(t, store.Save(ctx, []cart.StoredLine{{ProductID: "p1", Quantity: 1}}))
	})
}
