package blobs

import (
	"context"
	"testing"

	"github.com/Yijia-Z/dalle2-app/internal/common"
	"github.com/Yijia-Z/dalle2-app/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R', 1, 2, 3}

// runStoreContract exercises the behaviour every backend must share.
func runStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "r1_0", models.Image{ContentType: "image/png", Data: pngBytes}))

		img, err := s.Get(ctx, "r1_0")
		require.NoError(t, err)
		assert.Equal(t, "image/png", img.ContentType)
		assert.Equal(t, pngBytes, img.Data)
	})

	t.Run("put overwrites", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "r2_mask", models.Image{ContentType: "image/png", Data: []byte("old")}))
		require.NoError(t, s.Put(ctx, "r2_mask", models.Image{ContentType: "image/png", Data: pngBytes}))

		img, err := s.Get(ctx, "r2_mask")
		require.NoError(t, err)
		assert.Equal(t, pngBytes, img.Data)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := s.Get(ctx, "nope_0")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "r3_original", models.Image{ContentType: "image/png", Data: pngBytes}))
		require.NoError(t, s.Delete(ctx, "r3_original"))
		require.NoError(t, s.Delete(ctx, "r3_original"))

		_, err := s.Get(ctx, "r3_original")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})
}
