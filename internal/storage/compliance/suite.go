package compliance

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upkeephq/upkeep/internal/application/inventory"
	"github.com/upkeephq/upkeep/internal/domain"
)

// RunAttachmentStoreComplianceTest runs a standard set of tests against an
// AttachmentStore implementation. setup returns a fresh (clean) store for each
// subtest; cleanup is called afterwards to release resources.
func RunAttachmentStoreComplianceTest(t *testing.T, setup func() (inventory.AttachmentStore, func())) {
	t.Run("PutAndGet", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		assetID := uuid.New().String()
		content := "furnace filter installation manual"

		att, err := store.Put(ctx, assetID, "manual.pdf", "application/pdf", strings.NewReader(content))
		require.NoError(t, err)
		assert.Equal(t, "manual.pdf", att.Name)
		assert.Equal(t, assetID, att.AssetID)
		assert.Equal(t, "application/pdf", att.ContentType)
		assert.Equal(t, int64(len(content)), att.Size)
		assert.False(t, att.UpdatedAt.IsZero())

		r, fetched, err := store.Get(ctx, assetID, "manual.pdf")
		require.NoError(t, err)
		defer r.Close()

		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, content, string(data))
		assert.Equal(t, "application/pdf", fetched.ContentType)
	})

	t.Run("PutOverwrites", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		assetID := uuid.New().String()
		_, err := store.Put(ctx, assetID, "photo.jpg", "image/jpeg", strings.NewReader("v1"))
		require.NoError(t, err)

		att, err := store.Put(ctx, assetID, "photo.jpg", "image/jpeg", strings.NewReader("version two"))
		require.NoError(t, err)
		assert.Equal(t, int64(len("version two")), att.Size)

		r, _, err := store.Get(ctx, assetID, "photo.jpg")
		require.NoError(t, err)
		defer r.Close()

		data, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, "version two", string(data))
	})

	t.Run("List", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		assetID := uuid.New().String()
		otherAsset := uuid.New().String()

		_, err := store.Put(ctx, assetID, "manual.pdf", "application/pdf", strings.NewReader("a"))
		require.NoError(t, err)
		_, err = store.Put(ctx, assetID, "receipt.png", "image/png", strings.NewReader("b"))
		require.NoError(t, err)
		_, err = store.Put(ctx, otherAsset, "unrelated.txt", "text/plain", strings.NewReader("c"))
		require.NoError(t, err)

		attachments, err := store.List(ctx, assetID)
		require.NoError(t, err)
		require.Len(t, attachments, 2)

		names := make(map[string]bool)
		for _, a := range attachments {
			names[a.Name] = true
			assert.Equal(t, assetID, a.AssetID)
		}
		assert.True(t, names["manual.pdf"])
		assert.True(t, names["receipt.png"])
	})

	t.Run("ListEmptyAsset", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()

		attachments, err := store.List(context.Background(), uuid.New().String())
		require.NoError(t, err)
		assert.Empty(t, attachments)
	})

	t.Run("Delete", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		assetID := uuid.New().String()
		_, err := store.Put(ctx, assetID, "old.pdf", "application/pdf", strings.NewReader("x"))
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, assetID, "old.pdf"))

		_, _, err = store.Get(ctx, assetID, "old.pdf")
		assert.ErrorIs(t, err, domain.ErrAttachmentNotFound)

		err = store.Delete(ctx, assetID, "old.pdf")
		assert.ErrorIs(t, err, domain.ErrAttachmentNotFound)
	})

	t.Run("GetNonExistent", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()

		_, _, err := store.Get(context.Background(), uuid.New().String(), "missing.pdf")
		assert.ErrorIs(t, err, domain.ErrAttachmentNotFound)
	})
}
