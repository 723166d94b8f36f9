package fs

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upkeephq/upkeep/internal/application/inventory"
	"github.com/upkeephq/upkeep/internal/storage/compliance"
)

func TestFSStore_Compliance(t *testing.T) {
	compliance.RunAttachmentStoreComplianceTest(t, func() (inventory.AttachmentStore, func()) {
		store, err := NewStore(t.TempDir())
		require.NoError(t, err)
		return store, func() {}
	})
}

func TestFSStore_RejectsPathTraversal(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, name := range []string{"../escape.txt", "a/b.txt", "..", "evil.meta.json", ""} {
		_, err := store.Put(ctx, "asset-1", name, "text/plain", strings.NewReader("x"))
		assert.Error(t, err, "name %q should be rejected", name)
	}
}
