package builder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netcollector/internal/domain"
	"netcollector/internal/repository/sqlite"
)

// newTestBuilder begins a tree against an in-memory store
func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	sourceID, err := store.UpsertDataSource(ctx, &domain.DataSource{
		Name:       "test-source",
		SourceType: "test",
	})
	require.NoError(t, err)

	b, err := Begin(ctx, store, &domain.RootEntity{
		SourceID:   sourceID,
		Name:       "root",
		EntityType: "test",
		Path:       "root",
	})
	require.NoError(t, err)
	return b
}

func TestBuilderDepthChain(t *testing.T) {
	b := newTestBuilder(t)
	ctx := context.Background()

	top := &domain.HierarchyNode{Path: "root/a", Name: "a", NodeType: "dir"}
	_, err := b.AddNode(ctx, "", top)
	require.NoError(t, err)
	assert.Equal(t, 1, top.Depth)
	assert.Nil(t, top.ParentID)

	child := &domain.HierarchyNode{Path: "root/a/b", Name: "b", NodeType: "dir"}
	_, err = b.AddNode(ctx, "root/a", child)
	require.NoError(t, err)
	assert.Equal(t, 2, child.Depth)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, top.ID, *child.ParentID)

	grandchild := &domain.HierarchyNode{Path: "root/a/b/c", Name: "c", NodeType: "dir"}
	_, err = b.AddNode(ctx, "root/a/b", grandchild)
	require.NoError(t, err)
	assert.Equal(t, 3, grandchild.Depth)

	// All nodes in the chain share the root entity.
	assert.Equal(t, b.RootEntityID(), top.RootEntityID)
	assert.Equal(t, b.RootEntityID(), child.RootEntityID)
	assert.Equal(t, b.RootEntityID(), grandchild.RootEntityID)
}

func TestBuilderUnknownParent(t *testing.T) {
	b := newTestBuilder(t)

	_, err := b.AddNode(context.Background(), "root/never-made", &domain.HierarchyNode{
		Path: "root/never-made/x", Name: "x", NodeType: "dir",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDanglingReference)
}

func TestBuilderEntityNeedsParentNode(t *testing.T) {
	b := newTestBuilder(t)
	ctx := context.Background()

	// No parent node yet.
	_, err := b.AddEntity(ctx, "root/a", &domain.Entity{
		Path: "root/a/f", Name: "f", ContentType: "file",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDanglingReference)

	nodeID, err := b.AddNode(ctx, "", &domain.HierarchyNode{
		Path: "root/a", Name: "a", NodeType: "dir",
	})
	require.NoError(t, err)

	ent := &domain.Entity{Path: "root/a/f", Name: "f", ContentType: "file"}
	_, err = b.AddEntity(ctx, "root/a", ent)
	require.NoError(t, err)
	assert.Equal(t, nodeID, ent.ParentNodeID)
	assert.Equal(t, b.RootEntityID(), ent.RootEntityID)
}

func TestBuilderEntityIsNeverAParent(t *testing.T) {
	b := newTestBuilder(t)
	ctx := context.Background()

	_, err := b.AddNode(ctx, "", &domain.HierarchyNode{
		Path: "root/a", Name: "a", NodeType: "dir",
	})
	require.NoError(t, err)

	_, err = b.AddEntity(ctx, "root/a", &domain.Entity{
		Path: "root/a/f", Name: "f", ContentType: "file",
	})
	require.NoError(t, err)

	// The entity's path does not become an attachable parent.
	_, err = b.AddEntity(ctx, "root/a/f", &domain.Entity{
		Path: "root/a/f/g", Name: "g", ContentType: "file",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDanglingReference)

	_, err = b.AddNode(ctx, "root/a/f", &domain.HierarchyNode{
		Path: "root/a/f/sub", Name: "sub", NodeType: "dir",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDanglingReference)
}

func TestBuilderMetadataOrdering(t *testing.T) {
	b := newTestBuilder(t)
	ctx := context.Background()

	nodeID, err := b.AddNode(ctx, "", &domain.HierarchyNode{
		Path: "root/a", Name: "a", NodeType: "dir",
	})
	require.NoError(t, err)

	entID, err := b.AddEntity(ctx, "root/a", &domain.Entity{
		Path: "root/a/f", Name: "f", ContentType: "file",
	})
	require.NoError(t, err)

	require.NoError(t, b.AddMetadata(ctx, domain.OwnerNode, nodeID, "status", "online", domain.DataTypeString))
	require.NoError(t, b.AddMetadata(ctx, domain.OwnerEntity, entID, "ip", "10.0.0.1", domain.DataTypeString))

	// An id never returned by this run is rejected before the store
	// ever sees it.
	err = b.AddMetadata(ctx, domain.OwnerEntity, 999, "ip", "x", domain.DataTypeString)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDanglingReference)

	// Owner kinds are not interchangeable: a node id is not an entity id.
	err = b.AddMetadata(ctx, domain.OwnerEntity, nodeID, "ip", "x", domain.DataTypeString)
	if entID != nodeID {
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDanglingReference)
	}
}

func TestBuilderRerunSameIDs(t *testing.T) {
	b := newTestBuilder(t)
	ctx := context.Background()

	first, err := b.AddNode(ctx, "", &domain.HierarchyNode{
		Path: "root/a", Name: "a", NodeType: "dir",
	})
	require.NoError(t, err)

	// Re-adding the same path converges on the same identifier.
	second, err := b.AddNode(ctx, "", &domain.HierarchyNode{
		Path: "root/a", Name: "a", NodeType: "dir",
	})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
