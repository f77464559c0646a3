package fswalk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netcollector/internal/collector"
	"netcollector/internal/repository/sqlite"
)

// seedTree lays out a small directory tree:
//
//	root/
//	  etc/
//	    ssh/
//	      sshd_config
//	  readme.md
func seedTree(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "root")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "etc", "ssh"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "etc", "ssh", "sshd_config"), []byte("Port 22\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("# hello\n"), 0o644))
	return dir
}

func collectOnce(t *testing.T, store *sqlite.Store, roots []string) *collector.Summary {
	t.Helper()
	r := collector.NewRunner(store)
	require.NoError(t, r.Register(New(roots)))
	return r.Run(context.Background())
}

func TestCollectBuildsTree(t *testing.T) {
	dir := seedTree(t)
	store, err := sqlite.New(filepath.Join(t.TempDir(), "collect.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	summary := collectOnce(t, store, []string{dir})
	require.True(t, summary.OK(), "collection failed: %v", summary.Failed)

	rows := countRows(t, store)
	assert.Equal(t, 1, rows["data_sources"])
	assert.Equal(t, 1, rows["root_entities"])
	// root, etc, etc/ssh
	assert.Equal(t, 3, rows["hierarchy_nodes"])
	// sshd_config, readme.md
	assert.Equal(t, 2, rows["entities"])
	// three facts per file
	assert.Equal(t, 6, rows["metadata"])

	// Depth follows the directory nesting.
	depths := queryDepths(t, store)
	assert.Equal(t, 1, depths["root"])
	assert.Equal(t, 2, depths["root/etc"])
	assert.Equal(t, 3, depths["root/etc/ssh"])
}

func TestCollectIdempotent(t *testing.T) {
	dir := seedTree(t)
	store, err := sqlite.New(filepath.Join(t.TempDir(), "collect.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.True(t, collectOnce(t, store, []string{dir}).OK())
	first := countRows(t, store)
	firstIDs := queryEntityIDs(t, store)

	require.True(t, collectOnce(t, store, []string{dir}).OK())
	assert.Equal(t, first, countRows(t, store), "second run must not create rows")
	assert.Equal(t, firstIDs, queryEntityIDs(t, store), "identifiers must be stable across runs")
}

func TestCollectSkipsMissingRoot(t *testing.T) {
	dir := seedTree(t)
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	// One good root, one that does not exist: the good one still lands.
	summary := collectOnce(t, store, []string{filepath.Join(dir, "does-not-exist"), dir})
	assert.True(t, summary.OK())

	rows := countRows(t, store)
	assert.Equal(t, 2, rows["entities"])
}

func TestCollectFailsWhenNothingWalkable(t *testing.T) {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	summary := collectOnce(t, store, []string{filepath.Join(t.TempDir(), "nope")})
	assert.False(t, summary.OK())
}

func countRows(t *testing.T, store *sqlite.Store) map[string]int {
	t.Helper()
	out := make(map[string]int)
	for _, table := range []string{"data_sources", "root_entities", "hierarchy_nodes", "entity_types", "entities", "metadata"} {
		var n int
		require.NoError(t, store.DB().QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
		out[table] = n
	}
	return out
}

func queryDepths(t *testing.T, store *sqlite.Store) map[string]int {
	t.Helper()
	rows, err := store.DB().Query(`SELECT path, depth FROM hierarchy_nodes`)
	require.NoError(t, err)
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var path string
		var depth int
		require.NoError(t, rows.Scan(&path, &depth))
		out[path] = depth
	}
	require.NoError(t, rows.Err())
	return out
}

func queryEntityIDs(t *testing.T, store *sqlite.Store) map[string]int64 {
	t.Helper()
	rows, err := store.DB().Query(`SELECT path, id FROM entities`)
	require.NoError(t, err)
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var path string
		var id int64
		require.NoError(t, rows.Scan(&path, &id))
		out[path] = id
	}
	require.NoError(t, rows.Err())
	return out
}
