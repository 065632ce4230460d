package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradeloom/loom/store"
)

// makeBase returns the base layer
//
// If you want to test a different kvstore implementation
// you can copy most of these tests and change makeBase.
// Once that passes, customize and extend as you wish
func makeBase() (store.CacheableKVStore, func()) {
	commit, cleanup := makeCommitStore()
	return commit.Adapter(), cleanup
}

func makeCommitStore() (*CommitStore, func()) {
	tmpDir, err := ioutil.TempDir("", "iavl-adapter-")
	if err != nil {
		panic(err)
	}
	cleanup := func() { os.RemoveAll(tmpDir) }
	commit, err := NewCommitStore(tmpDir, "base")
	if err != nil {
		cleanup()
		panic(err)
	}
	return commit, cleanup
}

func TestAdapterSuite(t *testing.T) {
	suite := store.NewTestSuite(makeBase)
	t.Run("get set", suite.GetSet)
	t.Run("cache conflicts", suite.CacheConflicts)
	t.Run("iteration", suite.Iteration)
}

func TestCommitAndReload(t *testing.T) {
	tmpDir, err := ioutil.TempDir("", "iavl-commit-")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	commit, err := NewCommitStore(tmpDir, "reload")
	require.NoError(t, err)
	require.NoError(t, commit.LoadLatestVersion())

	k, v := []byte("escrow"), []byte("made")

	cache := commit.CacheWrap()
	require.NoError(t, cache.Set(k, v))
	require.NoError(t, cache.Write())

	// nothing visible before commit
	got, err := commit.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got)

	id, err := commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.NotEmpty(t, id.Hash)

	got, err = commit.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	latest, err := commit.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, id, latest)

	// a discarded cache does not change the next version hash
	cache = commit.CacheWrap()
	require.NoError(t, cache.Delete(k))
	cache.Discard()
	next, err := commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(2), next.Version)
	assert.Equal(t, id.Hash, next.Hash)
}

func TestMemCommitStore(t *testing.T) {
	commit := NewMemCommitStore()
	require.NoError(t, commit.LoadLatestVersion())

	adapter := commit.Adapter()
	require.NoError(t, adapter.Set([]byte("a"), []byte("1")))
	id, err := commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)

	got, err := commit.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)
}
