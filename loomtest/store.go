package loomtest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/tradeloom/loom/store/iavl"
)

// CommitKVStore opens an iavl store backed by goleveldb in a temporary
// directory. Call cleanup to remove the directory.
func CommitKVStore(t testing.TB) (db *iavl.CommitStore, cleanup func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "loomtest")
	if err != nil {
		t.Fatalf("temporary directory: %s", err)
	}
	cleanup = func() { os.RemoveAll(dir) }
	if db, err = iavl.NewCommitStore(dir, "state"); err != nil {
		cleanup()
		t.Fatalf("open commit store: %s", err)
	}
	return db, cleanup
}
