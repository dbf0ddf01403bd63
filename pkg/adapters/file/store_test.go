package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/turing/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	tests.RunStoreContractTest(t, New(t.TempDir()))
}

func TestFileStore_ListEmptyDir(t *testing.T) {
	ids, err := New(filepath.Join(t.TempDir(), "missing")).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestFileStore_IgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, tests.SampleRecord("kept")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-half-123.json"), []byte("{"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0755))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, ids)
}

func TestFileStore_RejectsUnsafeIDs(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"", "../escape", `a\b`, "..", "tmp-x"} {
		rec := tests.SampleRecord(id)
		assert.Error(t, store.Save(ctx, rec), "id %q", id)
		_, err := store.Load(ctx, id)
		assert.Error(t, err, "id %q", id)
	}
}

func TestFileStore_Overwrite(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	rec := tests.SampleRecord("again")
	require.NoError(t, store.Save(ctx, rec))
	rec.Outcome.Tape = "1111"
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Load(ctx, "again")
	require.NoError(t, err)
	assert.Equal(t, "1111", got.Outcome.Tape)
}

func TestFileStore_DefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join(".turing", "runs"), New("").BasePath)
}
