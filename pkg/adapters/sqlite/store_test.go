package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/turing/pkg/adapters/sqlite"
	"github.com/aretw0/turing/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_Contract(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	tests.RunStoreContractTest(t, store)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "runs.db")
	ctx := context.Background()

	store, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, tests.SampleRecord("kept")))
	require.NoError(t, store.Close())

	reopened, err := sqlite.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	rec, err := reopened.Load(ctx, "kept")
	require.NoError(t, err)
	assert.Equal(t, "111", rec.Outcome.Tape)
	assert.True(t, tests.SampleRecord("kept").StartedAt.Equal(rec.StartedAt))
}
