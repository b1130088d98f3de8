package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fdg312/fitbot/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorageRoundTrip(t *testing.T) {
	dir := t.TempDir()
	st, err := New(filepath.Join(dir, "data"))
	require.NoError(t, err)
	ctx := context.Background()

	_, found, err := st.Load(ctx, storage.SlotWater)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, st.Save(ctx, storage.SlotWater, []byte(`[{"date":"2024-05-01","amount":500}]`)))
	require.NoError(t, st.Save(ctx, storage.SlotWater, []byte(`[{"date":"2024-05-01","amount":750}]`)))

	got, found, err := st.Load(ctx, storage.SlotWater)
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[{"date":"2024-05-01","amount":750}]`, string(got))
}

func TestFileStorageSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, storage.SlotLanguage, []byte(`"EN"`)))

	second, err := New(dir)
	require.NoError(t, err)
	got, found, err := second.Load(ctx, storage.SlotLanguage)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `"EN"`, string(got))
}

func TestFileStorageLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	st, err := New(dir)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, st.Save(context.Background(), storage.SlotMeals, []byte(`[]`)))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "meals.json", entries[0].Name())
}

func TestFileStorageRejectsEmptyDir(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestFileStorageCanceledContext(t *testing.T) {
	st, err := New(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = st.Save(ctx, storage.SlotTheme, []byte(`"dark"`))
	assert.ErrorIs(t, err, storage.ErrStorageFailure)
	assert.ErrorIs(t, err, context.Canceled)
}
