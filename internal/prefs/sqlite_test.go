package prefs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLiteStoreDefaultsToEnabled(t *testing.T) {
	store, err := OpenSQLiteInMemory()
	require.NoError(t, err)
	defer store.Close()

	enabled, err := store.TypingNotificationsEnabled(context.Background())
	require.NoError(t, err)
	require.True(t, enabled)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SetTypingNotificationsEnabled(ctx, false))
	enabled, err := store.TypingNotificationsEnabled(ctx)
	require.NoError(t, err)
	require.False(t, enabled)

	require.NoError(t, store.SetTypingNotificationsEnabled(ctx, true))
	enabled, err = store.TypingNotificationsEnabled(ctx)
	require.NoError(t, err)
	require.True(t, enabled)
}

func TestSQLiteStoreReopenKeepsValue(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.db")

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, store.SetTypingNotificationsEnabled(ctx, false))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	enabled, err := reopened.TypingNotificationsEnabled(ctx)
	require.NoError(t, err)
	require.False(t, enabled)
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	enabled, err := store.TypingNotificationsEnabled(ctx)
	require.NoError(t, err)
	require.True(t, enabled)

	require.NoError(t, store.SetTypingNotificationsEnabled(ctx, false))
	enabled, err = store.TypingNotificationsEnabled(ctx)
	require.NoError(t, err)
	require.False(t, enabled)
}
