package prompt

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const promptsV1 = `
- id: one
  action: First action
`

const promptsV2 = `
- id: one
  action: First action
- id: two
  title: Second
  action: Second action
`

func writePrompts(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestFileStoreLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	writePrompts(t, path, promptsV1)

	store, err := NewFileStore(path)
	require.NoError(t, err)

	items := store.List()
	require.Len(t, items, 1)
	assert.Equal(t, "First action", items[0].Title)

	_, ok := store.FindByID("two")
	assert.False(t, ok)
}

func TestFileStoreRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	writePrompts(t, path, "- id: broken\n")

	_, err := NewFileStore(path)
	assert.Error(t, err)

	_, err = NewFileStore(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFileStoreReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	writePrompts(t, path, promptsV1)

	store, err := NewFileStore(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, store.Watch(ctx))

	writePrompts(t, path, "not: [valid")
	writePrompts(t, path, promptsV2)

	require.Eventually(t, func() bool {
		_, ok := store.FindByID("two")
		return ok
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-store.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
