package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/linuxrag/internal/core/ports/driven"
	"github.com/custodia-labs/linuxrag/internal/core/services"
)

func TestNewPromptStoreRequiresDir(t *testing.T) {
	_, err := NewPromptStore("")
	require.Error(t, err)
}

func TestPromptStoreSeedsDefaultOnFirstLoad(t *testing.T) {
	dir := t.TempDir()
	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	got, err := store.Load(driven.PromptAskSystem)
	require.NoError(t, err)
	assert.Equal(t, services.DefaultSystemInstruction, got)

	// The default was materialised as an editable file.
	data, err := os.ReadFile(filepath.Join(dir, driven.PromptAskSystem+".txt"))
	require.NoError(t, err)
	assert.Equal(t, services.DefaultSystemInstruction, string(data))
}

func TestPromptStorePrefersUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, driven.PromptAskSystem+".txt")
	require.NoError(t, os.WriteFile(path, []byte("custom persona\n"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	got, err := store.Load(driven.PromptAskSystem)
	require.NoError(t, err)
	assert.Equal(t, "custom persona", got)
}

func TestPromptStoreUnknownPrompt(t *testing.T) {
	store, err := NewPromptStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("no_such_prompt")
	require.Error(t, err)
}

func TestPromptStoreReloadPicksUpEdits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, driven.PromptAskSystem+".txt")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	got, err := store.Load(driven.PromptAskSystem)
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	require.NoError(t, os.WriteFile(path, []byte("second"), 0600))

	// Cached until an explicit reload.
	got, err = store.Load(driven.PromptAskSystem)
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	store.Reload()
	got, err = store.Load(driven.PromptAskSystem)
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestPromptStoreWatchInvalidatesCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, driven.PromptAskSystem+".txt")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0600))

	store, err := NewPromptStore(dir)
	require.NoError(t, err)

	stop, err := store.Watch()
	require.NoError(t, err)
	defer stop()

	got, err := store.Load(driven.PromptAskSystem)
	require.NoError(t, err)
	require.Equal(t, "first", got)

	require.NoError(t, os.WriteFile(path, []byte("second"), 0600))

	assert.Eventually(t, func() bool {
		got, err := store.Load(driven.PromptAskSystem)
		return err == nil && got == "second"
	}, 2*time.Second, 20*time.Millisecond)
}
