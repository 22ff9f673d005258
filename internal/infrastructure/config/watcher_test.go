package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadOnWrite(t *testing.T) {
	dir := setupConfigEnv(t)
	path := filepath.Join(dir, "config.yaml")

	w, err := NewWatcherForPath(path, 20*time.Millisecond)
	require.NoError(t, err)

	changes := make(chan *Config, 4)
	w.OnChange(func(cfg *Config) {
		changes <- cfg
	})

	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0644))

	select {
	case cfg := <-changes:
		assert.Equal(t, "debug", cfg.Log.Level)
	case <-time.After(5 * time.Second):
		t.Fatal("expected config reload after write")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := setupConfigEnv(t)
	path := filepath.Join(dir, "config.yaml")

	w, err := NewWatcherForPath(path, 20*time.Millisecond)
	require.NoError(t, err)

	changes := make(chan *Config, 1)
	w.OnChange(func(cfg *Config) {
		changes <- cfg
	})

	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "todo.db"), []byte("x"), 0644))

	select {
	case <-changes:
		t.Fatal("unexpected reload for unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}
