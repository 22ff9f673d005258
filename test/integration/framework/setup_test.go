//go:build integration
// +build integration

package framework

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindModuleRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example\n"), 0644))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	got, err := findModuleRoot(nested)
	require.NoError(t, err)
	assert.Equal(t, root, got)

	got, err = findModuleRoot(root)
	require.NoError(t, err)
	assert.Equal(t, root, got)
}

func TestFindModuleRoot_Missing(t *testing.T) {
	_, err := findModuleRoot(t.TempDir())
	if err == nil {
		t.Skip("a go.mod exists above the temp dir")
	}
	assert.ErrorContains(t, err, "go.mod not found")
}
