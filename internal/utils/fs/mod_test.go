package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastPart(t *testing.T) {
	assert.Equal(t, "main", LastPart("src/app/main.vx"))
	assert.Equal(t, "main", LastPart("src\\app\\main.vx"))
	assert.Equal(t, "", LastPart(""))
}

func TestFindUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "vex.toml"), []byte("debug = true\n"), 0o644))

	found := FindUp(nested, "vex.toml")
	assert.Equal(t, filepath.Join(root, "vex.toml"), found)
	assert.Equal(t, "", FindUp(nested, "missing.toml"))
	assert.True(t, IsDir(nested))
	assert.False(t, IsValidFile(nested))
}
