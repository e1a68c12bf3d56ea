package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFolder(t *testing.T) {
	dir := t.TempDir()

	res := Resolve("", dir)
	assert.Equal(t, dir, res.FolderPath)
	assert.Empty(t, res.WorkspacePath)
	assert.False(t, res.IsEmpty())
}

func TestResolveWorkspaceFile(t *testing.T) {
	dir := t.TempDir()
	ws := filepath.Join(dir, "proj.code-workspace")
	require.NoError(t, os.WriteFile(ws, []byte("{}"), 0o644))

	res := Resolve(ws, "")
	assert.Equal(t, ws, res.WorkspacePath)
	assert.Empty(t, res.FolderPath)
}

func TestWorkspaceWinsOverFolder(t *testing.T) {
	dir := t.TempDir()
	ws := filepath.Join(dir, "proj.code-workspace")
	require.NoError(t, os.WriteFile(ws, []byte("{}"), 0o644))

	res := Resolve(ws, dir)
	assert.Equal(t, ws, res.WorkspacePath)
	assert.Empty(t, res.FolderPath)
}

func TestResolveMissingTargets(t *testing.T) {
	res := Resolve(filepath.Join(t.TempDir(), "gone.code-workspace"), filepath.Join(t.TempDir(), "gone"))
	assert.True(t, res.IsEmpty())
}

func TestResolveTypeMismatch(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "afile")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	// A plain file is not a valid folder target.
	res := Resolve("", file)
	assert.True(t, res.IsEmpty())

	// A directory is not a valid workspace file.
	res = Resolve(dir, "")
	assert.True(t, res.IsEmpty())
}
