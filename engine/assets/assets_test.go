package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCatalogScan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "shaders", "a.vert"), "void main() {}")
	writeFile(t, filepath.Join(dir, "shaders", "a.frag"), "void main() {}")
	writeFile(t, filepath.Join(dir, "models", "cube.obj"), "v 0 0 0")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	am := NewAssetManager(0)
	require.NoError(t, am.Initialize(dir))
	defer am.Shutdown()

	assert.Equal(t, 3, am.Count())
	assert.Equal(t, []string{
		filepath.Join(dir, "shaders", "a.frag"),
		filepath.Join(dir, "shaders", "a.vert"),
	}, am.List(metadata.AssetTypeShader))
	assert.True(t, am.Has(filepath.Join(dir, "models", ".", "cube.obj")))
	assert.False(t, am.Has(filepath.Join(dir, "notes.txt")))
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	am := NewAssetManager(0)
	require.NoError(t, am.Initialize(dir))
	defer am.Shutdown()

	path := filepath.Join(dir, "late.frag")
	writeFile(t, path, "void main() {}")

	select {
	case e := <-am.Events():
		assert.Equal(t, path, e.Path)
		assert.Equal(t, metadata.AssetTypeShader, e.Type)
		assert.Contains(t, []AssetOp{AssetCreated, AssetModified}, e.Op)
	case <-time.After(5 * time.Second):
		t.Fatal("no asset event received")
	}
	assert.Eventually(t, func() bool { return am.Has(path) }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.Remove(path))
	assert.Eventually(t, func() bool { return !am.Has(path) }, 5*time.Second, 10*time.Millisecond)
}

func TestLoadAssetWithoutCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "solo.vert")
	writeFile(t, path, "#version 410 core")

	am := NewAssetManager(0)
	asset, err := am.LoadAsset(path, metadata.AssetTypeNone, nil)
	require.NoError(t, err)
	assert.Equal(t, metadata.AssetTypeShader, asset.Type)
	assert.Equal(t, "#version 410 core", asset.Data)

	_, err = am.LoadAsset(filepath.Join(dir, "scene.mtl"), metadata.AssetTypeNone, nil)
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)

	_, err = am.LoadAsset(filepath.Join(dir, "missing.vert"), metadata.AssetTypeShader, nil)
	assert.ErrorIs(t, err, core.ErrFileNotFound)
}

func TestShutdownIsIdempotent(t *testing.T) {
	am := NewAssetManager(0)
	require.NoError(t, am.Initialize(t.TempDir()))
	require.NoError(t, am.Shutdown())
	require.NoError(t, am.Shutdown())

	_, open := <-am.Events()
	assert.False(t, open)
	assert.ErrorIs(t, am.Initialize(t.TempDir()), ErrClosed)
}

func TestInitializeMissingDirectory(t *testing.T) {
	am := NewAssetManager(0)
	assert.Error(t, am.Initialize(filepath.Join(t.TempDir(), "nope")))
	assert.NoError(t, am.Shutdown())
}

func TestAssetOpString(t *testing.T) {
	assert.Equal(t, "removed", AssetRemoved.String())
	assert.Equal(t, "unknown", AssetOp(7).String())
}
