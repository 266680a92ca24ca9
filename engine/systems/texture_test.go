package systems_test

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

func TestLoadTextureIsIdempotent(t *testing.T) {
	sm, backend := newManager(t)
	path := writePNG(t, t.TempDir(), "wood.png", 8, 4)

	first, err := sm.LoadTexture(path, metadata.TextureKind2D)
	require.NoError(t, err)
	require.True(t, first.Valid())

	second, err := sm.LoadTexture(filepath.Join(filepath.Dir(path), ".", "wood.png"), metadata.TextureKind2D)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, backend.CreatedCount(metadata.ResourceKindTexture))

	upload, ok := backend.TextureUpload(first)
	require.True(t, ok)
	assert.Equal(t, int32(8), upload.Width)
	assert.Equal(t, int32(4), upload.Height)
	assert.Equal(t, 8*4*4, upload.Pixels)
}

func TestLoadTextureMissingFileIsNotCached(t *testing.T) {
	sm, backend := newManager(t)
	logs := captureLog(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "later.png")

	h, err := sm.LoadTexture(path, metadata.TextureKind2D)
	assert.ErrorIs(t, err, core.ErrFileNotFound)
	assert.Equal(t, metadata.InvalidHandle, h)
	assert.Contains(t, logs.String(), "texture file `"+path+"` does not exist")
	assert.Empty(t, sm.GetLoadedTextureNames())
	assert.Equal(t, 0, backend.CreatedCount(metadata.ResourceKindTexture))

	writePNG(t, dir, "later.png", 2, 2)
	h, err = sm.LoadTexture(path, metadata.TextureKind2D)
	require.NoError(t, err)
	assert.True(t, h.Valid())
}

func TestLoadTextureDownscalesToLimit(t *testing.T) {
	sm, backend := newManager(t)
	path := writePNG(t, t.TempDir(), "big.png", 256, 128)

	h, err := sm.LoadTexture(path, metadata.TextureKindRectangle)
	require.NoError(t, err)
	upload, _ := backend.TextureUpload(h)
	assert.Equal(t, metadata.TextureKindRectangle, upload.Kind)
	assert.Equal(t, int32(64), upload.Width)
	assert.Equal(t, int32(32), upload.Height)

	w, err := sm.GetTextureWidthByName(path)
	require.NoError(t, err)
	assert.Equal(t, int32(64), w)
}

func TestTextureLookupsStayConsistent(t *testing.T) {
	sm, _ := newManager(t)
	dir := t.TempDir()
	paths := []string{
		writePNG(t, dir, "a.png", 1, 1),
		writePNG(t, dir, "b.png", 2, 2),
		writePNG(t, dir, "c.png", 3, 3),
	}
	for _, p := range paths {
		_, err := sm.LoadTexture(p, metadata.TextureKind2D)
		require.NoError(t, err)
	}

	assert.Equal(t, paths, sm.GetLoadedTextureNames())
	for i, p := range paths {
		byIndex, err := sm.GetTextureID(i)
		require.NoError(t, err)
		byName, err := sm.GetTextureIDByName(p)
		require.NoError(t, err)
		assert.Equal(t, byIndex, byName)

		h, err := sm.GetTextureHeight(i)
		require.NoError(t, err)
		assert.Equal(t, int32(i+1), h)
	}

	_, err := sm.GetTextureID(3)
	assert.ErrorIs(t, err, core.ErrInvalidIndex)
	_, err = sm.GetTextureID(-1)
	assert.ErrorIs(t, err, core.ErrInvalidIndex)
	_, err = sm.GetTextureWidth(99)
	assert.ErrorIs(t, err, core.ErrInvalidIndex)
	_, err = sm.GetTextureIDByName(filepath.Join(dir, "d.png"))
	assert.ErrorIs(t, err, core.ErrUnknownName)
}

func TestPrefetchHandsOffDecodedPixels(t *testing.T) {
	sm, backend := newManager(t)
	dir := t.TempDir()
	a := writePNG(t, dir, "a.png", 4, 4)
	b := writePNG(t, dir, "b.png", 4, 4)
	missing := filepath.Join(dir, "missing.png")

	select {
	case <-sm.PrefetchTextures(a, b, a, missing):
	case <-time.After(5 * time.Second):
		t.Fatal("prefetch did not finish")
	}
	// decoding never touches the backend
	assert.Equal(t, 0, backend.CreatedCount(metadata.ResourceKindTexture))

	h, err := sm.LoadTexture(a, metadata.TextureKind2D)
	require.NoError(t, err)
	assert.True(t, h.Valid())
	assert.Equal(t, 1, backend.CreatedCount(metadata.ResourceKindTexture))

	// already uploaded paths are not decoded again
	select {
	case <-sm.PrefetchTextures(a):
	case <-time.After(5 * time.Second):
		t.Fatal("prefetch did not finish")
	}

	_, err = sm.LoadTexture(missing, metadata.TextureKind2D)
	assert.ErrorIs(t, err, core.ErrFileNotFound)
}

func TestLoadTextureDeletedAfterPrefetch(t *testing.T) {
	sm, backend := newManager(t)
	dir := t.TempDir()
	path := writePNG(t, dir, "gone.png", 4, 4)

	select {
	case <-sm.PrefetchTextures(path):
	case <-time.After(5 * time.Second):
		t.Fatal("prefetch did not finish")
	}
	require.NoError(t, os.Remove(path))

	h, err := sm.LoadTexture(path, metadata.TextureKind2D)
	assert.ErrorIs(t, err, core.ErrFileNotFound)
	assert.Equal(t, metadata.InvalidHandle, h)
	assert.Empty(t, sm.GetLoadedTextureNames())
	assert.Equal(t, 0, backend.CreatedCount(metadata.ResourceKindTexture))

	// the parked pixels are gone, so a new file is decoded from disk
	writePNG(t, dir, "gone.png", 2, 2)
	h, err = sm.LoadTexture(path, metadata.TextureKind2D)
	require.NoError(t, err)
	upload, ok := backend.TextureUpload(h)
	require.True(t, ok)
	assert.Equal(t, int32(2), upload.Width)
}
