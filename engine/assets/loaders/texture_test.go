package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePNG stores a w x h image whose top row is red and the rest blue.
func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{B: 255, A: 255}
			if y == 0 {
				c = color.NRGBA{R: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestDecodeImageFlipsRows(t *testing.T) {
	path := writePNG(t, t.TempDir(), "rows.png", 2, 3)

	img, err := DecodeImage(path, metadata.ImageParams{FlipY: true})
	require.NoError(t, err)
	assert.Equal(t, int32(2), img.Width)
	assert.Equal(t, int32(3), img.Height)
	require.Len(t, img.Pixels, 2*3*4)

	last := img.Pixels[len(img.Pixels)-4:]
	assert.Equal(t, []uint8{255, 0, 0, 255}, last)
	assert.Equal(t, []uint8{0, 0, 255, 255}, img.Pixels[:4])

	unflipped, err := DecodeImage(path, metadata.ImageParams{})
	require.NoError(t, err)
	assert.Equal(t, []uint8{255, 0, 0, 255}, unflipped.Pixels[:4])
}

func TestDecodeImageDownscales(t *testing.T) {
	path := writePNG(t, t.TempDir(), "big.png", 64, 16)

	img, err := DecodeImage(path, metadata.ImageParams{MaxSize: 32})
	require.NoError(t, err)
	assert.Equal(t, int32(32), img.Width)
	assert.Equal(t, int32(8), img.Height)
	assert.Len(t, img.Pixels, 32*8*4)
}

func TestDecodeImageErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := DecodeImage(filepath.Join(dir, "missing.png"), metadata.ImageParams{})
	assert.ErrorIs(t, err, core.ErrFileNotFound)

	garbage := filepath.Join(dir, "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o644))
	_, err = DecodeImage(garbage, metadata.ImageParams{})
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
}

func TestFitSize(t *testing.T) {
	w, h := fitSize(100, 50, 0)
	assert.Equal(t, []int{100, 50}, []int{w, h})
	w, h = fitSize(50, 200, 100)
	assert.Equal(t, []int{25, 100}, []int{w, h})
	w, h = fitSize(1000, 1, 10)
	assert.Equal(t, []int{10, 1}, []int{w, h})
}

func TestTextureLoaderDefaults(t *testing.T) {
	path := writePNG(t, t.TempDir(), "tex.png", 8, 8)
	loader := &TextureLoader{MaxSize: 4}

	asset, err := loader.Load(path, nil)
	require.NoError(t, err)
	img := asset.Data.(*metadata.ImageData)
	assert.Equal(t, int32(4), img.Width)
	assert.Equal(t, uint64(len(img.Pixels)), asset.DataSize)

	asset, err = loader.Load(path, &metadata.ImageParams{})
	require.NoError(t, err)
	assert.Equal(t, int32(8), asset.Data.(*metadata.ImageData).Width)
}

func TestShaderLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.vert")
	require.NoError(t, os.WriteFile(path, []byte("#version 410 core\n"), 0o644))

	asset, err := (&ShaderLoader{}).Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "#version 410 core\n", asset.Data)

	_, err = (&ShaderLoader{}).Load(filepath.Join(dir, "b.frag"), nil)
	assert.ErrorIs(t, err, core.ErrFileNotFound)
}
