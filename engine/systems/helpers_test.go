package systems_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spaghettifunk/anima-viewer/engine/assets"
	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/renderer"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/renderertest"
	"github.com/spaghettifunk/anima-viewer/engine/systems"
	"github.com/stretchr/testify/require"
)

const (
	vertexSource   = "#version 410 core\nvoid main() { gl_Position = vec4(0); }\n"
	fragmentSource = "#version 410 core\nout vec4 c;\nvoid main() { c = vec4(1); }\n"
	brokenFragment = "#version 410 core\n#error nope\n"
)

func newManager(t *testing.T) (*systems.SystemManager, *renderertest.Backend) {
	t.Helper()
	backend := renderertest.NewBackend()
	sm, err := systems.NewSystemManager(systems.SystemManagerConfig{
		MaxTextureSize:  64,
		PrefetchWorkers: 2,
	}, assets.NewAssetManager(64), renderer.NewRenderContext(backend))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sm.Shutdown() })
	return sm, backend
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return writeFile(t, dir, name, buf.String())
}

// captureLog redirects the engine logger for the duration of the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	core.SetLogOutput(&buf)
	t.Cleanup(func() { core.SetLogOutput(os.Stderr) })
	return &buf
}
