package renderer

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/spaghettifunk/anima-viewer/engine/core"
)

// ScreenshotName formats the capture time as Screenshot-YYYY-M-D-H-M-S.png (no zero padding).
func ScreenshotName(t time.Time) string {
	return fmt.Sprintf("Screenshot-%d-%d-%d-%d-%d-%d.png",
		t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}

// FlipRows reverses the row order of a tightly packed RGBA8 image.
func FlipRows(pixels []uint8, width, height int) []uint8 {
	stride := width * 4
	out := make([]uint8, len(pixels))
	for y := 0; y < height; y++ {
		src := pixels[y*stride : (y+1)*stride]
		dst := out[(height-1-y)*stride : (height-y)*stride]
		copy(dst, src)
	}
	return out
}

// TakeScreenshot reads the front buffer, flips it to screen orientation and
// writes it as PNG into dir. It returns the written path.
func (c *RenderContext) TakeScreenshot(dir string, width, height int32, now time.Time) (string, error) {
	if width <= 0 || height <= 0 {
		err := fmt.Errorf("cannot capture a %dx%d framebuffer", width, height)
		core.LogError(err.Error())
		return "", err
	}
	pixels := c.backend.ReadPixels(0, 0, width, height)
	if len(pixels) < int(width*height*4) {
		err := fmt.Errorf("front buffer read returned %d bytes, expected %d", len(pixels), width*height*4)
		core.LogError(err.Error())
		return "", err
	}

	img := &image.NRGBA{
		Pix:    FlipRows(pixels[:width*height*4], int(width), int(height)),
		Stride: int(width) * 4,
		Rect:   image.Rect(0, 0, int(width), int(height)),
	}

	path := filepath.Join(dir, ScreenshotName(now))
	f, err := os.Create(path)
	if err != nil {
		core.LogError("failed to create screenshot file: %s", err)
		return "", err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		core.LogError("failed to encode screenshot: %s", err)
		return "", err
	}
	core.LogInfo("screenshot saved to %s", path)
	return path, nil
}
