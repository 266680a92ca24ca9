package loaders

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"

	"github.com/spaghettifunk/anima-viewer/engine/core"
	"github.com/spaghettifunk/anima-viewer/engine/renderer/metadata"
	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type TextureLoader struct {
	// MaxSize is used when Load gets no *metadata.ImageParams.
	MaxSize int
}

func (tl *TextureLoader) Load(path string, params interface{}) (*metadata.Asset, error) {
	p := metadata.ImageParams{FlipY: true, MaxSize: tl.MaxSize}
	if ip, ok := params.(*metadata.ImageParams); ok && ip != nil {
		p = *ip
	}
	img, err := DecodeImage(path, p)
	if err != nil {
		return nil, err
	}
	return &metadata.Asset{
		Name:     path,
		FullPath: path,
		Type:     metadata.AssetTypeImage,
		DataSize: uint64(len(img.Pixels)),
		Data:     img,
	}, nil
}

/**
 * @brief Decodes an image file into RGBA8 pixels.
 * Images wider or taller than params.MaxSize are downscaled keeping the
 * aspect ratio. With FlipY the rows are stored bottom-up.
 */
func DecodeImage(path string, params metadata.ImageParams) (*metadata.ImageData, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("image `%s`: %w", path, core.ErrFileNotFound)
		}
		return nil, err
	}
	defer file.Close()

	src, format, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image `%s`: %w", path, errors.Join(core.ErrUnsupportedFormat, err))
	}

	bounds := src.Bounds()
	w, h := fitSize(bounds.Dx(), bounds.Dy(), params.MaxSize)
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("image `%s` is empty: %w", path, core.ErrUnsupportedFormat)
	}

	rgba := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == bounds.Dx() && h == bounds.Dy() {
		xdraw.Draw(rgba, rgba.Bounds(), src, bounds.Min, xdraw.Src)
	} else {
		core.LogDebug("downscaling %s image `%s` from %dx%d to %dx%d", format, path, bounds.Dx(), bounds.Dy(), w, h)
		// bilinear is good enough for very large sources
		scaler := xdraw.Interpolator(xdraw.CatmullRom)
		if bounds.Dx()*bounds.Dy() > 4096*4096 {
			scaler = xdraw.ApproxBiLinear
		}
		scaler.Scale(rgba, rgba.Bounds(), src, bounds, xdraw.Src, nil)
	}

	pixels := rgba.Pix
	if params.FlipY {
		pixels = flipRows(pixels, w, h)
	}
	return &metadata.ImageData{
		Path:   path,
		Width:  int32(w),
		Height: int32(h),
		Pixels: pixels,
	}, nil
}

// fitSize scales w x h down so that neither side exceeds max.
func fitSize(w, h, max int) (int, int) {
	if max <= 0 || (w <= max && h <= max) {
		return w, h
	}
	if w >= h {
		nh := h * max / w
		if nh < 1 {
			nh = 1
		}
		return max, nh
	}
	nw := w * max / h
	if nw < 1 {
		nw = 1
	}
	return nw, max
}

func flipRows(pixels []uint8, w, h int) []uint8 {
	stride := w * 4
	out := make([]uint8, len(pixels))
	for y := 0; y < h; y++ {
		copy(out[(h-1-y)*stride:(h-y)*stride], pixels[y*stride:(y+1)*stride])
	}
	return out
}
