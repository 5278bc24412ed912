// Package imageio writes rendered RGB buffers to disk as PNG or WebP.
package imageio

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
)

// ToNRGBA wraps a packed 3-byte RGB buffer in an opaque NRGBA image.
func ToNRGBA(rgb []uint8, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		img.Pix[i*4] = rgb[i*3]
		img.Pix[i*4+1] = rgb[i*3+1]
		img.Pix[i*4+2] = rgb[i*3+2]
		img.Pix[i*4+3] = 255
	}
	return img
}

// WriteRGB encodes the buffer to path, picking the codec from the file
// extension. Everything that is not .webp is written as PNG.
func WriteRGB(path string, rgb []uint8, width, height int) error {
	if len(rgb) < width*height*3 {
		return fmt.Errorf("imageio: buffer holds %d bytes, need %d", len(rgb), width*height*3)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("imageio: create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	defer f.Close()

	img := ToNRGBA(rgb, width, height)
	if strings.ToLower(filepath.Ext(path)) == ".webp" {
		if err := nativewebp.Encode(f, img, nil); err != nil {
			return fmt.Errorf("imageio: WebP encode %s: %w", path, err)
		}
		return nil
	}
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("imageio: PNG encode %s: %w", path, err)
	}
	return nil
}

// DepthToRGB renders a normalized depth map as a grayscale RGB buffer,
// white for near and black for far. Non-finite samples come out black.
func DepthToRGB(depth []float64, width, height int) []uint8 {
	rgb := make([]uint8, width*height*3)
	for i := 0; i < width*height && i < len(depth); i++ {
		d := depth[i]
		if !(d > 0) {
			d = 0
		} else if d > 1 {
			d = 1
		}
		v := uint8(math.Round(d * 255))
		rgb[i*3] = v
		rgb[i*3+1] = v
		rgb[i*3+2] = v
	}
	return rgb
}
