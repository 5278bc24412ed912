package texture

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "github.com/ftrvxmtrx/tga"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Load reads and decodes a pattern image file. PNG, JPEG, GIF, BMP,
// TIFF and TGA are supported through the registered decoders.
func Load(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return FromImage(img), nil
}

// FitToSeparation rescales the texture so its width matches the eye
// separation, preserving aspect ratio. A pattern tiled at the
// separation period then repeats seamlessly across the output.
func FitToSeparation(t *Texture, eyeSep int) *Texture {
	if eyeSep <= 0 || t.Width == eyeSep {
		return t
	}
	scaled := resize.Resize(uint(eyeSep), 0, t.ToImage(), resize.Lanczos3)
	return FromImage(scaled)
}
