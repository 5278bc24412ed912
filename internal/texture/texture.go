package texture

import (
	"image"
	"image/color"
)

// Texture holds a decoded pattern image as interleaved 8-bit RGB.
type Texture struct {
	Width    int
	Height   int
	Channels int // bytes per pixel, always 3 after decoding
	Pix      []uint8
}

// FromImage converts any decoded image into a 3-channel RGB texture.
func FromImage(src image.Image) *Texture {
	b := src.Bounds()
	t := &Texture{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Channels: 3,
	}
	t.Pix = make([]uint8, t.Width*t.Height*3)

	if n, ok := src.(*image.NRGBA); ok {
		i := 0
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				si := n.PixOffset(x, y)
				t.Pix[i] = n.Pix[si]
				t.Pix[i+1] = n.Pix[si+1]
				t.Pix[i+2] = n.Pix[si+2]
				i += 3
			}
		}
		return t
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			t.Pix[i] = c.R
			t.Pix[i+1] = c.G
			t.Pix[i+2] = c.B
			i += 3
		}
	}
	return t
}

// At returns the texel at (x, y). The caller must keep x and y inside
// the texture bounds.
func (t *Texture) At(x, y int) (r, g, b uint8) {
	i := (y*t.Width + x) * t.Channels
	return t.Pix[i], t.Pix[i+1], t.Pix[i+2]
}

// ToImage converts the texture back into an NRGBA image with opaque alpha.
func (t *Texture) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	i := 0
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			di := img.PixOffset(x, y)
			img.Pix[di] = t.Pix[i]
			img.Pix[di+1] = t.Pix[i+1]
			img.Pix[di+2] = t.Pix[i+2]
			img.Pix[di+3] = 255
			i += 3
		}
	}
	return img
}
