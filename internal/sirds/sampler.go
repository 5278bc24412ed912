package sirds

import (
	"math"

	"magiceye-renderer/internal/texture"
)

// SampleBilinear filters the texture at (texX, texY) with clamped
// addressing: coordinates outside the texture resolve to the nearest
// edge texel. Accesses tex.Pix directly for performance.
func SampleBilinear(tex *texture.Texture, texX, texY float64) (r, g, b uint8) {
	tw, th := tex.Width, tex.Height
	texX = clampF(texX, 0, float64(tw-1))
	texY = clampF(texY, 0, float64(th-1))

	x0 := int(math.Floor(texX))
	y0 := int(math.Floor(texY))
	fx := texX - float64(x0)
	fy := texY - float64(y0)

	x1 := x0 + 1
	if x1 > tw-1 {
		x1 = tw - 1
	}
	y1 := y0 + 1
	if y1 > th-1 {
		y1 = th - 1
	}

	return lerpTexels(tex, x0, y0, x1, y1, fx, fy)
}

// SampleBilinearTiled filters with wrapped addressing. Coordinates wrap
// via floored modulo, so a sample at (width, height) matches (0, 0).
// Interior samples are identical to SampleBilinear.
func SampleBilinearTiled(tex *texture.Texture, texX, texY float64) (r, g, b uint8) {
	tw, th := tex.Width, tex.Height

	texX = math.Mod(texX, float64(tw))
	if texX < 0 {
		texX += float64(tw)
	}
	texY = math.Mod(texY, float64(th))
	if texY < 0 {
		texY += float64(th)
	}

	x0 := int(texX)
	y0 := int(texY)
	fx := texX - float64(x0)
	fy := texY - float64(y0)

	x1 := (x0 + 1) % tw
	y1 := (y0 + 1) % th

	return lerpTexels(tex, x0, y0, x1, y1, fx, fy)
}

func lerpTexels(tex *texture.Texture, x0, y0, x1, y1 int, fx, fy float64) (r, g, b uint8) {
	stride := tex.Channels
	pix := tex.Pix

	i00 := (y0*tex.Width + x0) * stride
	i10 := (y0*tex.Width + x1) * stride
	i01 := (y1*tex.Width + x0) * stride
	i11 := (y1*tex.Width + x1) * stride

	w00 := (1 - fx) * (1 - fy)
	w10 := fx * (1 - fy)
	w01 := (1 - fx) * fy
	w11 := fx * fy

	fr := float64(pix[i00])*w00 + float64(pix[i10])*w10 + float64(pix[i01])*w01 + float64(pix[i11])*w11
	fg := float64(pix[i00+1])*w00 + float64(pix[i10+1])*w10 + float64(pix[i01+1])*w01 + float64(pix[i11+1])*w11
	fb := float64(pix[i00+2])*w00 + float64(pix[i10+2])*w10 + float64(pix[i01+2])*w01 + float64(pix[i11+2])*w11

	return uint8(clampF(fr, 0, 255)), uint8(clampF(fg, 0, 255)), uint8(clampF(fb, 0, 255))
}
