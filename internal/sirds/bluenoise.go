package sirds

// bayer8 is the classic 8x8 ordered-dither threshold matrix.
var bayer8 = [64]int{
	0, 32, 8, 40, 2, 34, 10, 42,
	48, 16, 56, 24, 50, 18, 58, 26,
	12, 44, 4, 36, 14, 46, 6, 38,
	60, 28, 52, 20, 62, 30, 54, 22,
	3, 35, 11, 43, 1, 33, 9, 41,
	51, 19, 59, 27, 49, 17, 57, 25,
	15, 47, 7, 39, 13, 45, 5, 37,
	63, 31, 55, 23, 61, 29, 53, 21,
}

// h32 is a small avalanche hash over 32 bits.
func h32(x uint32) uint32 {
	x ^= x >> 17
	x *= 0xED5AD4BB
	x ^= x >> 11
	x *= 0xAC4C1B51
	x ^= x >> 15
	x *= 0x31848BAB
	x ^= x >> 14
	return x
}

// BlueNoiseRGB builds a width*height*3 noise buffer with energy pushed
// toward high spatial frequencies: hashed per-pixel colors modulated by
// an 8x8 Bayer matrix, so the pattern reads as fine grain rather than
// low-frequency clumps. Pure function of its arguments; the same
// (width, height, seed) always yields the same bytes.
func BlueNoiseRGB(width, height int, seed uint32) []uint8 {
	tex := make([]uint8, width*height*3)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b := bayer8[(y&7)*8+(x&7)]
			base := h32(uint32(x)*73856093 ^ uint32(y)*19349663 ^ seed)

			// Bayer threshold normalized to (0,1] scales the hashed color.
			factor := float64(b+1) / 64.0

			idx := (y*width + x) * 3
			tex[idx] = uint8(float64(base&0xff) * factor)
			tex[idx+1] = uint8(float64(base>>8&0xff) * factor)
			tex[idx+2] = uint8(float64(base>>16&0xff) * factor)
		}
	}
	return tex
}
