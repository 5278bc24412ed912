package sirds

import "math"

// smoothEdges blends foreground pixels with their 3x3 neighborhood
// mean. Blend strength is 1/max(1, weight), so a larger weight gives
// milder smoothing. Only interior pixels whose depth exceeds threshold
// are touched; the pass reads from a snapshot so blended neighbors do
// not feed back into the filter.
func smoothEdges(depth []float64, rgb []uint8, threshold, weight float64, width, height int) {
	if width < 3 || height < 3 {
		return
	}

	alpha := 1.0 / math.Max(1.0, weight)

	src := make([]uint8, len(rgb))
	copy(src, rgb)

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			base := y*width + x
			if depth[base] <= threshold {
				continue
			}

			n := [9]int{
				base - width - 1, base - width, base - width + 1,
				base - 1, base, base + 1,
				base + width - 1, base + width, base + width + 1,
			}

			for c := 0; c < 3; c++ {
				sum := 0.0
				for k := 0; k < 9; k++ {
					sum += float64(src[n[k]*3+c])
				}
				mean := sum / 9.0
				orig := float64(src[base*3+c])
				rgb[base*3+c] = uint8(clampF(orig*(1-alpha)+mean*alpha, 0, 255))
			}
		}
	}
}
