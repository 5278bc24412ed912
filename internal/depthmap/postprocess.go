package depthmap

import "math"

// FillHoles replaces non-finite entries with the minimum of their finite
// 4-neighbors, repeated for the given number of passes. Normalized maps are
// always finite; this operates on raw z-buffers or externally supplied
// depth data.
func FillHoles(m *Map, passes int) {
	w, h := m.Width, m.Height
	for p := 0; p < passes; p++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				idx := y*w + x
				if isFinite(m.Data[idx]) {
					continue
				}
				best := math.Inf(1)
				if x > 0 && isFinite(m.Data[idx-1]) {
					best = math.Min(best, m.Data[idx-1])
				}
				if x+1 < w && isFinite(m.Data[idx+1]) {
					best = math.Min(best, m.Data[idx+1])
				}
				if y > 0 && isFinite(m.Data[idx-w]) {
					best = math.Min(best, m.Data[idx-w])
				}
				if y+1 < h && isFinite(m.Data[idx+w]) {
					best = math.Min(best, m.Data[idx+w])
				}
				if isFinite(best) {
					m.Data[idx] = best
				}
			}
		}
	}
}

// BilateralSmooth softens jagged depth edges with an edge-preserving
// spatial×range Gaussian filter. Non-finite centers pass through untouched.
func BilateralSmooth(m *Map, sigmaSpatial, sigmaRange float64, iterations int) {
	if len(m.Data) == 0 || iterations <= 0 {
		return
	}
	w, h := m.Width, m.Height
	radius := int(math.Ceil(2 * sigmaSpatial))
	if radius < 1 {
		radius = 1
	}
	gauss := func(x, s float64) float64 {
		return math.Exp(-(x * x) / (2 * s * s))
	}

	out := make([]float64, len(m.Data))
	for it := 0; it < iterations; it++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				idx := y*w + x
				center := m.Data[idx]
				if !isFinite(center) {
					out[idx] = center
					continue
				}
				wsum, vsum := 0.0, 0.0
				for dy := -radius; dy <= radius; dy++ {
					yy := y + dy
					if yy < 0 || yy >= h {
						continue
					}
					for dx := -radius; dx <= radius; dx++ {
						xx := x + dx
						if xx < 0 || xx >= w {
							continue
						}
						v := m.Data[yy*w+xx]
						if !isFinite(v) {
							continue
						}
						wt := gauss(math.Sqrt(float64(dx*dx+dy*dy)), sigmaSpatial) * gauss(v-center, sigmaRange)
						wsum += wt
						vsum += wt * v
					}
				}
				if wsum > 0 {
					out[idx] = vsum / wsum
				} else {
					out[idx] = center
				}
			}
		}
		m.Data, out = out, m.Data
	}
}

// Downsample box-averages the map by an integer factor, for reducing a
// supersampled render back to output resolution. Factor <= 1 returns the
// map unchanged. The map dimensions must be exact multiples of factor,
// which Generate guarantees when rendering at width*factor × height*factor.
func Downsample(m *Map, factor int) *Map {
	if factor <= 1 {
		return m
	}
	w := m.Width / factor
	h := m.Height / factor
	out := NewMap(w, h)
	norm := 1.0 / float64(factor*factor)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0.0
			for sy := 0; sy < factor; sy++ {
				row := (y*factor + sy) * m.Width
				for sx := 0; sx < factor; sx++ {
					sum += m.Data[row+x*factor+sx]
				}
			}
			out.Data[y*w+x] = sum * norm
		}
	}
	return out
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
