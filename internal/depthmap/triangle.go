package depthmap

import "math"

// tolerance guards barycentric and range denominators.
const tolerance = 1e-8

// rasterizeDepth rasterizes one projected triangle into the z-buffer.
// ndcX/ndcY are the projected vertex coordinates, invZ the per-vertex
// inverse camera-space depths. Depth is interpolated perspective-correctly:
// 1/z blends linearly in screen space, so the barycentric mix of invZ is
// inverted per pixel. The z-buffer keeps the smaller camera-space z
// ("closer wins", the opposite ordering of the final inverted-z depth map).
//
// This is the hot path: no allocations in the pixel loop.
func rasterizeDepth(zbuf []float64, width, height int, ndcX, ndcY, invZ [3]float64, farPlane float64) {
	var px, py [3]float64
	for i := 0; i < 3; i++ {
		clx := math.Max(-1, math.Min(1, ndcX[i]))
		cly := math.Max(-1, math.Min(1, ndcY[i]))
		// Y flip: NDC up maps to image down.
		px[i] = (clx*0.5 + 0.5) * float64(width-1)
		py[i] = (-cly*0.5 + 0.5) * float64(height-1)
	}

	// Screen bounding box clipped to the image.
	minX := int(math.Floor(math.Min(math.Min(px[0], px[1]), px[2])))
	maxX := int(math.Ceil(math.Max(math.Max(px[0], px[1]), px[2])))
	minY := int(math.Floor(math.Min(math.Min(py[0], py[1]), py[2])))
	maxY := int(math.Ceil(math.Max(math.Max(py[0], py[1]), py[2])))
	if minX < 0 {
		minX = 0
	}
	if maxX > width-1 {
		maxX = width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY > height-1 {
		maxY = height - 1
	}

	// Barycentric setup.
	det := (py[1]-py[2])*(px[0]-px[2]) + (px[2]-px[1])*(py[0]-py[2])
	if det > -tolerance && det < tolerance {
		return
	}
	invDet := 1.0 / det

	dy12 := py[1] - py[2]
	dx21 := px[2] - px[1]
	dy20 := py[2] - py[0]
	dx02 := px[0] - px[2]

	for y := minY; y <= maxY; y++ {
		dsy := float64(y) + 0.5 - py[2]
		rowOff := y * width
		for x := minX; x <= maxX; x++ {
			dsx := float64(x) + 0.5 - px[2]
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			// Edge-inclusive: weights of exactly zero count as covered.
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			iz := w0*invZ[0] + w1*invZ[1] + w2*invZ[2]
			if iz <= tolerance {
				continue
			}
			z := 1.0 / iz
			if farPlane > 0 && z > farPlane {
				continue
			}

			idx := rowOff + x
			if z < zbuf[idx] {
				zbuf[idx] = z
			}
		}
	}
}
