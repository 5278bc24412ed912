package depthmap

import (
	"magiceye-renderer/internal/mathutil"
)

// clipTriangleNear clips a camera-space triangle against the plane z = nearZ
// (Sutherland–Hodgman, z >= nearZ is inside) and writes the resulting convex
// polygon into out. Returns the vertex count: 0 (fully behind), 3, or 4.
// Partially-behind triangles would otherwise project through the camera
// plane and rasterize garbage, so this runs before any projection.
func clipTriangleNear(v0, v1, v2 mathutil.Vec3, nearZ float64, out *[4]mathutil.Vec3) int {
	in := [3]mathutil.Vec3{v0, v1, v2}
	n := 0
	for i := 0; i < 3; i++ {
		cur := in[i]
		next := in[(i+1)%3]
		curInside := cur[2] >= nearZ
		nextInside := next[2] >= nearZ

		if curInside != nextInside {
			t := (nearZ - cur[2]) / (next[2] - cur[2])
			out[n] = cur.Add(next.Sub(cur).Scale(t))
			n++
		}
		if nextInside {
			out[n] = next
			n++
		}
	}
	return n
}
