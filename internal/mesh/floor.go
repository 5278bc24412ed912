package mesh

import (
	"magiceye-renderer/internal/mathutil"
)

// AddFloorRamp appends a two-triangle quad below the mesh that ramps toward
// the viewer (+z) across the bottom half of the scene. The quad is sized
// span·rampWidth on both axes, its far edge sits 0.35·size behind the mesh
// bottom, and its near edge rises by rampHeight. Gives the stereogram a
// ground plane to anchor depth perception.
//
// Per-vertex colors (light gray) are appended only when the mesh already
// carries a color array parallel to Verts.
func (m *Mesh) AddFloorRamp(center mathutil.Vec3, span, rampWidth, rampHeight float64) {
	withColors := len(m.Colors) == len(m.Verts) && len(m.Verts) > 0

	cx, cy := center[0], center[1]
	floorZ := center[2] - span*0.5
	size := span * rampWidth
	halfX := size * 0.5
	halfY := size * 0.5

	y0 := cy - halfY
	y1 := cy

	zFar := floorZ - 0.35*size
	zNear := zFar + rampHeight

	v0 := [3]float32{float32(cx - halfX), float32(y0), float32(zNear)}
	v1 := [3]float32{float32(cx + halfX), float32(y0), float32(zNear)}
	v2 := [3]float32{float32(cx + halfX), float32(y1), float32(zFar)}
	v3 := [3]float32{float32(cx - halfX), float32(y1), float32(zFar)}

	m.AppendTriangle(v0, v1, v2)
	m.AppendTriangle(v0, v2, v3)

	if withColors {
		gray := [3]float32{0.8, 0.8, 0.8}
		for i := 0; i < 6; i++ {
			m.Colors = append(m.Colors, gray)
		}
	}
}
