package mesh

import (
	"magiceye-renderer/internal/mathutil"
)

// Tolerance floors span calculations so degenerate meshes never divide by zero.
const Tolerance = 1e-6

// NormalizedSpan is the target extent of the largest bounding-box axis after
// NormalizeAndCenter. Ramp height, camera distance, and ortho-scale defaults
// are all calibrated against this size.
const NormalizedSpan = 100.0

// Mesh is a triangle soup: three vertices per triangle, in order, with an
// optional per-vertex RGB color array ([0,1] floats, either empty or parallel
// to Verts). Transforms mutate Verts in place.
type Mesh struct {
	Verts  [][3]float32
	Colors [][3]float32
}

// TriangleCount returns the number of whole triangles in the soup.
func (m *Mesh) TriangleCount() int {
	return len(m.Verts) / 3
}

// AppendTriangle adds one triangle to the soup.
func (m *Mesh) AppendTriangle(v0, v1, v2 [3]float32) {
	m.Verts = append(m.Verts, v0, v1, v2)
}

// Bounds returns the axis-aligned bounding box. Zero vectors for an empty mesh.
func (m *Mesh) Bounds() (min, max mathutil.Vec3) {
	if len(m.Verts) == 0 {
		return mathutil.Vec3{}, mathutil.Vec3{}
	}
	min = mathutil.Vec3{float64(m.Verts[0][0]), float64(m.Verts[0][1]), float64(m.Verts[0][2])}
	max = min
	for _, v := range m.Verts[1:] {
		p := mathutil.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
		min = min.Min(p)
		max = max.Max(p)
	}
	return min, max
}

// CenterSpan returns the bounding-box center and the largest axis extent,
// floored at Tolerance.
func (m *Mesh) CenterSpan() (center mathutil.Vec3, span float64) {
	min, max := m.Bounds()
	center = min.Add(max).Scale(0.5)
	ext := max.Sub(min)
	span = ext.MaxComponent()
	if span < Tolerance {
		span = Tolerance
	}
	return center, span
}

// NormalizeAndCenter translates the bounding-box center to the origin and
// uniformly scales the mesh so its largest extent equals NormalizedSpan.
// No-op for an empty mesh; a degenerate (point) mesh is centered only.
func (m *Mesh) NormalizeAndCenter() {
	if len(m.Verts) == 0 {
		return
	}
	min, max := m.Bounds()
	center := min.Add(max).Scale(0.5)
	ext := max.Sub(min).MaxComponent()
	scale := 1.0
	if ext > Tolerance {
		scale = NormalizedSpan / ext
	}
	for i := range m.Verts {
		for c := 0; c < 3; c++ {
			m.Verts[i][c] = float32((float64(m.Verts[i][c]) - center[c]) * scale)
		}
	}
}
