package depthmap

import (
	"math"

	"magiceye-renderer/internal/camera"
	"magiceye-renderer/internal/mathutil"
	"magiceye-renderer/internal/mesh"
)

// clipMargin pushes the clip plane slightly in front of the camera near
// plane so clipped vertices always project as valid (ProjectToNDC rejects
// z <= NearPlane, and an intersection lands within a rounding step of the
// plane it was clipped against).
const clipMargin = 1e-6

// Generate rasterizes the mesh into a normalized depth map.
//
// Every triangle is transformed to camera space, clipped against the near
// plane, projected, and depth-tested with smaller camera z winning. The
// z-buffer is then remapped into [depthNear, depthFar] with the background
// pushed back by bgSeparation of the depth range: larger values are closer
// to the viewer, uncovered pixels get depthFar.
//
// Returns the map plus the raw camera-space zmin and the background-extended
// zmax. A mesh with no rasterized pixels yields an all-depthFar map and
// infinite zmin/zmax, not an error.
func Generate(m *mesh.Mesh, width, height int, cam camera.Camera, orthoScale, depthNear, depthFar, bgSeparation float64) (*Map, float64, float64) {
	zbuf := make([]float64, width*height)
	for i := range zbuf {
		zbuf[i] = math.Inf(1)
	}

	right, up, forward := cam.ComputeBasis()
	aspect := float64(width) / float64(height)
	nearClip := cam.NearPlane + clipMargin

	var poly [4]mathutil.Vec3
	for t := 0; t < m.TriangleCount(); t++ {
		var vcam [3]mathutil.Vec3
		for i := 0; i < 3; i++ {
			v := m.Verts[t*3+i]
			rel := mathutil.Vec3{
				float64(v[0]) - cam.Position[0],
				float64(v[1]) - cam.Position[1],
				float64(v[2]) - cam.Position[2],
			}
			vcam[i] = mathutil.Vec3{rel.Dot(right), rel.Dot(up), rel.Dot(forward)}
		}

		n := clipTriangleNear(vcam[0], vcam[1], vcam[2], nearClip, &poly)
		if n < 3 {
			continue
		}

		// Fan-triangulate the clipped convex polygon.
		for k := 2; k < n; k++ {
			projectAndRasterize(zbuf, width, height, cam, aspect, orthoScale,
				poly[0], poly[k-1], poly[k])
		}
	}

	return finalize(zbuf, width, height, depthNear, depthFar, bgSeparation)
}

func projectAndRasterize(zbuf []float64, width, height int, cam camera.Camera, aspect, orthoScale float64, v0, v1, v2 mathutil.Vec3) {
	var ndcX, ndcY, invZ [3]float64
	for i, p := range [3]mathutil.Vec3{v0, v1, v2} {
		if !cam.Perspective {
			p[0] /= orthoScale * aspect
			p[1] /= orthoScale
		}
		x, y, z, ok := cam.ProjectToNDC(p, aspect)
		if !ok {
			return
		}
		ndcX[i] = x
		ndcY[i] = y
		invZ[i] = 1.0 / z
	}
	rasterizeDepth(zbuf, width, height, ndcX, ndcY, invZ, cam.FarPlane)
}

func finalize(zbuf []float64, width, height int, depthNear, depthFar, bgSeparation float64) (*Map, float64, float64) {
	zmin := math.Inf(1)
	zmax := math.Inf(-1)
	for _, z := range zbuf {
		if !math.IsInf(z, 1) {
			zmin = math.Min(zmin, z)
			zmax = math.Max(zmax, z)
		}
	}

	// Extend the background plane outward to leave separation headroom.
	extendedZmax := zmax + (zmax-zmin)*bgSeparation

	m := NewMap(width, height)
	if math.IsInf(zmin, 0) || math.IsInf(extendedZmax, 0) || math.IsNaN(extendedZmax) {
		for i := range m.Data {
			m.Data[i] = depthFar
		}
		return m, zmin, zmax
	}

	rng := extendedZmax - zmin
	if rng < tolerance {
		rng = 1
	}
	for i, z := range zbuf {
		if math.IsInf(z, 1) {
			m.Data[i] = depthFar
			continue
		}
		t := (z - zmin) / rng
		m.Data[i] = depthNear + (depthFar-depthNear)*t
	}
	return m, zmin, extendedZmax
}
