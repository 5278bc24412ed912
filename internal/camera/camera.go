package camera

import (
	"math"

	"magiceye-renderer/internal/mathutil"
)

// Camera describes the view for a single render. Built once per render,
// immutable thereafter.
type Camera struct {
	Position    mathutil.Vec3
	LookAt      mathutil.Vec3
	Up          mathutil.Vec3
	FOVDeg      float64
	Perspective bool

	// NearPlane is the camera-space z below which points are treated as
	// behind the camera. FarPlane, when positive, culls pixels beyond it;
	// zero disables far culling.
	NearPlane float64
	FarPlane  float64
}

// Default returns the conventional starting camera: y-up, 45° perspective.
func Default() Camera {
	return Camera{
		Up:          mathutil.Vec3{0, 1, 0},
		FOVDeg:      45,
		Perspective: true,
		NearPlane:   1e-6,
	}
}

// ComputeBasis returns the orthonormal view frame:
// forward toward the scene, right, and the re-orthogonalized up.
func (c Camera) ComputeBasis() (right, up, forward mathutil.Vec3) {
	forward = c.LookAt.Sub(c.Position).Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward)
	return right, up, forward
}

// ProjectToNDC maps a camera-space point to normalized device coordinates.
// ok is false when the point sits at or behind the near plane; no error is
// raised, callers skip such points. Orthographic input is expected to be
// pre-divided by ortho scale and aspect, so it passes through unchanged.
func (c Camera) ProjectToNDC(p mathutil.Vec3, aspect float64) (ndcX, ndcY, zCam float64, ok bool) {
	zCam = p[2]
	if zCam <= c.NearPlane {
		return 0, 0, zCam, false
	}
	if c.Perspective {
		scale := math.Tan(mathutil.Deg2Rad(c.FOVDeg) * 0.5)
		ndcX = p[0] / (zCam * scale) / aspect
		ndcY = p[1] / (zCam * scale)
	} else {
		ndcX = p[0]
		ndcY = p[1]
	}
	return ndcX, ndcY, zCam, true
}
