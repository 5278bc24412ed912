package mesh

import (
	"magiceye-renderer/internal/mathutil"
)

// Scale multiplies every vertex component-wise.
func (m *Mesh) Scale(sx, sy, sz float64) {
	for i := range m.Verts {
		m.Verts[i][0] = float32(float64(m.Verts[i][0]) * sx)
		m.Verts[i][1] = float32(float64(m.Verts[i][1]) * sy)
		m.Verts[i][2] = float32(float64(m.Verts[i][2]) * sz)
	}
}

// Translate offsets every vertex.
func (m *Mesh) Translate(dx, dy, dz float64) {
	for i := range m.Verts {
		m.Verts[i][0] = float32(float64(m.Verts[i][0]) + dx)
		m.Verts[i][1] = float32(float64(m.Verts[i][1]) + dy)
		m.Verts[i][2] = float32(float64(m.Verts[i][2]) + dz)
	}
}

// Shear applies the upper-triangular shear
// x' = x + xy·y + xz·z, y' = y + yz·z, z' = z.
func (m *Mesh) Shear(xy, xz, yz float64) {
	m.applyMat4(mathutil.Mat4Shear(xy, xz, yz))
}

// RotateEuler rotates the mesh about origin by Euler XYZ angles in degrees,
// going through a quaternion to avoid gimbal artifacts on combined axes.
func (m *Mesh) RotateEuler(degX, degY, degZ float64, origin mathutil.Vec3) {
	q := mathutil.EulerToQuat(
		mathutil.Deg2Rad(degX),
		mathutil.Deg2Rad(degY),
		mathutil.Deg2Rad(degZ),
	)
	rot := mathutil.Mat4FromMat3(mathutil.QuatToMat3(q))
	t := mathutil.Mat4Mul(
		mathutil.Mat4Mul(mathutil.Mat4Translate(origin), rot),
		mathutil.Mat4Translate(origin.Scale(-1)),
	)
	m.applyMat4(t)
}

func (m *Mesh) applyMat4(t mathutil.Mat4) {
	for i := range m.Verts {
		p := t.MulPoint(mathutil.Vec3{
			float64(m.Verts[i][0]),
			float64(m.Verts[i][1]),
			float64(m.Verts[i][2]),
		})
		m.Verts[i][0] = float32(p[0])
		m.Verts[i][1] = float32(p[1])
		m.Verts[i][2] = float32(p[2])
	}
}
