package mathutil

// Mat4 is a 4×4 affine matrix stored row-major. Used to compose the mesh
// transform pipeline (shear, rotation about a point).
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// MulPoint transforms a 3D point (w=1) by the 4×4 matrix.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11],
	}
}

// Mat4Translate builds a translation matrix.
func Mat4Translate(t Vec3) Mat4 {
	return Mat4{
		1, 0, 0, t[0],
		0, 1, 0, t[1],
		0, 0, 1, t[2],
		0, 0, 0, 1,
	}
}

// Mat4Shear builds an upper-triangular shear matrix:
// x' = x + xy·y + xz·z, y' = y + yz·z, z' = z.
func Mat4Shear(xy, xz, yz float64) Mat4 {
	return Mat4{
		1, xy, xz, 0,
		0, 1, yz, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4FromMat3 embeds a 3×3 linear transform into a 4×4 affine matrix.
func Mat4FromMat3(r Mat3) Mat4 {
	m := Mat4Identity()
	for i := 0; i < 3; i++ {
		copy(m[i*4:i*4+3], r[i*3:i*3+3])
	}
	return m
}
