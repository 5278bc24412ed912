package mesh

import (
	"math"

	"magiceye-renderer/internal/mathutil"
)

// SmoothUniform runs umbrella Laplacian smoothing over the deduplicated
// vertex graph: each interior vertex moves toward the average of its
// neighbors by alpha per iteration. Boundary vertices (edges with a single
// incident face) stay pinned at their original positions.
func (m *Mesh) SmoothUniform(iterations int, alpha float64) {
	verts, faces := m.indexedView()
	if len(verts) == 0 || len(faces) == 0 || iterations <= 0 || alpha <= 0 {
		return
	}

	nbrs := uniformNeighbors(faces, len(verts))
	boundary := boundaryVerts(faces, len(verts))
	fixed := append([]mathutil.Vec3(nil), verts...)

	next := make([]mathutil.Vec3, len(verts))
	for it := 0; it < iterations; it++ {
		for i := range verts {
			if boundary[i] {
				next[i] = fixed[i]
				continue
			}
			n := nbrs[i]
			if len(n) == 0 {
				next[i] = verts[i]
				continue
			}
			var avg mathutil.Vec3
			for _, j := range n {
				avg = avg.Add(verts[j])
			}
			avg = avg.Scale(1 / float64(len(n)))
			next[i] = verts[i].Scale(1 - alpha).Add(avg.Scale(alpha))
		}
		verts, next = next, verts
	}

	m.writeIndexed(verts, faces)
}

// SmoothTaubin runs λ/μ two-pass smoothing with cotangent weights, which
// counters the volume shrinkage of plain Laplacian smoothing. Weights are
// built once from the initial geometry and frozen; negative cotangent
// weights are clamped to zero and a vertex whose weights all vanish falls
// back to the uniform neighbor mean. Boundary vertices stay pinned.
func (m *Mesh) SmoothTaubin(iterations int, lambda, mu float64) {
	verts, faces := m.indexedView()
	if len(verts) == 0 || len(faces) == 0 || iterations <= 0 {
		return
	}

	weights, nbrs := cotanWeights(verts, faces)
	boundary := boundaryVerts(faces, len(verts))
	fixed := append([]mathutil.Vec3(nil), verts...)

	pass := func(in, out []mathutil.Vec3, step float64) {
		for i := range in {
			if boundary[i] {
				out[i] = fixed[i]
				continue
			}
			var sum mathutil.Vec3
			sumW := 0.0
			for _, wn := range weights[i] {
				if wn.w <= 0 {
					continue
				}
				sum = sum.Add(in[wn.idx].Scale(wn.w))
				sumW += wn.w
			}
			var mean mathutil.Vec3
			if sumW > 1e-12 {
				mean = sum.Scale(1 / sumW)
			} else {
				n := nbrs[i]
				if len(n) == 0 {
					out[i] = in[i]
					continue
				}
				for _, j := range n {
					mean = mean.Add(in[j])
				}
				mean = mean.Scale(1 / float64(len(n)))
			}
			out[i] = in[i].Add(mean.Sub(in[i]).Scale(step))
		}
	}

	tmp := make([]mathutil.Vec3, len(verts))
	next := make([]mathutil.Vec3, len(verts))
	for it := 0; it < iterations; it++ {
		pass(verts, tmp, lambda) // smoothing step
		pass(tmp, next, mu)      // inflation step against shrinkage
		verts, next = next, verts
	}

	m.writeIndexed(verts, faces)
}

// indexedView deduplicates the triangle soup into unique vertices plus
// index triples. Vertices are matched on exact float32 coordinates, which
// is how shared corners appear in STL soups.
func (m *Mesh) indexedView() ([]mathutil.Vec3, [][3]int) {
	seen := make(map[[3]float32]int, len(m.Verts))
	verts := make([]mathutil.Vec3, 0, len(m.Verts)/2)
	faces := make([][3]int, 0, m.TriangleCount())

	for t := 0; t < m.TriangleCount(); t++ {
		var f [3]int
		for k := 0; k < 3; k++ {
			v := m.Verts[t*3+k]
			idx, ok := seen[v]
			if !ok {
				idx = len(verts)
				seen[v] = idx
				verts = append(verts, mathutil.Vec3{float64(v[0]), float64(v[1]), float64(v[2])})
			}
			f[k] = idx
		}
		faces = append(faces, f)
	}
	return verts, faces
}

func (m *Mesh) writeIndexed(verts []mathutil.Vec3, faces [][3]int) {
	for t, f := range faces {
		for k := 0; k < 3; k++ {
			v := verts[f[k]]
			m.Verts[t*3+k] = [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
		}
	}
}

func edgeKey(a, b int) uint64 {
	if a > b {
		a, b = b, a
	}
	return uint64(a)<<32 | uint64(b)
}

// boundaryVerts marks vertices on edges with exactly one incident face.
func boundaryVerts(faces [][3]int, n int) []bool {
	count := make(map[uint64]int, len(faces)*3)
	for _, f := range faces {
		count[edgeKey(f[0], f[1])]++
		count[edgeKey(f[1], f[2])]++
		count[edgeKey(f[2], f[0])]++
	}
	boundary := make([]bool, n)
	for k, c := range count {
		if c == 1 {
			boundary[int(k>>32)] = true
			boundary[int(k&0xffffffff)] = true
		}
	}
	return boundary
}

func uniformNeighbors(faces [][3]int, n int) [][]int {
	nbrs := make([][]int, n)
	add := func(a, b int) {
		for _, x := range nbrs[a] {
			if x == b {
				return
			}
		}
		nbrs[a] = append(nbrs[a], b)
	}
	for _, f := range faces {
		add(f[0], f[1])
		add(f[1], f[0])
		add(f[1], f[2])
		add(f[2], f[1])
		add(f[2], f[0])
		add(f[0], f[2])
	}
	return nbrs
}

type weightedNbr struct {
	idx int
	w   float64
}

// cotanWeights accumulates the half-cotangent of the angle opposite each
// edge, per incident triangle. Returns the weighted lists plus plain index
// lists for the uniform fallback.
func cotanWeights(verts []mathutil.Vec3, faces [][3]int) ([][]weightedNbr, [][]int) {
	n := len(verts)
	acc := make([]map[int]float64, n)
	for i := range acc {
		acc[i] = make(map[int]float64)
	}

	cot := func(u, v mathutil.Vec3) float64 {
		denom := u.Cross(v).Len()
		if denom <= 1e-12 {
			return 0
		}
		return u.Dot(v) / denom
	}

	for _, f := range faces {
		v0, v1, v2 := verts[f[0]], verts[f[1]], verts[f[2]]
		c0 := 0.5 * cot(v1.Sub(v0), v2.Sub(v0)) // opposite edge (f1,f2)
		c1 := 0.5 * cot(v2.Sub(v1), v0.Sub(v1)) // opposite edge (f2,f0)
		c2 := 0.5 * cot(v0.Sub(v2), v1.Sub(v2)) // opposite edge (f0,f1)
		if math.IsInf(c0, 0) || math.IsNaN(c0) {
			c0 = 0
		}
		if math.IsInf(c1, 0) || math.IsNaN(c1) {
			c1 = 0
		}
		if math.IsInf(c2, 0) || math.IsNaN(c2) {
			c2 = 0
		}
		acc[f[1]][f[2]] += c0
		acc[f[2]][f[1]] += c0
		acc[f[2]][f[0]] += c1
		acc[f[0]][f[2]] += c1
		acc[f[0]][f[1]] += c2
		acc[f[1]][f[0]] += c2
	}

	weights := make([][]weightedNbr, n)
	nbrs := make([][]int, n)
	for i, m := range acc {
		weights[i] = make([]weightedNbr, 0, len(m))
		nbrs[i] = make([]int, 0, len(m))
		for j, w := range m {
			if w < 0 {
				w = 0
			}
			weights[i] = append(weights[i], weightedNbr{idx: j, w: w})
			nbrs[i] = append(nbrs[i], j)
		}
	}
	return weights, nbrs
}
