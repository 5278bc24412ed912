package sirds

// unionFind groups pixels of one scanline into equivalence classes.
// A single instance is reused across rows via reset.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	u := &unionFind{}
	u.reset(n)
	return u
}

func (u *unionFind) reset(n int) {
	if cap(u.parent) < n {
		u.parent = make([]int, n)
	}
	u.parent = u.parent[:n]
	for i := range u.parent {
		u.parent[i] = i
	}
}

// find returns the class representative for x, compressing the path
// behind it. Iterative; rows can be several thousand pixels wide.
func (u *unionFind) find(x int) int {
	r := x
	for u.parent[r] != r {
		r = u.parent[r]
	}
	for u.parent[x] != x {
		p := u.parent[x]
		u.parent[x] = r
		x = p
	}
	return r
}

// unite merges the classes of a and b, keeping a's representative.
func (u *unionFind) unite(a, b int) {
	a = u.find(a)
	b = u.find(b)
	if a != b {
		u.parent[b] = a
	}
}
