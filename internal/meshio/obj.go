package meshio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"magiceye-renderer/internal/mesh"
)

// LoadOBJ reads a minimal Wavefront OBJ: "v" position records and "f" face
// records, with polygons fan-triangulated. Indices may be 1-based or
// negative (relative to the end of the list); texture/normal references
// after "/" and all other record types are ignored.
func LoadOBJ(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("meshio: open obj %s: %w", path, err)
	}
	defer f.Close()

	var positions [][3]float32
	m := &mesh.Mesh{}

	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("meshio: %s line %d: vertex needs 3 coordinates", path, lineNo)
			}
			var v [3]float32
			for i := 0; i < 3; i++ {
				x, err := strconv.ParseFloat(fields[1+i], 32)
				if err != nil {
					return nil, fmt.Errorf("meshio: %s line %d: %w", path, lineNo, err)
				}
				v[i] = float32(x)
			}
			positions = append(positions, v)
		case "f":
			refs := fields[1:]
			if len(refs) < 3 {
				return nil, fmt.Errorf("meshio: %s line %d: face needs at least 3 vertices", path, lineNo)
			}
			idx := make([]int, len(refs))
			for i, ref := range refs {
				n, err := faceIndex(ref, len(positions))
				if err != nil {
					return nil, fmt.Errorf("meshio: %s line %d: %w", path, lineNo, err)
				}
				idx[i] = n
			}
			for i := 2; i < len(idx); i++ {
				m.AppendTriangle(positions[idx[0]], positions[idx[i-1]], positions[idx[i]])
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("meshio: read obj %s: %w", path, err)
	}
	return m, nil
}

// faceIndex resolves one face vertex reference ("7", "7/1", "7//2", "-1")
// to a zero-based position index.
func faceIndex(ref string, nPositions int) (int, error) {
	if i := strings.IndexByte(ref, '/'); i >= 0 {
		ref = ref[:i]
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("face index %q: %w", ref, err)
	}
	switch {
	case n > 0:
		n--
	case n < 0:
		n += nPositions
	default:
		return 0, fmt.Errorf("face index 0 is invalid")
	}
	if n < 0 || n >= nPositions {
		return 0, fmt.Errorf("face index %q out of range (%d vertices)", ref, nPositions)
	}
	return n, nil
}
