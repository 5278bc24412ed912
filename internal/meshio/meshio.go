package meshio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hschendel/stl"

	"magiceye-renderer/internal/mesh"
)

// Load reads a mesh from path, dispatching on extension: .obj goes through
// the Wavefront reader, everything else is treated as STL.
func Load(path string) (*mesh.Mesh, error) {
	if strings.EqualFold(filepath.Ext(path), ".obj") {
		return LoadOBJ(path)
	}
	return LoadSTL(path)
}

// LoadSTL reads a binary or ASCII STL file into a triangle soup.
// Normals and attribute words are dropped; only vertex positions matter here.
func LoadSTL(path string) (*mesh.Mesh, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("meshio: read stl %s: %w", path, err)
	}
	m := &mesh.Mesh{Verts: make([][3]float32, 0, len(solid.Triangles)*3)}
	for i := range solid.Triangles {
		t := &solid.Triangles[i]
		m.AppendTriangle(
			[3]float32(t.Vertices[0]),
			[3]float32(t.Vertices[1]),
			[3]float32(t.Vertices[2]),
		)
	}
	return m, nil
}
