package depthmap

// Map is a row-major normalized depth buffer. Pipeline convention is
// inverted z: a larger value is closer to the viewer.
type Map struct {
	Width  int
	Height int
	Data   []float64
}

// NewMap allocates a zeroed depth map.
func NewMap(width, height int) *Map {
	return &Map{
		Width:  width,
		Height: height,
		Data:   make([]float64, width*height),
	}
}

// At returns the depth at (x, y). No bounds checking beyond the slice's own.
func (m *Map) At(x, y int) float64 {
	return m.Data[y*m.Width+x]
}
