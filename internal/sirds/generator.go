package sirds

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"magiceye-renderer/internal/config"
	"magiceye-renderer/internal/texture"
)

// ErrNilOptions reports a missing options snapshot, the one
// configuration error the generator treats as fatal.
var ErrNilOptions = errors.New("sirds: options must not be nil")

// ErrUnknownMethod reports a linking method this build does not
// implement.
var ErrUnknownMethod = errors.New("sirds: unknown method")

// Method selects the pixel-linking algorithm.
type Method int

const (
	// MethodUnionFind links matching pixels per scanline through a
	// disjoint-set structure. The only implemented method; alternative
	// linking schemes would be added as new Method values.
	MethodUnionFind Method = iota
)

// Separation never drops below this floor; the ceiling is the
// configured eye separation.
const minSeparation = 2

// Generate synthesizes a stereogram from a normalized depth map using
// MethodUnionFind. The depth buffer is row-major width*height with
// larger values meaning closer to the viewer. A nil or empty texture
// falls back to seeded blue noise. The result is interleaved RGB,
// width*height*3 bytes, with every pixel written.
func Generate(depth []float64, width, height int, tex *texture.Texture, opt *config.Options) ([]uint8, error) {
	return GenerateMethod(depth, width, height, tex, opt, MethodUnionFind)
}

// GenerateMethod is Generate with an explicit linking method.
func GenerateMethod(depth []float64, width, height int, tex *texture.Texture, opt *config.Options, method Method) ([]uint8, error) {
	if opt == nil {
		return nil, ErrNilOptions
	}
	if method != MethodUnionFind {
		return nil, ErrUnknownMethod
	}
	return generateUnionFind(depth, width, height, tex, opt), nil
}

// generator carries the per-render state shared by the scanline passes.
type generator struct {
	width  int
	height int
	depth  []float64 // adjusted depth, background budget applied
	sepMap []int
	tex    *texture.Texture
	hasTex bool
	noise  []uint8
	out    []uint8
	rng    *rand.Rand
	opt    *config.Options

	uf       *unionFind
	prevRow  []uint8 // previous row's final colors, indexed x*3
	havePrev bool

	// Per-scanline scratch, reused across rows.
	rootColor    [][3]uint8
	isRoot       []bool
	rootHasColor []bool
}

func generateUnionFind(depth []float64, width, height int, tex *texture.Texture, opt *config.Options) []uint8 {
	sg := &generator{
		width:        width,
		height:       height,
		depth:        adjustDepthRange(depth, opt.BgSeparation),
		tex:          tex,
		out:          make([]uint8, width*height*3),
		opt:          opt,
		uf:           newUnionFind(width),
		prevRow:      make([]uint8, width*3),
		rootColor:    make([][3]uint8, width),
		isRoot:       make([]bool, width),
		rootHasColor: make([]bool, width),
	}

	if opt.RngSeed >= 0 {
		sg.rng = rand.New(rand.NewSource(opt.RngSeed))
	} else {
		sg.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	sg.hasTex = tex != nil && tex.Width > 0 && tex.Height > 0 && len(tex.Pix) > 0
	if !sg.hasTex {
		seed := uint32(opt.RngSeed)
		if opt.RngSeed < 0 {
			seed = sg.rng.Uint32()
		}
		sg.noise = BlueNoiseRGB(width, height, seed)
	}

	focus := EstimateFocusDepth(sg.depth)
	sg.sepMap = separationMap(sg.depth, width, height, opt.EyeSep, opt.DepthGamma, focus)

	return sg.run()
}

// adjustDepthRange compresses depth toward zero so the background
// separation budget stays available. Values above 1 pass through
// unclamped.
func adjustDepthRange(depth []float64, bgSeparation float64) []float64 {
	adjusted := make([]float64, len(depth))
	scale := math.Max(0, 1-bgSeparation)
	for i, d := range depth {
		adjusted[i] = math.Max(0, d*scale)
	}
	return adjusted
}

// separationMap computes the per-pixel link distance. Inverted z:
// larger depth is closer and separates less. sepScale widens the step
// away from the focus plane.
func separationMap(depth []float64, width, height, eyeSep int, depthGamma, focusDepth float64) []int {
	maxSep := eyeSep
	if maxSep < minSeparation {
		maxSep = minSeparation
	}

	sepMap := make([]int, width*height)
	for i := range sepMap {
		d := depth[i]

		t := math.Pow(math.Abs(d-focusDepth)*2, 1.5)
		sepScale := 1 + t*0.5

		sep := float64(minSeparation) +
			float64(maxSep-minSeparation)*math.Pow(math.Max(0, 1-d), depthGamma)*sepScale

		sepMap[i] = clampI(int(math.Round(sep)), minSeparation, maxSep)
	}
	return sepMap
}

func (sg *generator) run() []uint8 {
	// Rows run strictly top to bottom; color propagation reads the
	// previous row's final output.
	for y := 0; y < sg.height; y++ {
		sg.scanline(y)
		copy(sg.prevRow, sg.out[y*sg.width*3:(y+1)*sg.width*3])
		sg.havePrev = true
	}

	if sg.opt.SmoothEdges {
		smoothEdges(sg.depth, sg.out, sg.opt.SmoothThreshold, sg.opt.SmoothWeight, sg.width, sg.height)
	}
	return sg.out
}

func (sg *generator) scanline(y int) {
	sg.uf.reset(sg.width)
	sg.buildUnions(y)

	for x := 0; x < sg.width; x++ {
		sg.isRoot[x] = sg.uf.find(x) == x
		sg.rootHasColor[x] = false
	}

	sg.assignColors(y)
	sg.applyColors(y)
}

func (sg *generator) buildUnions(y int) {
	rowOff := y * sg.width

	for x := 0; x < sg.width; x++ {
		sep := sg.sepMap[rowOff+x]
		left := x - sep/2
		right := left + sep
		if left < 0 || right >= sg.width {
			continue
		}

		d := sg.depth[rowOff+x]

		if sg.opt.Occlusion {
			// Skip the link only when both sides are nearer than the
			// center (inverted z: larger is closer). Gating on either
			// side alone fragments unions into vertical bands.
			dl := sg.depth[rowOff+left]
			dr := sg.depth[rowOff+right]
			if dl > d+sg.opt.OcclusionEpsilon && dr > d+sg.opt.OcclusionEpsilon {
				continue
			}
		}

		// Foreground cohesion
		if d > sg.opt.ForegroundThreshold && x > 0 {
			sg.uf.unite(x-1, x)
		}

		sg.uf.unite(left, right)
	}
}

func (sg *generator) assignColors(y int) {
	rowOff := y * sg.width

	for x := 0; x < sg.width; x++ {
		if !sg.isRoot[x] {
			continue
		}

		d := sg.depth[rowOff+x]
		var color [3]uint8
		propagated := false

		if d > sg.opt.ForegroundThreshold {
			color, propagated = sg.propagate(x, y)
		}

		if !propagated {
			switch {
			case sg.hasTex:
				color = sg.textureColor(x, y)
			case len(sg.noise) > 0:
				i := (rowOff + x) * 3
				color = [3]uint8{sg.noise[i], sg.noise[i+1], sg.noise[i+2]}
			default:
				color = [3]uint8{
					uint8(sg.rng.Intn(256)),
					uint8(sg.rng.Intn(256)),
					uint8(sg.rng.Intn(256)),
				}
			}
		}

		sg.rootColor[x] = color
		sg.rootHasColor[x] = true
	}
}

// propagate pulls a color from an already-colored neighbor, in priority
// order: the left neighbor's root, the pixel directly above, the
// diagonal above-left. Keeps large foreground regions coherent instead
// of sparkling across rows.
func (sg *generator) propagate(x, y int) ([3]uint8, bool) {
	if x > 0 {
		leftRoot := sg.uf.find(x - 1)
		if leftRoot != x && sg.isRoot[leftRoot] && sg.rootHasColor[leftRoot] {
			return sg.rootColor[leftRoot], true
		}
	}

	if sg.havePrev && y > 0 {
		i := x * 3
		return [3]uint8{sg.prevRow[i], sg.prevRow[i+1], sg.prevRow[i+2]}, true
	}

	if x > 0 && y > 0 && sg.havePrev {
		i := (x - 1) * 3
		return [3]uint8{sg.prevRow[i], sg.prevRow[i+1], sg.prevRow[i+2]}, true
	}

	return [3]uint8{}, false
}

// textureColor samples the pattern with the whole image mapped onto one
// texture extent, then applies contrast and brightness in normalized
// space.
func (sg *generator) textureColor(x, y int) [3]uint8 {
	tex := sg.tex
	texX := float64(x) * (float64(tex.Width) / float64(sg.width))
	texY := float64(y) * (float64(tex.Height) / float64(sg.height))

	var r, g, b uint8
	if sg.opt.TileTexture {
		r, g, b = SampleBilinearTiled(tex, texX, texY)
	} else {
		texX = clampF(texX, 0, float64(tex.Width-1))
		texY = clampF(texY, 0, float64(tex.Height-1))
		r, g, b = SampleBilinear(tex, texX, texY)
	}

	color := [3]uint8{r, g, b}
	for c := 0; c < 3; c++ {
		val := float64(color[c]) / 255
		val = (val-0.5)*sg.opt.TextureContrast + 0.5
		val *= sg.opt.TextureBrightness
		color[c] = uint8(clampF(val*255, 0, 255))
	}
	return color
}

func (sg *generator) applyColors(y int) {
	rowOff := y * sg.width

	for x := 0; x < sg.width; x++ {
		root := sg.uf.find(x)
		i := (rowOff + x) * 3
		c := sg.rootColor[root]
		sg.out[i] = c[0]
		sg.out[i+1] = c[1]
		sg.out[i+2] = c[2]
	}
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
