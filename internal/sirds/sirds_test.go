package sirds

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"magiceye-renderer/internal/config"
	"magiceye-renderer/internal/texture"
)

func testOptions(seed int64) *config.Options {
	opt := config.Default()
	opt.RngSeed = seed
	return opt
}

func uniformDepth(w, h int, d float64) []float64 {
	buf := make([]float64, w*h)
	for i := range buf {
		buf[i] = d
	}
	return buf
}

func gradientTexture(w, h int) *texture.Texture {
	t := &texture.Texture{Width: w, Height: h, Channels: 3}
	t.Pix = make([]uint8, w*h*3)
	for i := range t.Pix {
		t.Pix[i] = uint8(i * 7 % 251)
	}
	return t
}

func TestUnionFindBasics(t *testing.T) {
	uf := newUnionFind(8)

	uf.unite(0, 1)
	uf.unite(1, 2)
	if uf.find(2) != uf.find(0) {
		t.Error("transitively united pixels should share a representative")
	}
	if uf.find(3) == uf.find(0) {
		t.Error("separate pixels should not share a representative")
	}

	// unite keeps the first argument's representative.
	uf.unite(5, 6)
	if got := uf.find(6); got != 5 {
		t.Errorf("find(6) = %d, want 5", got)
	}

	// find compresses the walked path.
	uf.unite(0, 5)
	root := uf.find(6)
	if uf.parent[6] != root {
		t.Errorf("parent[6] = %d after find, want root %d", uf.parent[6], root)
	}

	uf.reset(8)
	for x := 0; x < 8; x++ {
		if uf.find(x) != x {
			t.Fatalf("after reset find(%d) = %d, want %d", x, uf.find(x), x)
		}
	}
}

func TestBlueNoiseDeterminism(t *testing.T) {
	a := BlueNoiseRGB(64, 64, 42)
	b := BlueNoiseRGB(64, 64, 42)
	if !bytes.Equal(a, b) {
		t.Error("same seed should reproduce the identical buffer")
	}
	if len(a) != 64*64*3 {
		t.Errorf("len = %d, want %d", len(a), 64*64*3)
	}

	c := BlueNoiseRGB(64, 64, 43)
	if bytes.Equal(a, c) {
		t.Error("different seeds should produce different noise")
	}
}

func TestBlueNoiseBayerDarkensLowThresholds(t *testing.T) {
	// Pixel (0,0) sits on Bayer threshold 0, so each channel is scaled
	// by 1/64 and cannot exceed 3.
	noise := BlueNoiseRGB(16, 16, 7)
	for c := 0; c < 3; c++ {
		if noise[c] > 3 {
			t.Errorf("channel %d at (0,0) = %d, want <= 3", c, noise[c])
		}
	}
}

func TestEstimateFocusDepth(t *testing.T) {
	if got := EstimateFocusDepth(nil); got != 0.5 {
		t.Errorf("empty map focus = %v, want 0.5", got)
	}
	if got := EstimateFocusDepth([]float64{math.NaN(), math.Inf(1)}); got != 0.5 {
		t.Errorf("non-finite map focus = %v, want 0.5", got)
	}

	depth := make([]float64, 0, 110)
	for i := 0; i < 100; i++ {
		depth = append(depth, 0.3)
	}
	for i := 0; i < 10; i++ {
		depth = append(depth, 0.8)
	}
	if got := EstimateFocusDepth(depth); math.Abs(got-0.3) > 0.01 {
		t.Errorf("focus = %v, want about 0.3", got)
	}

	// Extremes clamp to [0.1, 0.9].
	if got := EstimateFocusDepth(uniformDepth(10, 10, 0)); got != 0.1 {
		t.Errorf("all-background focus = %v, want 0.1", got)
	}
	if got := EstimateFocusDepth(uniformDepth(10, 10, 1)); got != 0.9 {
		t.Errorf("all-foreground focus = %v, want 0.9", got)
	}
}

func TestEstimateFocusDepthTieBreaksLow(t *testing.T) {
	depth := []float64{0.2, 0.2, 0.2, 0.6, 0.6, 0.6}
	if got := EstimateFocusDepth(depth); math.Abs(got-0.2) > 0.01 {
		t.Errorf("tied histogram focus = %v, want the lower mode near 0.2", got)
	}
}

func TestSeparationBounds(t *testing.T) {
	const eyeSep = 160

	var depths []float64
	for d := 0.0; d <= 1.0; d += 0.05 {
		depths = append(depths, d)
	}

	for _, gamma := range []float64{0.25, 0.5, 1.0, 1.01, 2.0, 4.0} {
		for _, focus := range []float64{0.1, 0.5, 0.9} {
			sepMap := separationMap(depths, len(depths), 1, eyeSep, gamma, focus)
			for i, sep := range sepMap {
				if sep < minSeparation || sep > eyeSep {
					t.Fatalf("gamma=%g focus=%g depth=%g: separation %d outside [%d, %d]",
						gamma, focus, depths[i], sep, minSeparation, eyeSep)
				}
			}
		}
	}
}

func TestSeparationInvertedZ(t *testing.T) {
	// Closer surfaces (larger depth) must separate less at equal
	// distance from the focus plane.
	sepMap := separationMap([]float64{0.2, 0.8}, 2, 1, 160, 1.0, 0.5)
	if sepMap[1] >= sepMap[0] {
		t.Errorf("near separation %d should be below far separation %d", sepMap[1], sepMap[0])
	}
}

func TestAdjustDepthRange(t *testing.T) {
	got := adjustDepthRange([]float64{0.5, 1.2, -0.3}, 0.3)
	want := []float64{0.5 * 0.7, 1.2 * 0.7, 0}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("adjusted[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	// A budget of one or more flattens everything to zero.
	for _, v := range adjustDepthRange([]float64{0.4, 0.9}, 1.5) {
		if v != 0 {
			t.Errorf("over-budget adjustment left %v, want 0", v)
		}
	}
}

func TestSamplerWrapContinuity(t *testing.T) {
	tex := gradientTexture(4, 4)

	r0, g0, b0 := SampleBilinearTiled(tex, 0, 0)
	r1, g1, b1 := SampleBilinearTiled(tex, 4, 4)
	if r0 != r1 || g0 != g1 || b0 != b1 {
		t.Errorf("wrap boundary: (0,0) = (%d,%d,%d) but (w,h) = (%d,%d,%d)",
			r0, g0, b0, r1, g1, b1)
	}
}

func TestSamplerClampBeyondEdges(t *testing.T) {
	tex := gradientTexture(4, 4)

	r0, g0, b0 := SampleBilinear(tex, -3, 1.5)
	r1, g1, b1 := SampleBilinear(tex, 0, 1.5)
	if r0 != r1 || g0 != g1 || b0 != b1 {
		t.Error("negative coordinate should clamp to the left edge")
	}

	r0, g0, b0 = SampleBilinear(tex, 10, 2)
	r1, g1, b1 = SampleBilinear(tex, 3, 2)
	if r0 != r1 || g0 != g1 || b0 != b1 {
		t.Error("overflowing coordinate should clamp to the right edge")
	}
}

func TestSamplerInteriorAgreement(t *testing.T) {
	tex := gradientTexture(5, 3)

	coords := [][2]float64{{0, 0}, {0.5, 1.25}, {3.9, 0.1}, {4, 2}, {2.5, 1.5}}
	for _, c := range coords {
		r0, g0, b0 := SampleBilinear(tex, c[0], c[1])
		r1, g1, b1 := SampleBilinearTiled(tex, c[0], c[1])
		if r0 != r1 || g0 != g1 || b0 != b1 {
			t.Errorf("interior (%g,%g): clamped (%d,%d,%d) != tiled (%d,%d,%d)",
				c[0], c[1], r0, g0, b0, r1, g1, b1)
		}
	}
}

func TestSamplerBilinearMidpoint(t *testing.T) {
	tex := &texture.Texture{
		Width: 2, Height: 1, Channels: 3,
		Pix: []uint8{100, 100, 100, 200, 200, 200},
	}
	r, g, b := SampleBilinear(tex, 0.5, 0)
	if r != 150 || g != 150 || b != 150 {
		t.Errorf("midpoint sample = (%d,%d,%d), want (150,150,150)", r, g, b)
	}
}

func TestSmoothEdgesForegroundOnly(t *testing.T) {
	const w, h = 5, 5
	depth := uniformDepth(w, h, 0.1)
	depth[2*w+2] = 0.9

	rgb := make([]uint8, w*h*3)
	for i := range rgb {
		rgb[i] = 90
	}
	rgb[(2*w+2)*3] = 255
	rgb[(2*w+2)*3+1] = 255
	rgb[(2*w+2)*3+2] = 255

	smoothEdges(depth, rgb, 0.75, 1, w, h)

	// alpha = 1: the center becomes the 3x3 mean, (8*90 + 255)/9 = 108.
	if got := rgb[(2*w+2)*3]; got != 108 {
		t.Errorf("smoothed center = %d, want 108", got)
	}
	// Background neighbors stay put.
	if got := rgb[(1*w+1)*3]; got != 90 {
		t.Errorf("background pixel changed to %d, want 90", got)
	}
}

func TestSmoothEdgesWeightSoftensBlend(t *testing.T) {
	const w, h = 5, 5
	depth := uniformDepth(w, h, 0.1)
	depth[2*w+2] = 0.9

	rgb := make([]uint8, w*h*3)
	for i := range rgb {
		rgb[i] = 90
	}
	for c := 0; c < 3; c++ {
		rgb[(2*w+2)*3+c] = 255
	}

	smoothEdges(depth, rgb, 0.75, 6, w, h)

	// alpha = 1/6: 255*(5/6) + 108.33*(1/6) = 230.55, truncated.
	if got := rgb[(2*w+2)*3]; got != 230 {
		t.Errorf("weight-6 center = %d, want 230", got)
	}
}

func TestSmoothEdgesSkipsTinyImages(t *testing.T) {
	rgb := []uint8{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	want := make([]uint8, len(rgb))
	copy(want, rgb)

	smoothEdges(uniformDepth(2, 2, 1), rgb, 0, 1, 2, 2)
	if !bytes.Equal(rgb, want) {
		t.Error("images below 3x3 should pass through untouched")
	}
}

func TestGenerateNilOptions(t *testing.T) {
	_, err := Generate(uniformDepth(4, 4, 0), 4, 4, nil, nil)
	if !errors.Is(err, ErrNilOptions) {
		t.Errorf("err = %v, want ErrNilOptions", err)
	}
}

func TestGenerateUnknownMethod(t *testing.T) {
	_, err := GenerateMethod(uniformDepth(4, 4, 0), 4, 4, nil, testOptions(1), Method(99))
	if !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("err = %v, want ErrUnknownMethod", err)
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	const w, h = 32, 32
	depth := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			depth[y*w+x] = float64(y) / float64(h-1)
		}
	}
	orig := make([]float64, len(depth))
	copy(orig, depth)

	a, err := Generate(depth, w, h, nil, testOptions(42))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(depth, w, h, nil, testOptions(42))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("same seed should reproduce identical stereograms")
	}

	c, err := Generate(depth, w, h, nil, testOptions(43))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if bytes.Equal(a, c) {
		t.Error("different seeds should change the noise pattern")
	}

	for i := range depth {
		if depth[i] != orig[i] {
			t.Fatal("Generate must not mutate the input depth buffer")
		}
	}
}

func TestGenerateDeterministicWithTexture(t *testing.T) {
	const w, h = 24, 16
	depth := uniformDepth(w, h, 0.4)
	tex := gradientTexture(8, 8)

	a, err := Generate(depth, w, h, tex, testOptions(5))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate(depth, w, h, tex, testOptions(5))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("textured renders with one seed should be identical")
	}
	if len(a) != w*h*3 {
		t.Errorf("len = %d, want %d", len(a), w*h*3)
	}
}

func TestGenerateBackgroundIsSeededNoise(t *testing.T) {
	// With every pixel at background depth the separation exceeds the
	// image width, no links form, nothing propagates, and the output is
	// exactly the seeded blue-noise field.
	const w, h = 32, 32
	opt := testOptions(42)
	opt.SmoothEdges = false

	out, err := Generate(uniformDepth(w, h, 0), w, h, nil, opt)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if want := BlueNoiseRGB(w, h, 42); !bytes.Equal(out, want) {
		t.Error("all-background output should equal the raw noise buffer")
	}
}

// linkRow mirrors the generator's union pass so tests can rebuild the
// expected equivalence classes for one row.
func linkRow(uf *unionFind, depth []float64, sepMap []int, rowOff, width int, opt *config.Options) {
	for x := 0; x < width; x++ {
		sep := sepMap[rowOff+x]
		left := x - sep/2
		right := left + sep
		if left < 0 || right >= width {
			continue
		}
		d := depth[rowOff+x]
		if opt.Occlusion {
			dl := depth[rowOff+left]
			dr := depth[rowOff+right]
			if dl > d+opt.OcclusionEpsilon && dr > d+opt.OcclusionEpsilon {
				continue
			}
		}
		if d > opt.ForegroundThreshold && x > 0 {
			uf.unite(x-1, x)
		}
		uf.unite(left, right)
	}
}

func TestGenerateUnitedPixelsShareColor(t *testing.T) {
	const w, h = 100, 3
	opt := testOptions(11)
	opt.BgSeparation = 0
	opt.SmoothEdges = false

	depth := uniformDepth(w, h, 0.5)
	out, err := Generate(depth, w, h, nil, opt)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	adjusted := adjustDepthRange(depth, opt.BgSeparation)
	focus := EstimateFocusDepth(adjusted)
	sepMap := separationMap(adjusted, w, h, opt.EyeSep, opt.DepthGamma, focus)

	uf := newUnionFind(w)
	for y := 0; y < h; y++ {
		uf.reset(w)
		linkRow(uf, adjusted, sepMap, y*w, w, opt)

		for x := 0; x < w; x++ {
			root := uf.find(x)
			for c := 0; c < 3; c++ {
				if out[(y*w+x)*3+c] != out[(y*w+root)*3+c] {
					t.Fatalf("row %d: pixel %d and its root %d differ in channel %d", y, x, root, c)
				}
			}
		}
	}
}

func TestOcclusionGateBlocksDiscontinuity(t *testing.T) {
	const w = 12
	depth := uniformDepth(w, 1, 0.9)
	depth[5] = 0.5

	sepMap := make([]int, w)
	for i := range sepMap {
		sepMap[i] = 4 // left = x-2, right = x+2
	}

	run := func(occlusion bool) *unionFind {
		opt := testOptions(1)
		opt.Occlusion = occlusion
		opt.ForegroundThreshold = 0.95
		uf := newUnionFind(w)
		linkRow(uf, depth, sepMap, 0, w, opt)
		return uf
	}

	// Pixel 5 is far behind both link endpoints, so the gate must drop
	// its (3,7) union.
	gated := run(true)
	if gated.find(3) == gated.find(7) {
		t.Error("occlusion gate should keep 3 and 7 apart")
	}

	open := run(false)
	if open.find(3) != open.find(7) {
		t.Error("without the gate 3 and 7 should be linked")
	}
}

func TestPropagationPriority(t *testing.T) {
	const w = 4
	sg := &generator{
		width:        w,
		height:       8,
		uf:           newUnionFind(w),
		prevRow:      make([]uint8, w*3),
		havePrev:     true,
		rootColor:    make([][3]uint8, w),
		isRoot:       make([]bool, w),
		rootHasColor: make([]bool, w),
	}
	for x := 0; x < w; x++ {
		sg.isRoot[x] = true
		sg.prevRow[x*3] = uint8(40 + x)
	}
	sg.rootColor[0] = [3]uint8{9, 9, 9}
	sg.rootHasColor[0] = true

	// Left neighbor's root already has a color: copy it.
	if color, ok := sg.propagate(1, 5); !ok || color != [3]uint8{9, 9, 9} {
		t.Errorf("propagate(1,5) = %v %v, want left root color (9,9,9)", color, ok)
	}

	// Left root is uncolored: fall back to the pixel directly above.
	if color, ok := sg.propagate(2, 5); !ok || color[0] != 42 {
		t.Errorf("propagate(2,5) = %v %v, want prev-row color 42", color, ok)
	}

	// Column zero has no left neighbor: straight to the row above.
	if color, ok := sg.propagate(0, 5); !ok || color[0] != 40 {
		t.Errorf("propagate(0,5) = %v %v, want prev-row color 40", color, ok)
	}

	// First row has nothing to propagate from.
	sg.havePrev = false
	if _, ok := sg.propagate(0, 0); ok {
		t.Error("propagate on the first row should report no source")
	}
}

func TestGenerateEmptyImage(t *testing.T) {
	out, err := Generate(nil, 0, 0, nil, testOptions(1))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("len = %d, want 0", len(out))
	}
}
